package cmd

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monoid/hprof-dump-parser/hprof"
	"github.com/monoid/hprof-dump-parser/internal/index"
	"github.com/monoid/hprof-dump-parser/utils"
)

var (
	recordsNoArrays bool
	recordsIDLittle bool
	recordsMax      int
)

var recordsCmd = &cobra.Command{
	Use:   "records [hprof-file]",
	Short: "Stream every record of a heap dump to stdout",
	Long: `Streams the dump record by record over a buffered reader, printing
one line per record. Array payloads can be skipped entirely with
--no-arrays, which keeps memory flat on multi-gigabyte dumps.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".hprof"}),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("unable to open file: %w", err)
		}
		defer file.Close()

		opts := &hprof.Options{
			LoadPrimitiveArrays: !recordsNoArrays,
			LoadObjectArrays:    !recordsNoArrays,
		}
		if recordsIDLittle {
			opts.IDByteOrder = binary.LittleEndian
		}

		it, err := hprof.OpenReader(file, opts)
		if err != nil {
			return err
		}

		fmt.Printf("%s · id size %d · base timestamp %d\n",
			utils.TitleStyle.Render(it.Banner()), it.IDSize(), uint64(it.Timestamp()))

		count := 0
		for it.Next() {
			entry := it.Entry()
			count++
			fmt.Printf("%s %s\n",
				utils.InfoStyle.Render(fmt.Sprintf("%-20s", index.RecordLabel(entry.Record))),
				utils.TextStyle.Render(describe(entry.Record)))
			if recordsMax > 0 && count >= recordsMax {
				fmt.Println(utils.MutedStyle.Render("... stopped at --max"))
				return nil
			}
		}
		if err := it.Err(); err != nil {
			return fmt.Errorf("stream stopped after %d records: %w", count, err)
		}

		fmt.Println(utils.MutedStyle.Render(fmt.Sprintf("%d records", count)))
		return nil
	},
}

// describe renders the handful of fields worth scanning for on a
// terminal; full contents stay in the library types.
func describe(rec hprof.Record) string {
	switch r := rec.(type) {
	case *hprof.UTF8Record:
		return fmt.Sprintf("id=0x%x %q", uint64(r.NameID), truncate(string(r.Bytes), 60))
	case *hprof.LoadClassRecord:
		return fmt.Sprintf("serial=%d class=0x%x name=0x%x", r.ClassSerial, uint64(r.ClassObjectID), uint64(r.ClassNameID))
	case *hprof.UnloadClassRecord:
		return fmt.Sprintf("serial=%d", r.ClassSerial)
	case *hprof.StackFrameRecord:
		return fmt.Sprintf("frame=0x%x method=0x%x line=%d", uint64(r.StackFrameID), uint64(r.MethodNameID), r.LineNumber)
	case *hprof.StackTraceRecord:
		return fmt.Sprintf("serial=%d thread=%d frames=%d", r.StackTraceSerial, r.ThreadSerial, len(r.StackFrameIDs))
	case *hprof.AllocSitesRecord:
		return fmt.Sprintf("sites=%d live=%s", len(r.Sites), utils.MemorySize(r.LiveBytes))
	case *hprof.HeapSummaryRecord:
		return fmt.Sprintf("live=%s/%d alloc=%s/%d",
			utils.MemorySize(r.LiveBytes), r.LiveInstances,
			utils.MemorySize(r.AllocBytes), r.AllocInstances)
	case *hprof.StartThreadRecord:
		return fmt.Sprintf("serial=%d obj=0x%x name=0x%x", r.ThreadSerial, uint64(r.ThreadObjectID), uint64(r.ThreadNameID))
	case *hprof.EndThreadRecord:
		return fmt.Sprintf("serial=%d", r.ThreadSerial)
	case *hprof.ClassDump:
		return fmt.Sprintf("class=0x%x super=0x%x fields=%d statics=%d size=%d",
			uint64(r.ClassObjectID), uint64(r.SuperClassObjectID),
			len(r.InstanceFields), len(r.StaticFields), r.InstanceSize)
	case *hprof.InstanceDump:
		return fmt.Sprintf("obj=0x%x class=0x%x size=%d", uint64(r.ObjectID), uint64(r.ClassObjectID), r.DataSize)
	case *hprof.ObjectArrayDump:
		return fmt.Sprintf("obj=0x%x class=0x%x n=%d", uint64(r.ObjectID), uint64(r.ArrayClassObjectID), r.Count)
	case *hprof.PrimitiveArrayDump:
		return fmt.Sprintf("obj=0x%x %s[%d]", uint64(r.ObjectID), r.ElementKind, r.Count)
	case *hprof.GCRootUnknown:
		return fmt.Sprintf("obj=0x%x", uint64(r.ObjectID))
	case *hprof.GCRootJNIGlobal:
		return fmt.Sprintf("obj=0x%x ref=0x%x", uint64(r.ObjectID), uint64(r.JNIGlobalRefID))
	case *hprof.GCRootJNILocal:
		return fmt.Sprintf("obj=0x%x thread=%d frame=%d", uint64(r.ObjectID), r.ThreadSerial, r.FrameNumber)
	case *hprof.GCRootJavaFrame:
		return fmt.Sprintf("obj=0x%x thread=%d frame=%d", uint64(r.ObjectID), r.ThreadSerial, r.FrameNumber)
	case *hprof.GCRootNativeStack:
		return fmt.Sprintf("obj=0x%x thread=%d", uint64(r.ObjectID), r.ThreadSerial)
	case *hprof.GCRootStickyClass:
		return fmt.Sprintf("class=0x%x", uint64(r.ObjectID))
	case *hprof.GCRootThreadBlock:
		return fmt.Sprintf("obj=0x%x thread=%d", uint64(r.ObjectID), r.ThreadSerial)
	case *hprof.GCRootMonitorUsed:
		return fmt.Sprintf("obj=0x%x", uint64(r.ObjectID))
	case *hprof.GCRootThreadObject:
		return fmt.Sprintf("obj=0x%x thread=%d trace=%d", uint64(r.ThreadObjectID), r.ThreadSerial, r.StackTraceSerial)
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	recordsCmd.Flags().BoolVar(&recordsNoArrays, "no-arrays", false, "skip array element payloads")
	recordsCmd.Flags().BoolVar(&recordsIDLittle, "id-little-endian", false, "decode identifiers little-endian")
	recordsCmd.Flags().IntVar(&recordsMax, "max", 0, "stop after this many records (0 = all)")
	rootCmd.AddCommand(recordsCmd)
}
