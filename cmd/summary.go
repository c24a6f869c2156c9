package cmd

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/spf13/cobra"

	"github.com/monoid/hprof-dump-parser/hprof"
	"github.com/monoid/hprof-dump-parser/internal/index"
	"github.com/monoid/hprof-dump-parser/internal/tui"
	"github.com/monoid/hprof-dump-parser/utils"
)

var (
	summaryTUI      bool
	summaryIDLittle bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary [hprof-file]",
	Short: "Aggregate a heap dump into per-record-kind statistics",
	Long: `Memory-maps the file and parses it in place: string payloads are
read straight out of the mapping without copying. Prints counts and
payload bytes per record kind, plus the string and class table sizes.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".hprof"}),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("unable to open file: %w", err)
		}
		defer file.Close()

		// Memory map the file instead of using read/write.
		data, err := mmap.Map(file, mmap.RDONLY, 0)
		if err != nil {
			return fmt.Errorf("unable to mmap file: %w", err)
		}
		defer data.Unmap()

		opts := &hprof.Options{
			LoadPrimitiveArrays: true,
			LoadObjectArrays:    true,
		}
		if summaryIDLittle {
			opts.IDByteOrder = binary.LittleEndian
		}

		it, err := hprof.OpenBytes(data, opts)
		if err != nil {
			return err
		}

		snap, err := index.Build(it)
		if err != nil {
			return fmt.Errorf("stream stopped after %d records: %w", snap.Stats.Records, err)
		}

		if summaryTUI {
			return tui.Run(snap)
		}

		printSummary(snap)
		return nil
	},
}

func printSummary(snap *index.Snapshot) {
	fmt.Printf("%s · id size %d · %d records\n",
		utils.TitleStyle.Render(snap.Banner), snap.IDSize, snap.Stats.Records)

	labels := make([]string, 0, len(snap.Stats.PerKind))
	for label := range snap.Stats.PerKind {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := snap.Stats.PerKind[labels[i]], snap.Stats.PerKind[labels[j]]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return labels[i] < labels[j]
	})

	fmt.Println(utils.InfoStyle.Render(fmt.Sprintf("%-24s %10s %10s", "RECORD", "COUNT", "PAYLOAD")))
	for _, label := range labels {
		stat := snap.Stats.PerKind[label]
		fmt.Printf("%-24s %10d %10s\n", label, stat.Count, utils.MemorySize(stat.Bytes))
	}

	fmt.Println(utils.MutedStyle.Render(fmt.Sprintf("%d strings · %d classes",
		snap.Strings.Count(), snap.Classes.Count())))
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryTUI, "tui", false, "open the interactive record browser")
	summaryCmd.Flags().BoolVar(&summaryIDLittle, "id-little-endian", false, "decode identifiers little-endian")
	rootCmd.AddCommand(summaryCmd)
}
