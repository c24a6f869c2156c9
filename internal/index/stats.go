package index

import "github.com/monoid/hprof-dump-parser/hprof"

// KindStat accumulates per-record-kind totals. Bytes is the payload
// weight of the kind: string bytes, instance data, array element
// bytes. Framing and fixed headers are not counted.
type KindStat struct {
	Count int
	Bytes uint64
}

// Stats is the per-kind breakdown of one record stream.
type Stats struct {
	idSize  uint32
	Records int
	PerKind map[string]*KindStat
}

func NewStats(idSize uint32) *Stats {
	return &Stats{
		idSize:  idSize,
		PerKind: make(map[string]*KindStat),
	}
}

func (s *Stats) Observe(rec hprof.Record) {
	s.Records++
	stat := s.kind(RecordLabel(rec))
	stat.Count++
	stat.Bytes += s.payloadBytes(rec)
}

func (s *Stats) kind(label string) *KindStat {
	stat, ok := s.PerKind[label]
	if !ok {
		stat = &KindStat{}
		s.PerKind[label] = stat
	}
	return stat
}

func (s *Stats) payloadBytes(rec hprof.Record) uint64 {
	switch r := rec.(type) {
	case *hprof.UTF8Record:
		return uint64(len(r.Bytes))
	case *hprof.InstanceDump:
		return uint64(r.DataSize)
	case *hprof.ObjectArrayDump:
		return uint64(r.Count) * uint64(s.idSize)
	case *hprof.PrimitiveArrayDump:
		return uint64(r.Count) * uint64(r.ElementKind.Size(s.idSize))
	default:
		return 0
	}
}

// RecordLabel names a record kind the way the format specification
// does, matching the tag name it was framed with.
func RecordLabel(rec hprof.Record) string {
	switch rec.(type) {
	case *hprof.UTF8Record:
		return "UTF8"
	case *hprof.LoadClassRecord:
		return "LOAD_CLASS"
	case *hprof.UnloadClassRecord:
		return "UNLOAD_CLASS"
	case *hprof.StackFrameRecord:
		return "STACK_FRAME"
	case *hprof.StackTraceRecord:
		return "STACK_TRACE"
	case *hprof.AllocSitesRecord:
		return "ALLOC_SITES"
	case *hprof.HeapSummaryRecord:
		return "HEAP_SUMMARY"
	case *hprof.StartThreadRecord:
		return "START_THREAD"
	case *hprof.EndThreadRecord:
		return "END_THREAD"
	case *hprof.GCRootUnknown:
		return "GC_ROOT_UNKNOWN"
	case *hprof.GCRootJNIGlobal:
		return "GC_ROOT_JNI_GLOBAL"
	case *hprof.GCRootJNILocal:
		return "GC_ROOT_JNI_LOCAL"
	case *hprof.GCRootJavaFrame:
		return "GC_ROOT_JAVA_FRAME"
	case *hprof.GCRootNativeStack:
		return "GC_ROOT_NATIVE_STACK"
	case *hprof.GCRootStickyClass:
		return "GC_ROOT_STICKY_CLASS"
	case *hprof.GCRootThreadBlock:
		return "GC_ROOT_THREAD_BLOCK"
	case *hprof.GCRootMonitorUsed:
		return "GC_ROOT_MONITOR_USED"
	case *hprof.GCRootThreadObject:
		return "GC_ROOT_THREAD_OBJ"
	case *hprof.ClassDump:
		return "GC_CLASS_DUMP"
	case *hprof.InstanceDump:
		return "GC_INSTANCE_DUMP"
	case *hprof.ObjectArrayDump:
		return "GC_OBJ_ARRAY_DUMP"
	case *hprof.PrimitiveArrayDump:
		return "GC_PRIM_ARRAY_DUMP"
	default:
		return "UNKNOWN"
	}
}
