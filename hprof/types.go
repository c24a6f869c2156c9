package hprof

import "fmt"

/*
*	HProf binary format described here
*	https://github.com/openjdk/jdk/blob/master/src/hotspot/share/services/heapDumper.cpp
 */

type ID uint64        // Object identifier, 4 or 8 bytes on the wire depending on the header
type SerialNumber uint32 // u4, just a counter
type Ts uint64        // Absolute timestamp: header base plus per-record delta

type Tag byte

const (
	// top-level records
	TagUTF8        Tag = 0x01
	TagLoadClass       = 0x02
	TagUnloadClass     = 0x03
	TagStackFrame      = 0x04
	TagStackTrace      = 0x05
	TagAllocSites      = 0x06
	TagHeapSummary     = 0x07
	TagStartThread     = 0x0A
	TagEndThread       = 0x0B
	TagHeapDump        = 0x0C

	// 1.0.2 record types
	TagHeapDumpSegment = 0x1C
	TagHeapDumpEnd     = 0x2C
)

func (t Tag) String() string {
	switch t {
	case TagUTF8:
		return "UTF8"
	case TagLoadClass:
		return "LOAD_CLASS"
	case TagUnloadClass:
		return "UNLOAD_CLASS"
	case TagStackFrame:
		return "STACK_FRAME"
	case TagStackTrace:
		return "STACK_TRACE"
	case TagAllocSites:
		return "ALLOC_SITES"
	case TagHeapSummary:
		return "HEAP_SUMMARY"
	case TagStartThread:
		return "START_THREAD"
	case TagEndThread:
		return "END_THREAD"
	case TagHeapDump:
		return "HEAP_DUMP"
	case TagHeapDumpSegment:
		return "HEAP_DUMP_SEGMENT"
	case TagHeapDumpEnd:
		return "HEAP_DUMP_END"
	default:
		return fmt.Sprintf("Tag(0x%02X)", byte(t))
	}
}

type SubTag byte

const (
	SubTagRootUnknown     SubTag = 0xFF
	SubTagRootJNIGlobal          = 0x01
	SubTagRootJNILocal           = 0x02
	SubTagRootJavaFrame          = 0x03
	SubTagRootNativeStack        = 0x04
	SubTagRootStickyClass        = 0x05
	SubTagRootThreadBlock        = 0x06
	SubTagRootMonitorUsed        = 0x07
	SubTagRootThreadObject       = 0x08
	SubTagClassDump              = 0x20
	SubTagInstanceDump           = 0x21
	SubTagObjectArrayDump        = 0x22
	SubTagPrimArrayDump          = 0x23
)

func (t SubTag) String() string {
	switch t {
	case SubTagRootUnknown:
		return "GC_ROOT_UNKNOWN"
	case SubTagRootJNIGlobal:
		return "GC_ROOT_JNI_GLOBAL"
	case SubTagRootJNILocal:
		return "GC_ROOT_JNI_LOCAL"
	case SubTagRootJavaFrame:
		return "GC_ROOT_JAVA_FRAME"
	case SubTagRootNativeStack:
		return "GC_ROOT_NATIVE_STACK"
	case SubTagRootStickyClass:
		return "GC_ROOT_STICKY_CLASS"
	case SubTagRootThreadBlock:
		return "GC_ROOT_THREAD_BLOCK"
	case SubTagRootMonitorUsed:
		return "GC_ROOT_MONITOR_USED"
	case SubTagRootThreadObject:
		return "GC_ROOT_THREAD_OBJ"
	case SubTagClassDump:
		return "GC_CLASS_DUMP"
	case SubTagInstanceDump:
		return "GC_INSTANCE_DUMP"
	case SubTagObjectArrayDump:
		return "GC_OBJ_ARRAY_DUMP"
	case SubTagPrimArrayDump:
		return "GC_PRIM_ARRAY_DUMP"
	default:
		return fmt.Sprintf("SubTag(0x%02X)", byte(t))
	}
}

// FieldKind is the wire type code of a field, constant pool or primitive
// array value.
type FieldKind byte

const (
	KindObject FieldKind = 0x02
	KindBool             = 0x04
	KindChar             = 0x05
	KindFloat            = 0x06
	KindDouble           = 0x07
	KindByte             = 0x08
	KindShort            = 0x09
	KindInt              = 0x0A
	KindLong             = 0x0B
)

// Size returns the storage size of one value of this kind, in bytes.
// Object values are identifiers, so their size comes from the header.
// Unknown kinds report zero.
func (k FieldKind) Size(idSize uint32) int {
	switch k {
	case KindBool, KindByte:
		return 1
	case KindChar, KindShort:
		return 2
	case KindInt, KindFloat:
		return 4
	case KindLong, KindDouble:
		return 8
	case KindObject:
		return int(idSize)
	default:
		return 0
	}
}

func (k FieldKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindBool:
		return "boolean"
	case KindChar:
		return "char"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	default:
		return fmt.Sprintf("FieldKind(0x%02X)", byte(k))
	}
}

// FieldValue is one decoded scalar. Value holds the Go representation
// for Kind: ID for object, bool, uint16 for char, float32, float64,
// int8, int16, int32 or int64.
type FieldValue struct {
	Kind  FieldKind
	Value any
}
