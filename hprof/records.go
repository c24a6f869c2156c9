package hprof

// Entry is one item of the record stream: the record plus the absolute
// timestamp of the top-level record (or enclosing dump segment) it came
// from.
type Entry struct {
	Timestamp Ts
	Record    Record
}

// Record is implemented by every decoded record type. The set of
// implementations is closed.
type Record interface {
	record()
}

// DumpRecord is implemented by records nested inside a heap dump
// segment.
type DumpRecord interface {
	Record
	dumpRecord()
}

// Body of a UTF8 record. Despite the name the payload is not guaranteed
// to be valid UTF-8; it is kept as raw bytes. When the iterator reads
// from a byte slice, Bytes aliases that slice and is only valid as long
// as the underlying buffer.
type UTF8Record struct {
	NameID ID
	Bytes  []byte
}

// Body of a LOAD_CLASS record
type LoadClassRecord struct {
	ClassSerial      SerialNumber
	ClassObjectID    ID
	StackTraceSerial SerialNumber
	ClassNameID      ID // References UTF8
}

// Body of an UNLOAD_CLASS record
type UnloadClassRecord struct {
	ClassSerial SerialNumber
}

// Body of a STACK_FRAME record
type StackFrameRecord struct {
	StackFrameID      ID
	MethodNameID      ID // References UTF8
	MethodSignatureID ID // References UTF8
	SourceFileNameID  ID // References UTF8
	ClassSerial       SerialNumber
	LineNumber        int32
	// >0: normal line, -1: unknown, -2: compiled method, -3: native method
}

// Body of a STACK_TRACE record
type StackTraceRecord struct {
	StackTraceSerial SerialNumber
	ThreadSerial     SerialNumber
	StackFrameIDs    []ID
}

// A single allocation site within ALLOC_SITES
type AllocSite struct {
	ArrayKind        uint8 // 0: normal object, else element type of the array
	ClassSerial      SerialNumber
	StackTraceSerial SerialNumber
	LiveBytes        uint32
	LiveInstances    uint32
	AllocBytes       uint32
	AllocInstances   uint32
}

// Body of an ALLOC_SITES record
type AllocSitesRecord struct {
	Flags          uint16
	CutoffRatio    uint32
	LiveBytes      uint32
	LiveInstances  uint32
	AllocBytes     uint64
	AllocInstances uint64
	Sites          []AllocSite
}

const (
	allocFlagIncremental = 0x0001
	allocFlagSortedAlloc = 0x0002
	allocFlagForcedGC    = 0x0004
)

func (r *AllocSitesRecord) IsIncremental() bool {
	return r.Flags&allocFlagIncremental != 0
}

func (r *AllocSitesRecord) IsSortedByAllocation() bool {
	return r.Flags&allocFlagSortedAlloc != 0
}

func (r *AllocSitesRecord) ForcedGC() bool {
	return r.Flags&allocFlagForcedGC != 0
}

// Body of a HEAP_SUMMARY record
type HeapSummaryRecord struct {
	LiveBytes      uint32
	LiveInstances  uint32
	AllocBytes     uint64
	AllocInstances uint64
}

// Body of a START_THREAD record
type StartThreadRecord struct {
	ThreadSerial            SerialNumber
	ThreadObjectID          ID
	StackTraceSerial        SerialNumber
	ThreadNameID            ID // References UTF8
	ThreadGroupNameID       ID
	ParentThreadGroupNameID ID
}

// Body of an END_THREAD record
type EndThreadRecord struct {
	ThreadSerial SerialNumber
}

func (*UTF8Record) record()        {}
func (*LoadClassRecord) record()   {}
func (*UnloadClassRecord) record() {}
func (*StackFrameRecord) record()  {}
func (*StackTraceRecord) record()  {}
func (*AllocSitesRecord) record()  {}
func (*HeapSummaryRecord) record() {}
func (*StartThreadRecord) record() {}
func (*EndThreadRecord) record()   {}

// GC roots. Each one marks an object the collector treats as always
// reachable.

type GCRootUnknown struct {
	ObjectID ID
}

type GCRootJNIGlobal struct {
	ObjectID       ID
	JNIGlobalRefID ID
}

type GCRootJNILocal struct {
	ObjectID     ID
	ThreadSerial SerialNumber
	FrameNumber  uint32
}

type GCRootJavaFrame struct {
	ObjectID     ID
	ThreadSerial SerialNumber
	FrameNumber  uint32
}

type GCRootNativeStack struct {
	ObjectID     ID
	ThreadSerial SerialNumber
}

type GCRootStickyClass struct {
	ObjectID ID
}

type GCRootThreadBlock struct {
	ObjectID     ID
	ThreadSerial SerialNumber
}

type GCRootMonitorUsed struct {
	ObjectID ID
}

type GCRootThreadObject struct {
	ThreadObjectID   ID
	ThreadSerial     SerialNumber
	StackTraceSerial SerialNumber
}

// A constant pool entry of a CLASS_DUMP
type ConstantPoolEntry struct {
	Index uint16
	Value FieldValue
}

// A static field definition with its value
type StaticField struct {
	NameID ID // References UTF8
	Value  FieldValue
}

// An instance field definition. Values live in INSTANCE_DUMP records,
// laid out in declaration order per class, subclass first.
type InstanceField struct {
	NameID ID // References UTF8
	Kind   FieldKind
}

// Body of a GC_CLASS_DUMP sub-record
type ClassDump struct {
	ClassObjectID            ID
	StackTraceSerial         SerialNumber
	SuperClassObjectID       ID // 0 for java.lang.Object
	ClassLoaderObjectID      ID // 0 for bootstrap
	SignersObjectID          ID
	ProtectionDomainObjectID ID
	Reserved1                ID
	Reserved2                ID
	InstanceSize             uint32
	ConstantPool             []ConstantPoolEntry
	StaticFields             []StaticField
	InstanceFields           []InstanceField
}

// One decoded instance field: the declaring field paired with the value
// read from the instance data.
type InstanceFieldValue struct {
	Field InstanceField
	Value FieldValue
}

// Body of a GC_INSTANCE_DUMP sub-record. Values are in wire order:
// the object's own class fields first, then each superclass in turn.
type InstanceDump struct {
	ObjectID         ID
	StackTraceSerial SerialNumber
	ClassObjectID    ID
	DataSize         uint32
	Values           []InstanceFieldValue
}

// Body of a GC_OBJ_ARRAY_DUMP sub-record. Elements is nil when the
// iterator was configured with LoadObjectArrays off; Count is valid
// either way.
type ObjectArrayDump struct {
	ObjectID           ID
	StackTraceSerial   SerialNumber
	Count              uint32
	ArrayClassObjectID ID
	Elements           []ID
}

// Body of a GC_PRIM_ARRAY_DUMP sub-record. Elements holds the decoded
// values as []bool, []uint16, []float32, []float64, []int8, []int16,
// []int32 or []int64 depending on ElementKind; it is nil when the
// iterator was configured with LoadPrimitiveArrays off.
type PrimitiveArrayDump struct {
	ObjectID         ID
	StackTraceSerial SerialNumber
	Count            uint32
	ElementKind      FieldKind
	Elements         any
}

func (*GCRootUnknown) record()      {}
func (*GCRootJNIGlobal) record()    {}
func (*GCRootJNILocal) record()     {}
func (*GCRootJavaFrame) record()    {}
func (*GCRootNativeStack) record()  {}
func (*GCRootStickyClass) record()  {}
func (*GCRootThreadBlock) record()  {}
func (*GCRootMonitorUsed) record()  {}
func (*GCRootThreadObject) record() {}
func (*ClassDump) record()          {}
func (*InstanceDump) record()       {}
func (*ObjectArrayDump) record()    {}
func (*PrimitiveArrayDump) record() {}

func (*GCRootUnknown) dumpRecord()      {}
func (*GCRootJNIGlobal) dumpRecord()    {}
func (*GCRootJNILocal) dumpRecord()     {}
func (*GCRootJavaFrame) dumpRecord()    {}
func (*GCRootNativeStack) dumpRecord()  {}
func (*GCRootStickyClass) dumpRecord()  {}
func (*GCRootThreadBlock) dumpRecord()  {}
func (*GCRootMonitorUsed) dumpRecord()  {}
func (*GCRootThreadObject) dumpRecord() {}
func (*ClassDump) dumpRecord()          {}
func (*InstanceDump) dumpRecord()       {}
func (*ObjectArrayDump) dumpRecord()    {}
func (*PrimitiveArrayDump) dumpRecord() {}
