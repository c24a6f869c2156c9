package hprof

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

func TestMinimalFile(t *testing.T) {
	w := newDumpWriter(8)

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		if it.Banner() != testBanner {
			t.Errorf("banner = %q, want %q", it.Banner(), testBanner)
		}
		if it.Timestamp() != testBaseTs {
			t.Errorf("timestamp = 0x%x, want 0x%x", uint64(it.Timestamp()), uint64(testBaseTs))
		}
		if it.IDSize() != 8 {
			t.Errorf("id size = %d, want 8", it.IDSize())
		}
		finished(t, it)
	})
}

func TestEmptyInput(t *testing.T) {
	if _, err := OpenBytes(nil, nil); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("OpenBytes(nil) error = %v, want ErrInvalidHeader", err)
	}
	if _, err := OpenReader(bytes.NewReader(nil), nil); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("OpenReader(empty) error = %v, want ErrInvalidHeader", err)
	}
}

func TestIDSizeNotSupported(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(testBanner)
	buf.WriteByte(0x00)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], 2)
	buf.Write(b[:])
	binary.BigEndian.PutUint32(b[:], 0)
	buf.Write(b[:])
	buf.Write(b[:])

	_, err := OpenBytes(buf.Bytes(), nil)
	var sizeErr *IDSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("error = %v, want IDSizeError", err)
	}
	if sizeErr.Size != 2 {
		t.Errorf("IDSizeError.Size = %d, want 2", sizeErr.Size)
	}
}

func TestTruncatedHeader(t *testing.T) {
	// Banner with no terminating NUL.
	if _, err := OpenBytes([]byte("JAVA PROFILE"), nil); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("error = %v, want ErrInvalidHeader", err)
	}
}

func TestStringRecord(t *testing.T) {
	w := newDumpWriter(8)
	w.record(TagUTF8, 0, newBody(8).id(0x42).raw([]byte("hello")).bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		entry := next(t, it)
		if entry.Timestamp != testBaseTs {
			t.Errorf("timestamp = 0x%x, want 0x%x", uint64(entry.Timestamp), uint64(testBaseTs))
		}
		rec, ok := entry.Record.(*UTF8Record)
		if !ok {
			t.Fatalf("record = %T, want *UTF8Record", entry.Record)
		}
		if rec.NameID != 0x42 {
			t.Errorf("NameID = 0x%x, want 0x42", uint64(rec.NameID))
		}
		if string(rec.Bytes) != "hello" {
			t.Errorf("Bytes = %q, want %q", rec.Bytes, "hello")
		}
		finished(t, it)
	})
}

func TestStringRecordTimestampDelta(t *testing.T) {
	w := newDumpWriter(8)
	w.record(TagUTF8, 7, newBody(8).id(1).raw([]byte("x")).bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		entry := next(t, it)
		if entry.Timestamp != testBaseTs+7 {
			t.Errorf("timestamp = 0x%x, want base+7", uint64(entry.Timestamp))
		}
		finished(t, it)
	})
}

// The slice entry point must hand out string payloads aliasing the
// input buffer, not copies.
func TestStringRecordBorrowsFromSlice(t *testing.T) {
	w := newDumpWriter(8)
	w.record(TagUTF8, 0, newBody(8).id(0x42).raw([]byte("hello")).bytes())
	data := w.bytes()

	it, err := OpenBytes(data, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	entry := next(t, it)
	rec := entry.Record.(*UTF8Record)

	// Header is banner+NUL+12, record framing is 9, then the id.
	payloadStart := len(testBanner) + 1 + 12 + 9 + 8
	if &rec.Bytes[0] != &data[payloadStart] {
		t.Error("string payload does not alias the input buffer")
	}
}

func TestIDSize4(t *testing.T) {
	w := newDumpWriter(4)
	w.record(TagUTF8, 0, newBody(4).id(0x42).raw([]byte("hi")).bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		entry := next(t, it)
		rec := entry.Record.(*UTF8Record)
		if rec.NameID != 0x42 {
			t.Errorf("NameID = 0x%x, want 0x42", uint64(rec.NameID))
		}
		if string(rec.Bytes) != "hi" {
			t.Errorf("Bytes = %q, want %q", rec.Bytes, "hi")
		}
		finished(t, it)
	})
}

func TestIDByteOrderLittleEndian(t *testing.T) {
	w := newDumpWriter(8)
	// The id is encoded reversed; everything else stays network order.
	idLE := []byte{0x42, 0, 0, 0, 0, 0, 0, 0}
	w.record(TagUTF8, 0, newBody(8).raw(idLE).raw([]byte("z")).bytes())

	opts := &Options{
		IDByteOrder:         binary.LittleEndian,
		LoadPrimitiveArrays: true,
		LoadObjectArrays:    true,
	}
	openBoth(t, w.bytes(), opts, func(t *testing.T, it *Iterator) {
		entry := next(t, it)
		rec := entry.Record.(*UTF8Record)
		if rec.NameID != 0x42 {
			t.Errorf("NameID = 0x%x, want 0x42", uint64(rec.NameID))
		}
		finished(t, it)
	})
}

func TestTopLevelRecords(t *testing.T) {
	w := newDumpWriter(8)
	w.record(TagLoadClass, 0, newBody(8).u4(1).id(0x10).u4(2).id(0x20).bytes())
	w.record(TagUnloadClass, 0, newBody(8).u4(1).bytes())
	w.record(TagStackFrame, 0, newBody(8).id(0x30).id(0x31).id(0x32).id(0x33).u4(1).u4(0xFFFFFFFF).bytes())
	w.record(TagStackTrace, 0, newBody(8).u4(5).u4(6).u4(2).id(0x30).id(0x34).bytes())
	w.record(TagAllocSites, 0, newBody(8).
		u2(0x0003).u4(50).u4(100).u4(10).u8(2000).u8(20).u4(1).
		u1(0).u4(1).u4(5).u4(64).u4(2).u4(128).u4(4).bytes())
	w.record(TagHeapSummary, 0, newBody(8).u4(100).u4(10).u8(2000).u8(20).bytes())
	w.record(TagStartThread, 0, newBody(8).u4(9).id(0x40).u4(5).id(0x41).id(0x42).id(0x43).bytes())
	w.record(TagEndThread, 0, newBody(8).u4(9).bytes())

	want := []Record{
		&LoadClassRecord{ClassSerial: 1, ClassObjectID: 0x10, StackTraceSerial: 2, ClassNameID: 0x20},
		&UnloadClassRecord{ClassSerial: 1},
		&StackFrameRecord{
			StackFrameID: 0x30, MethodNameID: 0x31, MethodSignatureID: 0x32,
			SourceFileNameID: 0x33, ClassSerial: 1, LineNumber: -1,
		},
		&StackTraceRecord{StackTraceSerial: 5, ThreadSerial: 6, StackFrameIDs: []ID{0x30, 0x34}},
		&AllocSitesRecord{
			Flags: 0x0003, CutoffRatio: 50, LiveBytes: 100, LiveInstances: 10,
			AllocBytes: 2000, AllocInstances: 20,
			Sites: []AllocSite{{
				ArrayKind: 0, ClassSerial: 1, StackTraceSerial: 5,
				LiveBytes: 64, LiveInstances: 2, AllocBytes: 128, AllocInstances: 4,
			}},
		},
		&HeapSummaryRecord{LiveBytes: 100, LiveInstances: 10, AllocBytes: 2000, AllocInstances: 20},
		&StartThreadRecord{
			ThreadSerial: 9, ThreadObjectID: 0x40, StackTraceSerial: 5,
			ThreadNameID: 0x41, ThreadGroupNameID: 0x42, ParentThreadGroupNameID: 0x43,
		},
		&EndThreadRecord{ThreadSerial: 9},
	}

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		for i, wantRec := range want {
			entry := next(t, it)
			if !reflect.DeepEqual(entry.Record, wantRec) {
				t.Errorf("record %d = %#v, want %#v", i, entry.Record, wantRec)
			}
		}
		finished(t, it)
	})
}

func TestUnknownTopLevelTag(t *testing.T) {
	w := newDumpWriter(8)
	w.record(Tag(0xEE), 0, []byte{1, 2, 3})

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		if it.Next() {
			t.Fatalf("Next returned true, got %#v", it.Entry().Record)
		}
		var pktErr *UnknownPacketError
		if !errors.As(it.Err(), &pktErr) {
			t.Fatalf("Err = %v, want UnknownPacketError", it.Err())
		}
		if pktErr.Tag != 0xEE || pktErr.PayloadSize != 3 {
			t.Errorf("UnknownPacketError = %+v, want tag 0xEE payload 3", pktErr)
		}
		if it.Next() {
			t.Error("iterator not fused after error")
		}
	})
}

func TestTruncatedRecord(t *testing.T) {
	w := newDumpWriter(8)
	w.record(TagUTF8, 0, newBody(8).id(1).raw([]byte("payload")).bytes())
	data := w.bytes()
	data = data[:len(data)-4] // chop the record mid-payload

	openBoth(t, data, nil, func(t *testing.T, it *Iterator) {
		if it.Next() {
			t.Fatalf("Next returned true, got %#v", it.Entry().Record)
		}
		if !errors.Is(it.Err(), ErrPrematureEOF) {
			t.Errorf("Err = %v, want ErrPrematureEOF", it.Err())
		}
	})
}

func TestZeroLengthDumpSegment(t *testing.T) {
	w := newDumpWriter(8)
	w.record(TagHeapDumpSegment, 0, nil)
	w.record(TagUTF8, 0, newBody(8).id(1).raw([]byte("after")).bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		entry := next(t, it)
		rec, ok := entry.Record.(*UTF8Record)
		if !ok || string(rec.Bytes) != "after" {
			t.Fatalf("record = %#v, want the string after the empty segment", entry.Record)
		}
		finished(t, it)
	})
}

func TestMultiSegmentDump(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8).u1(byte(SubTagRootStickyClass)).id(11)
	w.record(TagHeapDumpSegment, 3, seg.bytes())
	w.record(TagHeapDumpEnd, 3, nil)

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		entry := next(t, it)
		if entry.Timestamp != testBaseTs+3 {
			t.Errorf("timestamp = 0x%x, want segment timestamp", uint64(entry.Timestamp))
		}
		root, ok := entry.Record.(*GCRootStickyClass)
		if !ok {
			t.Fatalf("record = %T, want *GCRootStickyClass", entry.Record)
		}
		if root.ObjectID != 11 {
			t.Errorf("ObjectID = %d, want 11", uint64(root.ObjectID))
		}
		finished(t, it)
	})
}

func TestGCRoots(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagRootUnknown)).id(1)
	seg.u1(byte(SubTagRootJNIGlobal)).id(2).id(3)
	seg.u1(byte(SubTagRootJNILocal)).id(4).u4(5).u4(6)
	seg.u1(byte(SubTagRootJavaFrame)).id(7).u4(8).u4(9)
	seg.u1(byte(SubTagRootNativeStack)).id(10).u4(11)
	seg.u1(byte(SubTagRootThreadBlock)).id(12).u4(13)
	seg.u1(byte(SubTagRootMonitorUsed)).id(14)
	seg.u1(byte(SubTagRootThreadObject)).id(15).u4(16).u4(17)
	w.record(TagHeapDump, 0, seg.bytes())

	want := []Record{
		&GCRootUnknown{ObjectID: 1},
		&GCRootJNIGlobal{ObjectID: 2, JNIGlobalRefID: 3},
		&GCRootJNILocal{ObjectID: 4, ThreadSerial: 5, FrameNumber: 6},
		&GCRootJavaFrame{ObjectID: 7, ThreadSerial: 8, FrameNumber: 9},
		&GCRootNativeStack{ObjectID: 10, ThreadSerial: 11},
		&GCRootThreadBlock{ObjectID: 12, ThreadSerial: 13},
		&GCRootMonitorUsed{ObjectID: 14},
		&GCRootThreadObject{ThreadObjectID: 15, ThreadSerial: 16, StackTraceSerial: 17},
	}

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		for i, wantRec := range want {
			entry := next(t, it)
			if !reflect.DeepEqual(entry.Record, wantRec) {
				t.Errorf("root %d = %#v, want %#v", i, entry.Record, wantRec)
			}
		}
		finished(t, it)
	})
}

func TestUnknownSubTag(t *testing.T) {
	w := newDumpWriter(8)
	w.record(TagHeapDump, 0, newBody(8).u1(0x99).bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		if it.Next() {
			t.Fatalf("Next returned true, got %#v", it.Entry().Record)
		}
		var subErr *UnknownSubpacketError
		if !errors.As(it.Err(), &subErr) {
			t.Fatalf("Err = %v, want UnknownSubpacketError", it.Err())
		}
		if subErr.SubTag != 0x99 {
			t.Errorf("SubTag = 0x%02x, want 0x99", byte(subErr.SubTag))
		}
		if it.Next() {
			t.Error("iterator not fused after error")
		}
	})
}

func TestClassDumpTables(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagClassDump))
	seg.id(7)      // class object id
	seg.u4(2)      // stack trace serial
	seg.id(0)      // super
	seg.id(0x50)   // class loader
	seg.id(0)      // signers
	seg.id(0)      // protection domain
	seg.id(0)      // reserved1
	seg.id(0)      // reserved2
	seg.u4(16)     // instance size
	seg.u2(1)      // constant pool
	seg.u2(3).u1(byte(KindLong)).u8(0x1122334455667788)
	seg.u2(2) // static fields
	seg.id(200).u1(byte(KindBool)).u1(1)
	seg.id(201).u1(byte(KindObject)).id(0x60)
	seg.u2(2) // instance fields
	seg.id(300).u1(byte(KindInt))
	seg.id(301).u1(byte(KindObject))
	w.record(TagHeapDump, 0, seg.bytes())

	want := &ClassDump{
		ClassObjectID:       7,
		StackTraceSerial:    2,
		ClassLoaderObjectID: 0x50,
		InstanceSize:        16,
		ConstantPool: []ConstantPoolEntry{
			{Index: 3, Value: FieldValue{Kind: KindLong, Value: int64(0x1122334455667788)}},
		},
		StaticFields: []StaticField{
			{NameID: 200, Value: FieldValue{Kind: KindBool, Value: true}},
			{NameID: 201, Value: FieldValue{Kind: KindObject, Value: ID(0x60)}},
		},
		InstanceFields: []InstanceField{
			{NameID: 300, Kind: KindInt},
			{NameID: 301, Kind: KindObject},
		},
	}

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		entry := next(t, it)
		if !reflect.DeepEqual(entry.Record, want) {
			t.Errorf("class dump = %#v, want %#v", entry.Record, want)
		}
		finished(t, it)
	})
}

func TestLoadThenInstance(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagClassDump))
	seg.raw(classDumpBody(8, 7, 0, 4, []InstanceField{{NameID: 100, Kind: KindInt}}))
	seg.u1(byte(SubTagInstanceDump))
	seg.id(9).u4(0).id(7).u4(4).raw([]byte{0x00, 0x00, 0x00, 0x05})
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		classEntry := next(t, it)
		if _, ok := classEntry.Record.(*ClassDump); !ok {
			t.Fatalf("first record = %T, want *ClassDump", classEntry.Record)
		}

		instEntry := next(t, it)
		inst, ok := instEntry.Record.(*InstanceDump)
		if !ok {
			t.Fatalf("second record = %T, want *InstanceDump", instEntry.Record)
		}
		if inst.ObjectID != 9 || inst.ClassObjectID != 7 || inst.DataSize != 4 {
			t.Errorf("instance header = %+v", inst)
		}
		wantValues := []InstanceFieldValue{
			{
				Field: InstanceField{NameID: 100, Kind: KindInt},
				Value: FieldValue{Kind: KindInt, Value: int32(5)},
			},
		}
		if !reflect.DeepEqual(inst.Values, wantValues) {
			t.Errorf("values = %#v, want %#v", inst.Values, wantValues)
		}
		finished(t, it)
	})
}

// Instance fields are laid out subclass first, then up the superclass
// chain.
func TestInstanceInheritedFields(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagClassDump))
	seg.raw(classDumpBody(8, 1, 0, 8, []InstanceField{{NameID: 10, Kind: KindLong}}))
	seg.u1(byte(SubTagClassDump))
	seg.raw(classDumpBody(8, 2, 1, 12, []InstanceField{{NameID: 20, Kind: KindInt}}))
	seg.u1(byte(SubTagInstanceDump))
	seg.id(9).u4(0).id(2).u4(12)
	seg.u4(7)                  // own field first
	seg.u8(0x0102030405060708) // then the inherited one
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		next(t, it)
		next(t, it)
		inst := next(t, it).Record.(*InstanceDump)
		wantValues := []InstanceFieldValue{
			{
				Field: InstanceField{NameID: 20, Kind: KindInt},
				Value: FieldValue{Kind: KindInt, Value: int32(7)},
			},
			{
				Field: InstanceField{NameID: 10, Kind: KindLong},
				Value: FieldValue{Kind: KindLong, Value: int64(0x0102030405060708)},
			},
		}
		if !reflect.DeepEqual(inst.Values, wantValues) {
			t.Errorf("values = %#v, want %#v", inst.Values, wantValues)
		}
		finished(t, it)
	})
}

// Instance data beyond the declared fields must be skipped so the
// segment framing stays aligned for the following subrecord.
func TestInstanceDataPaddingSkipped(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagClassDump))
	seg.raw(classDumpBody(8, 7, 0, 4, []InstanceField{{NameID: 100, Kind: KindInt}}))
	seg.u1(byte(SubTagInstanceDump))
	seg.id(9).u4(0).id(7).u4(8)
	seg.u4(5).u4(0xDEADBEEF) // field value plus 4 bytes of padding
	seg.u1(byte(SubTagRootUnknown)).id(33)
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		next(t, it)
		inst := next(t, it).Record.(*InstanceDump)
		if len(inst.Values) != 1 {
			t.Fatalf("values = %#v, want exactly one", inst.Values)
		}
		root := next(t, it).Record.(*GCRootUnknown)
		if root.ObjectID != 33 {
			t.Errorf("following root ObjectID = %d, want 33", uint64(root.ObjectID))
		}
		finished(t, it)
	})
}

func TestUnknownClass(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagInstanceDump))
	seg.id(9).u4(0).id(42).u4(0)
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		if it.Next() {
			t.Fatalf("Next returned true, got %#v", it.Entry().Record)
		}
		var classErr *UnknownClassError
		if !errors.As(it.Err(), &classErr) {
			t.Fatalf("Err = %v, want UnknownClassError", it.Err())
		}
		if classErr.ClassObjectID != 42 {
			t.Errorf("ClassObjectID = %d, want 42", uint64(classErr.ClassObjectID))
		}
		if it.Next() {
			t.Error("iterator not fused after error")
		}
	})
}

func TestObjectArrayDump(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagObjectArrayDump))
	seg.id(22).u4(1).u4(2).id(7).id(0x100).id(0x101)
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		array := next(t, it).Record.(*ObjectArrayDump)
		want := &ObjectArrayDump{
			ObjectID: 22, StackTraceSerial: 1, Count: 2,
			ArrayClassObjectID: 7, Elements: []ID{0x100, 0x101},
		}
		if !reflect.DeepEqual(array, want) {
			t.Errorf("array = %#v, want %#v", array, want)
		}
		finished(t, it)
	})
}

func TestPrimitiveArrayDump(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagPrimArrayDump))
	seg.id(21).u4(1).u4(3).u1(byte(KindInt)).u4(1).u4(2).u4(3)
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		array := next(t, it).Record.(*PrimitiveArrayDump)
		if array.ObjectID != 21 || array.Count != 3 || array.ElementKind != KindInt {
			t.Errorf("array header = %+v", array)
		}
		if !reflect.DeepEqual(array.Elements, []int32{1, 2, 3}) {
			t.Errorf("elements = %#v, want [1 2 3]", array.Elements)
		}
		finished(t, it)
	})
}

func TestPrimitiveArrayBool(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagPrimArrayDump))
	seg.id(21).u4(0).u4(3).u1(byte(KindBool)).u1(0).u1(1).u1(2)
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		array := next(t, it).Record.(*PrimitiveArrayDump)
		if !reflect.DeepEqual(array.Elements, []bool{false, true, true}) {
			t.Errorf("elements = %#v, want [false true true]", array.Elements)
		}
		finished(t, it)
	})
}

// With the load flag off the decoder must advance exactly over the
// element bytes and leave the payload absent.
func TestPrimitiveArrayLoadFlagOff(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagPrimArrayDump))
	seg.id(21).u4(1).u4(3).u1(byte(KindInt)).u4(1).u4(2).u4(3)
	seg.u1(byte(SubTagRootUnknown)).id(33)
	w.record(TagHeapDump, 0, seg.bytes())

	opts := &Options{LoadPrimitiveArrays: false, LoadObjectArrays: true}
	openBoth(t, w.bytes(), opts, func(t *testing.T, it *Iterator) {
		array := next(t, it).Record.(*PrimitiveArrayDump)
		if array.Elements != nil {
			t.Errorf("elements = %#v, want nil", array.Elements)
		}
		if array.Count != 3 || array.ElementKind != KindInt {
			t.Errorf("array header = %+v", array)
		}
		root := next(t, it).Record.(*GCRootUnknown)
		if root.ObjectID != 33 {
			t.Errorf("following root ObjectID = %d, want 33", uint64(root.ObjectID))
		}
		finished(t, it)
	})
}

func TestObjectArrayLoadFlagOff(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagObjectArrayDump))
	seg.id(22).u4(0).u4(2).id(7).id(0x100).id(0x101)
	seg.u1(byte(SubTagRootUnknown)).id(33)
	w.record(TagHeapDump, 0, seg.bytes())

	opts := &Options{LoadPrimitiveArrays: true, LoadObjectArrays: false}
	openBoth(t, w.bytes(), opts, func(t *testing.T, it *Iterator) {
		array := next(t, it).Record.(*ObjectArrayDump)
		if array.Elements != nil {
			t.Errorf("elements = %#v, want nil", array.Elements)
		}
		if array.Count != 2 {
			t.Errorf("Count = %d, want 2", array.Count)
		}
		root := next(t, it).Record.(*GCRootUnknown)
		if root.ObjectID != 33 {
			t.Errorf("following root ObjectID = %d, want 33", uint64(root.ObjectID))
		}
		finished(t, it)
	})
}

func TestPrimitiveArrayObjectKind(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagPrimArrayDump))
	seg.id(21).u4(0).u4(1).u1(byte(KindObject))
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		if it.Next() {
			t.Fatalf("Next returned true, got %#v", it.Entry().Record)
		}
		var fieldErr *FieldError
		if !errors.As(it.Err(), &fieldErr) {
			t.Fatalf("Err = %v, want FieldError", it.Err())
		}
	})
}

func TestClassRedeclarationOverwrites(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagClassDump))
	seg.raw(classDumpBody(8, 7, 0, 8, []InstanceField{{NameID: 100, Kind: KindLong}}))
	seg.u1(byte(SubTagClassDump))
	seg.raw(classDumpBody(8, 7, 0, 4, []InstanceField{{NameID: 100, Kind: KindInt}}))
	seg.u1(byte(SubTagInstanceDump))
	seg.id(9).u4(0).id(7).u4(4).u4(5)
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		next(t, it)
		next(t, it)
		inst := next(t, it).Record.(*InstanceDump)
		if len(inst.Values) != 1 {
			t.Fatalf("values = %#v, want one field", inst.Values)
		}
		if inst.Values[0].Value.Kind != KindInt {
			t.Errorf("field decoded with kind %v, want the re-declared Int", inst.Values[0].Value.Kind)
		}
		finished(t, it)
	})
}

// Segment payloads end exactly where they say they do, even when the
// next top-level record starts right after.
func TestSegmentThenTopLevel(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8).u1(byte(SubTagRootMonitorUsed)).id(44)
	w.record(TagHeapDumpSegment, 0, seg.bytes())
	w.record(TagUTF8, 0, newBody(8).id(1).raw([]byte("tail")).bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		if _, ok := next(t, it).Record.(*GCRootMonitorUsed); !ok {
			t.Fatal("first record should be the monitor root")
		}
		rec, ok := next(t, it).Record.(*UTF8Record)
		if !ok || string(rec.Bytes) != "tail" {
			t.Fatalf("second record = %#v, want the trailing string", rec)
		}
		finished(t, it)
	})
}

// A segment that ends mid-subrecord is a corrupt file, not a clean EOF.
func TestTruncatedSegment(t *testing.T) {
	w := newDumpWriter(8)
	seg := newBody(8)
	seg.u1(byte(SubTagRootJNIGlobal)).id(2) // second id missing
	w.record(TagHeapDump, 0, seg.bytes())

	openBoth(t, w.bytes(), nil, func(t *testing.T, it *Iterator) {
		if it.Next() {
			t.Fatalf("Next returned true, got %#v", it.Entry().Record)
		}
		if !errors.Is(it.Err(), ErrPrematureEOF) {
			t.Errorf("Err = %v, want ErrPrematureEOF", it.Err())
		}
	})
}
