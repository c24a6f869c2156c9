package hprof

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// dumpWriter builds HPROF fixtures in memory. It is the encoding
// counterpart of the parser: tests describe records field by field and
// get back the exact wire bytes.
type dumpWriter struct {
	buf    bytes.Buffer
	idSize uint32
}

const (
	testBanner = "JAVA PROFILE 1.0.2"
	testTsHi   = 0x00000001
	testTsLo   = 0x00000002
	testBaseTs = Ts(0x100000002)
)

func newDumpWriter(idSize uint32) *dumpWriter {
	w := &dumpWriter{idSize: idSize}
	w.buf.WriteString(testBanner)
	w.buf.WriteByte(0x00)
	w.u4(idSize)
	w.u4(testTsHi)
	w.u4(testTsLo)
	return w
}

func (w *dumpWriter) bytes() []byte {
	return w.buf.Bytes()
}

func (w *dumpWriter) u1(v uint8) *dumpWriter {
	w.buf.WriteByte(v)
	return w
}

func (w *dumpWriter) u2(v uint16) *dumpWriter {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *dumpWriter) u4(v uint32) *dumpWriter {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *dumpWriter) u8(v uint64) *dumpWriter {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *dumpWriter) id(v ID) *dumpWriter {
	if w.idSize == 4 {
		return w.u4(uint32(v))
	}
	return w.u8(uint64(v))
}

func (w *dumpWriter) raw(data []byte) *dumpWriter {
	w.buf.Write(data)
	return w
}

// record appends a framed top-level record: tag, timestamp delta and
// the body's length as the payload size.
func (w *dumpWriter) record(tag Tag, delta uint32, body []byte) *dumpWriter {
	w.u1(byte(tag))
	w.u4(delta)
	w.u4(uint32(len(body)))
	w.buf.Write(body)
	return w
}

// body is a detached fragment builder for record payloads and segment
// contents.
type body struct {
	buf    bytes.Buffer
	idSize uint32
}

func newBody(idSize uint32) *body {
	return &body{idSize: idSize}
}

func (b *body) bytes() []byte {
	return b.buf.Bytes()
}

func (b *body) u1(v uint8) *body {
	b.buf.WriteByte(v)
	return b
}

func (b *body) u2(v uint16) *body {
	var raw [2]byte
	binary.BigEndian.PutUint16(raw[:], v)
	b.buf.Write(raw[:])
	return b
}

func (b *body) u4(v uint32) *body {
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], v)
	b.buf.Write(raw[:])
	return b
}

func (b *body) u8(v uint64) *body {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], v)
	b.buf.Write(raw[:])
	return b
}

func (b *body) id(v ID) *body {
	if b.idSize == 4 {
		return b.u4(uint32(v))
	}
	return b.u8(uint64(v))
}

func (b *body) raw(data []byte) *body {
	b.buf.Write(data)
	return b
}

// classDumpBody assembles a minimal GC_CLASS_DUMP fragment (without the
// leading subtag byte): the constant pool and static field tables are
// always empty, and only the given instance fields are written.
func classDumpBody(idSize uint32, classID, superID ID, instanceSize uint32, fields []InstanceField) []byte {
	b := newBody(idSize)
	b.id(classID)
	b.u4(0) // stack trace serial
	b.id(superID)
	b.id(0) // class loader
	b.id(0) // signers
	b.id(0) // protection domain
	b.id(0) // reserved1
	b.id(0) // reserved2
	b.u4(instanceSize)
	b.u2(0) // constant pool
	b.u2(0) // static fields
	b.u2(uint16(len(fields)))
	for _, f := range fields {
		b.id(f.NameID)
		b.u1(byte(f.Kind))
	}
	return b.bytes()
}

// openBoth runs the same assertions against the slice source and the
// stream source, the two halves of the dual input contract.
func openBoth(t *testing.T, data []byte, opts *Options, check func(t *testing.T, it *Iterator)) {
	t.Helper()

	t.Run("bytes", func(t *testing.T) {
		it, err := OpenBytes(data, opts)
		if err != nil {
			t.Fatalf("OpenBytes failed: %v", err)
		}
		check(t, it)
	})

	t.Run("reader", func(t *testing.T) {
		it, err := OpenReader(bytes.NewReader(data), opts)
		if err != nil {
			t.Fatalf("OpenReader failed: %v", err)
		}
		check(t, it)
	})
}

// next asserts that the iterator yields one more entry and returns it.
func next(t *testing.T, it *Iterator) Entry {
	t.Helper()
	if !it.Next() {
		t.Fatalf("Next returned false, want another record (err: %v)", it.Err())
	}
	return it.Entry()
}

// finished asserts clean termination: no more records, no error, and
// fused behavior on a repeated poll.
func finished(t *testing.T, it *Iterator) {
	t.Helper()
	if it.Next() {
		t.Fatalf("Next returned true after expected end, got %#v", it.Entry().Record)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("unexpected iterator error: %v", err)
	}
	if it.Next() {
		t.Fatal("iterator not fused: Next returned true after end")
	}
}
