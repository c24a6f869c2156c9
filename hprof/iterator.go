package hprof

import (
	"fmt"
	"io"
)

type iterState int

const (
	atTopLevel iterState = iota
	inDumpSegment
	done
)

// Iterator is a pull iterator over the records of one dump. It drives
// two levels of framing: top-level records, and the subrecords nested
// inside heap dump segments. Usage follows bufio.Scanner:
//
//	it, err := hprof.OpenReader(f, nil)
//	...
//	for it.Next() {
//		entry := it.Entry()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// The iterator is fused: after the input ends or any error, Next keeps
// returning false. It is not safe for concurrent use.
type Iterator struct {
	src byteSource

	// Segment sub-stream, non-nil only between a HEAP_DUMP /
	// HEAP_DUMP_SEGMENT header and the end of its declared payload.
	seg   *takeSource
	segTs Ts

	state iterState
	opts  Options
	idr   idReader

	banner string
	ts     Ts

	// Class descriptors seen so far, keyed by class object ID.
	// Instance dumps decode their field values against this table, so
	// it grows for the whole life of the iteration.
	classes map[ID]*ClassDump

	entry Entry
	err   error
}

// Banner returns the file format banner, e.g. "JAVA PROFILE 1.0.2".
func (it *Iterator) Banner() string {
	return it.banner
}

// Timestamp returns the base timestamp from the header, milliseconds
// since the epoch. Per-record timestamps are this base plus the record
// delta.
func (it *Iterator) Timestamp() Ts {
	return it.ts
}

// IDSize returns the identifier width from the header: 4 or 8.
func (it *Iterator) IDSize() uint32 {
	return it.idr.size
}

// Entry returns the record produced by the last successful Next.
func (it *Iterator) Entry() Entry {
	return it.entry
}

// Err returns the error that stopped the iteration, or nil if the
// input ended cleanly (or iteration is still running).
func (it *Iterator) Err() error {
	return it.err
}

func (it *Iterator) fail(err error) {
	it.err = err
	it.state = done
}

// Next advances to the next record. It returns false at the end of the
// input or on the first error; Err tells the two apart.
func (it *Iterator) Next() bool {
	for {
		switch it.state {
		case done:
			return false

		case atTopLevel:
			tag, err := it.src.tryReadByte()
			if err != nil {
				if err == io.EOF {
					// Clean end of input at a record boundary.
					it.state = done
					return false
				}
				it.fail(err)
				return false
			}

			delta, err := readU4(it.src)
			if err != nil {
				it.fail(fmt.Errorf("failed to read timestamp delta of record 0x%02x: %w", tag, err))
				return false
			}
			payloadSize, err := readU4(it.src)
			if err != nil {
				it.fail(fmt.Errorf("failed to read payload size of record 0x%02x: %w", tag, err))
				return false
			}
			timestamp := it.ts + Ts(delta)

			switch Tag(tag) {
			case TagHeapDump, TagHeapDumpSegment:
				it.seg = newTakeSource(it.src, payloadSize)
				it.segTs = timestamp
				it.state = inDumpSegment
				continue

			case TagHeapDumpEnd:
				// Sentinel closing a multi-segment dump; no payload,
				// nothing to yield.
				continue

			default:
				record, err := it.readRecord(Tag(tag), payloadSize)
				if err != nil {
					it.fail(err)
					return false
				}
				it.entry = Entry{Timestamp: timestamp, Record: record}
				return true
			}

		case inDumpSegment:
			subTag, err := it.seg.tryReadByte()
			if err != nil {
				if err == io.EOF {
					// Segment payload exactly consumed; hand control
					// back to the top-level framing.
					it.seg = nil
					it.state = atTopLevel
					continue
				}
				it.fail(err)
				return false
			}

			record, err := it.readSubRecord(SubTag(subTag))
			if err != nil {
				it.fail(err)
				return false
			}
			it.entry = Entry{Timestamp: it.segTs, Record: record}
			return true
		}
	}
}

// readRecord decodes one top-level record body. The framing (tag,
// timestamp delta, payload size) has already been consumed.
func (it *Iterator) readRecord(tag Tag, payloadSize uint32) (Record, error) {
	switch tag {
	case TagUTF8:
		return readUTF8(it.src, it.idr, payloadSize)
	case TagLoadClass:
		return readLoadClass(it.src, it.idr)
	case TagUnloadClass:
		return readUnloadClass(it.src)
	case TagStackFrame:
		return readStackFrame(it.src, it.idr)
	case TagStackTrace:
		return readStackTrace(it.src, it.idr)
	case TagAllocSites:
		return readAllocSites(it.src)
	case TagHeapSummary:
		return readHeapSummary(it.src)
	case TagStartThread:
		return readStartThread(it.src, it.idr)
	case TagEndThread:
		return readEndThread(it.src)
	default:
		// The payload is deliberately not skipped: without knowing the
		// tag there is no way to trust the framing past this point.
		return nil, &UnknownPacketError{Tag: tag, PayloadSize: payloadSize}
	}
}

// readSubRecord decodes one heap dump subrecord from the bounded
// segment stream. Class dumps are recorded in the class table before
// they are yielded, so a later instance dump in the same segment can
// already resolve against them.
func (it *Iterator) readSubRecord(subTag SubTag) (DumpRecord, error) {
	switch subTag {
	case SubTagRootUnknown:
		return readRootUnknown(it.seg, it.idr)
	case SubTagRootJNIGlobal:
		return readRootJNIGlobal(it.seg, it.idr)
	case SubTagRootJNILocal:
		return readRootJNILocal(it.seg, it.idr)
	case SubTagRootJavaFrame:
		return readRootJavaFrame(it.seg, it.idr)
	case SubTagRootNativeStack:
		return readRootNativeStack(it.seg, it.idr)
	case SubTagRootStickyClass:
		return readRootStickyClass(it.seg, it.idr)
	case SubTagRootThreadBlock:
		return readRootThreadBlock(it.seg, it.idr)
	case SubTagRootMonitorUsed:
		return readRootMonitorUsed(it.seg, it.idr)
	case SubTagRootThreadObject:
		return readRootThreadObject(it.seg, it.idr)
	case SubTagClassDump:
		classDump, err := readClassDump(it.seg, it.idr)
		if err != nil {
			return nil, err
		}
		// Re-declarations overwrite the earlier descriptor.
		it.classes[classDump.ClassObjectID] = classDump
		return classDump, nil
	case SubTagInstanceDump:
		return readInstanceDump(it.seg, it.idr, it.classes)
	case SubTagObjectArrayDump:
		return readObjectArrayDump(it.seg, it.idr, it.opts.LoadObjectArrays)
	case SubTagPrimArrayDump:
		return readPrimitiveArrayDump(it.seg, it.idr, it.opts.LoadPrimitiveArrays)
	default:
		return nil, &UnknownSubpacketError{SubTag: subTag}
	}
}
