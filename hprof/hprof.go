// Package hprof is a streaming parser for the HPROF binary heap-dump
// format emitted by JVM tooling. It turns a byte stream into a lazy
// sequence of typed records: strings, loaded classes, stack traces,
// thread events, allocation sites and heap-dump segments with class
// descriptors, object instances and arrays.
//
// The parser never builds an index of the stream; it decodes one record
// at a time and hands it to the caller. Two inputs are supported: an
// io.Reader (records own their payload bytes) and a byte slice (string
// payloads alias the input buffer, nothing is copied).
package hprof

import (
	"encoding/binary"
	"io"
)

// Options configures a parse session.
type Options struct {
	// IDByteOrder is the byte order used when decoding identifiers,
	// for dumps produced with reversed identifier encoding. All other
	// multi-byte fields are network order regardless. nil means
	// network order.
	IDByteOrder binary.ByteOrder

	// LoadPrimitiveArrays controls whether GC_PRIM_ARRAY_DUMP element
	// payloads are decoded. When false the element bytes are skipped
	// and the record carries a nil payload.
	LoadPrimitiveArrays bool

	// LoadObjectArrays is the same switch for GC_OBJ_ARRAY_DUMP.
	LoadObjectArrays bool
}

func defaultOptions() *Options {
	return &Options{
		LoadPrimitiveArrays: true,
		LoadObjectArrays:    true,
	}
}

// OpenReader parses the header from r and returns an iterator over its
// records. Payload bytes in the yielded records are freshly allocated
// and independent of r. A nil opts loads both array kinds and decodes
// identifiers in network order.
func OpenReader(r io.Reader, opts *Options) (*Iterator, error) {
	return open(newStreamSource(r), opts)
}

// OpenBytes parses the header from data and returns an iterator over
// its records. String payloads (UTF8Record.Bytes) in the yielded
// records alias data and are valid only as long as it is; decoded
// values, including primitive byte arrays, are copies. A nil opts loads both
// array kinds and decodes identifiers in network order.
func OpenBytes(data []byte, opts *Options) (*Iterator, error) {
	return open(newSliceSource(data), opts)
}

func open(src byteSource, opts *Options) (*Iterator, error) {
	if opts == nil {
		opts = defaultOptions()
	}
	banner, idSize, ts, err := readHeader(src)
	if err != nil {
		return nil, err
	}
	order := opts.IDByteOrder
	if order == nil {
		order = binary.BigEndian
	}
	return &Iterator{
		src:     src,
		state:   atTopLevel,
		opts:    *opts,
		idr:     idReader{size: idSize, order: order},
		banner:  banner,
		ts:      ts,
		classes: make(map[ID]*ClassDump),
	}, nil
}
