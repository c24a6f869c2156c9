package hprof

import "encoding/binary"

// idReader decodes identifiers. The width is fixed by the file header
// for the whole session; the byte order is configurable because some
// producers emit identifiers with reversed encoding while every other
// multi-byte field stays network order.
type idReader struct {
	size  uint32
	order binary.ByteOrder
}

func (r idReader) readID(src byteSource) (ID, error) {
	buf, err := src.readBytes(r.size)
	if err != nil {
		return 0, err
	}
	if r.size == 4 {
		return ID(r.order.Uint32(buf)), nil
	}
	return ID(r.order.Uint64(buf)), nil
}
