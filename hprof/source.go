package hprof

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// byteSource is the read contract shared by the two input kinds: a
// cursor over a borrowed byte slice and a buffered reader over owned
// bytes. readBytes returns the raw payload in the source's native form:
// the slice source hands out sub-slices aliasing its buffer, the stream
// source allocates.
type byteSource interface {
	// tryReadByte returns io.EOF at a clean end of input. Any other
	// error is a real failure; end of input is how the iterator detects
	// graceful termination and must not be conflated with a short read
	// inside a record.
	tryReadByte() (byte, error)
	readBytes(n uint32) ([]byte, error)
	skip(n uint32) error
}

// sliceSource reads from a borrowed byte slice. Sub-slices returned by
// readBytes stay valid as long as the underlying buffer.
type sliceSource struct {
	data []byte
}

func newSliceSource(data []byte) *sliceSource {
	return &sliceSource{data: data}
}

func (s *sliceSource) tryReadByte() (byte, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, nil
}

func (s *sliceSource) readBytes(n uint32) ([]byte, error) {
	if uint64(n) > uint64(len(s.data)) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrPrematureEOF, n, len(s.data))
	}
	head := s.data[:n:n]
	s.data = s.data[n:]
	return head, nil
}

func (s *sliceSource) skip(n uint32) error {
	if uint64(n) > uint64(len(s.data)) {
		return fmt.Errorf("%w: cannot skip %d bytes, have %d", ErrPrematureEOF, n, len(s.data))
	}
	s.data = s.data[n:]
	return nil
}

// streamSource reads from a buffered stream. Every readBytes allocates
// a fresh buffer, so results are independent of the reader's lifetime.
type streamSource struct {
	r *bufio.Reader
}

func newStreamSource(r io.Reader) *streamSource {
	if br, ok := r.(*bufio.Reader); ok {
		return &streamSource{r: br}
	}
	return &streamSource{r: bufio.NewReader(r)}
}

func (s *streamSource) tryReadByte() (byte, error) {
	return s.r.ReadByte()
}

func (s *streamSource) readBytes(n uint32) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: need %d bytes", ErrPrematureEOF, n)
		}
		return nil, err
	}
	return buf, nil
}

func (s *streamSource) skip(n uint32) error {
	discarded, err := s.r.Discard(int(n))
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: cannot skip %d bytes, skipped %d", ErrPrematureEOF, n, discarded)
		}
		return err
	}
	return nil
}

// takeSource bounds a parent source to a fixed byte count, giving the
// inner decoder a natural end-of-input signal while the declared
// segment length stays authoritative for the outer framing. close
// skips whatever the inner decoder left unread, so the parent always
// resumes exactly at the bound.
type takeSource struct {
	src       byteSource
	remaining uint32
}

func newTakeSource(src byteSource, n uint32) *takeSource {
	return &takeSource{src: src, remaining: n}
}

func (t *takeSource) tryReadByte() (byte, error) {
	if t.remaining == 0 {
		return 0, io.EOF
	}
	b, err := t.src.tryReadByte()
	if err != nil {
		if err == io.EOF {
			// The parent ran out inside the declared bound.
			return 0, fmt.Errorf("%w: input ended %d bytes into a bounded region", ErrPrematureEOF, t.remaining)
		}
		return 0, err
	}
	t.remaining--
	return b, nil
}

func (t *takeSource) readBytes(n uint32) ([]byte, error) {
	if n > t.remaining {
		return nil, fmt.Errorf("%w: need %d bytes, bounded region has %d", ErrPrematureEOF, n, t.remaining)
	}
	buf, err := t.src.readBytes(n)
	if err != nil {
		return nil, err
	}
	t.remaining -= n
	return buf, nil
}

func (t *takeSource) skip(n uint32) error {
	if n > t.remaining {
		return fmt.Errorf("%w: cannot skip %d bytes, bounded region has %d", ErrPrematureEOF, n, t.remaining)
	}
	if err := t.src.skip(n); err != nil {
		return err
	}
	t.remaining -= n
	return nil
}

// close discards unread bytes and returns the parent source, advanced
// past the full bound.
func (t *takeSource) close() (byteSource, error) {
	if t.remaining > 0 {
		if err := t.src.skip(t.remaining); err != nil {
			return t.src, err
		}
		t.remaining = 0
	}
	return t.src, nil
}

// Fixed-width big-endian scalar reads shared by every decoder.

func readU1(src byteSource) (uint8, error) {
	buf, err := src.readBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readU2(src byteSource) (uint16, error) {
	buf, err := src.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func readU4(src byteSource) (uint32, error) {
	buf, err := src.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func readU8(src byteSource) (uint64, error) {
	buf, err := src.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

func readI4(src byteSource) (int32, error) {
	val, err := readU4(src)
	return int32(val), err
}

func readF4(src byteSource) (float32, error) {
	val, err := readU4(src)
	return math.Float32frombits(val), err
}

func readF8(src byteSource) (float64, error) {
	val, err := readU8(src)
	return math.Float64frombits(val), err
}
