package hprof

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeader is returned when the file banner cannot be read.
	ErrInvalidHeader = errors.New("hprof: invalid header")

	// ErrPrematureEOF is returned when a read mid-record requested more
	// bytes than the source had left. Graceful end of input at a record
	// boundary is not an error and never produces it.
	ErrPrematureEOF = errors.New("hprof: premature end of data")
)

// IDSizeError reports a header identifier size other than 4 or 8.
type IDSizeError struct {
	Size uint32
}

func (e *IDSizeError) Error() string {
	return fmt.Sprintf("hprof: identifier size %d not supported", e.Size)
}

// FieldError reports a field kind byte outside the accepted set, or
// an object kind where a primitive was required.
type FieldError struct {
	Reason string
}

func (e *FieldError) Error() string {
	return "hprof: invalid field: " + e.Reason
}

// UnknownPacketError reports an unrecognized top-level record tag. The
// payload is not skipped, so the iterator cannot continue past it.
type UnknownPacketError struct {
	Tag         Tag
	PayloadSize uint32
}

func (e *UnknownPacketError) Error() string {
	return fmt.Sprintf("hprof: unknown packet tag 0x%02x (payload %d bytes)", byte(e.Tag), e.PayloadSize)
}

// UnknownSubpacketError reports an unrecognized tag inside a heap dump
// segment.
type UnknownSubpacketError struct {
	SubTag SubTag
}

func (e *UnknownSubpacketError) Error() string {
	return fmt.Sprintf("hprof: unknown subpacket tag 0x%02x", byte(e.SubTag))
}

// UnknownClassError reports an instance dump whose class was never seen
// as a GC_CLASS_DUMP earlier in the stream.
type UnknownClassError struct {
	ClassObjectID ID
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("hprof: unknown class 0x%x", uint64(e.ClassObjectID))
}
