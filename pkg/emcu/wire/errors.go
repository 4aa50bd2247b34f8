package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrShortFrame indicates the buffer is too small to hold a frame.
	ErrShortFrame = errors.New("short frame")
	// ErrBadHeader indicates the frame doesn't start with the link header.
	ErrBadHeader = errors.New("bad frame header")
	// ErrLengthMismatch indicates the length field disagrees with the frame size.
	ErrLengthMismatch = errors.New("frame length mismatch")
)

// LengthError is returned when a payload doesn't fit in the 16-bit length field.
type LengthError struct {
	Length int
}

// Error implements error.
func (e *LengthError) Error() string {
	return fmt.Sprintf("payload length %d exceeds %d", e.Length, MaxPayloadSize)
}

// ChecksumError is returned when a received frame fails verification.
type ChecksumError struct {
	Expected uint32
	Actual   uint32
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: frame %08x, calculated %08x", e.Expected, e.Actual)
}
