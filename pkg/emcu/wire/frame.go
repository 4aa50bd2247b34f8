package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// ModuleID identifies the EMCU module a frame is addressed to.
type ModuleID byte

// Modules of the EMCU. 0x02 is not assigned.
const (
	ModuleDAC           ModuleID = 0x00
	ModuleGPIO          ModuleID = 0x01
	ModulePotentiometer ModuleID = 0x03
	ModuleADC           ModuleID = 0x04
)

var moduleNames = map[ModuleID]string{
	ModuleDAC:           "DAC",
	ModuleGPIO:          "GPIO",
	ModulePotentiometer: "POT",
	ModuleADC:           "ADC",
}

// IsValid indicates the ID is one of the known modules.
func (id ModuleID) IsValid() bool {
	_, ok := moduleNames[id]
	return ok
}

// String implements fmt.Stringer.
func (id ModuleID) String() string {
	if name, ok := moduleNames[id]; ok {
		return name
	}
	return fmt.Sprintf("MODULE(0x%02x)", byte(id))
}

// Field sizes.
const (
	LengthSize     = 2
	ModuleIDSize   = 1
	MaxPayloadSize = 0xffff
)

// DefaultHeader is the link header ('V', 'E') expected by the EMCU.
var DefaultHeader = []byte{0x56, 0x45}

// Window selects which leading bytes are excluded from the checksum.
type Window int

const (
	// WindowHeaderAndLength skips the link header and the length field.
	// This is what the EMCU firmware verifies.
	WindowHeaderAndLength Window = iota
	// WindowHeader skips only the link header.
	WindowHeader
)

// Bounds returns the exclusion window for a header of headerLen bytes.
func (w Window) Bounds(headerLen int) (start, end int) {
	if w == WindowHeader {
		return 0, headerLen
	}
	return 0, headerLen + LengthSize
}

// String implements fmt.Stringer.
func (w Window) String() string {
	if w == WindowHeader {
		return "header"
	}
	return "header+length"
}

// ParseWindow parses the name returned by Window.String.
func ParseWindow(s string) (Window, error) {
	switch s {
	case "header":
		return WindowHeader, nil
	case "header+length", "":
		return WindowHeaderAndLength, nil
	}
	return WindowHeaderAndLength, fmt.Errorf("unknown checksum window %q", s)
}

// Frame is a decoded frame.
type Frame struct {
	Header   []byte
	Module   ModuleID
	Payload  []byte
	Checksum uint32
}

// Codec encodes and decodes frames for a given link header.
type Codec struct {
	Header []byte
	Window Window
}

// NewCodec creates a Codec with the default header and checksum window.
func NewCodec() *Codec {
	return &Codec{Header: DefaultHeader, Window: WindowHeaderAndLength}
}

// ExcludeWindow returns the checksum exclusion window of the codec.
func (c *Codec) ExcludeWindow() (start, end int) {
	return c.Window.Bounds(len(c.Header))
}

// Overhead is the number of bytes a frame adds around the payload.
func (c *Codec) Overhead() int {
	return len(c.Header) + LengthSize + ModuleIDSize + ChecksumSize
}

// Encode builds the frame carrying payload to the module.
func (c *Codec) Encode(id ModuleID, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, &LengthError{Length: len(payload)}
	}
	hl := len(c.Header)
	b := make([]byte, hl+LengthSize+ModuleIDSize+len(payload), c.Overhead()+len(payload))
	copy(b, c.Header)
	binary.BigEndian.PutUint16(b[hl:], uint16(len(payload)))
	b[hl+LengthSize] = byte(id)
	copy(b[hl+LengthSize+ModuleIDSize:], payload)
	s, e := c.ExcludeWindow()
	return binary.BigEndian.AppendUint32(b, Checksum(b, s, e)), nil
}

// WriteTo encodes the frame and writes it in a single Write.
func (c *Codec) WriteTo(w io.Writer, id ModuleID, payload []byte) (int, error) {
	b, err := c.Encode(id, payload)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

// Decode parses and verifies a complete frame. Returned slices alias b.
// On checksum mismatch the frame is returned along with a *ChecksumError.
func (c *Codec) Decode(b []byte) (*Frame, error) {
	hl := len(c.Header)
	if len(b) < c.Overhead() {
		return nil, ErrShortFrame
	}
	if !bytes.Equal(b[:hl], c.Header) {
		return nil, ErrBadHeader
	}
	size := int(binary.BigEndian.Uint16(b[hl:]))
	if len(b) != c.Overhead()+size {
		return nil, ErrLengthMismatch
	}
	body := b[:len(b)-ChecksumSize]
	f := &Frame{
		Header:   body[:hl],
		Module:   ModuleID(body[hl+LengthSize]),
		Payload:  body[hl+LengthSize+ModuleIDSize:],
		Checksum: binary.BigEndian.Uint32(b[len(body):]),
	}
	s, e := c.ExcludeWindow()
	if sum := Checksum(body, s, e); sum != f.Checksum {
		return f, &ChecksumError{Expected: f.Checksum, Actual: sum}
	}
	return f, nil
}

// BuildFrame builds a frame whose checksum skips exactly the header bytes.
func BuildFrame(header []byte, id ModuleID, payload []byte) ([]byte, error) {
	c := Codec{Header: header, Window: WindowHeader}
	return c.Encode(id, payload)
}
