package wire

import "encoding/binary"

// Parser extracts frames from a byte stream.
type Parser struct {
	Codec *Codec

	state parseState
	buf   []byte
	size  int
}

// ParseResult is the result after one parsing step. Both fields are nil
// while a frame is still incomplete.
type ParseResult struct {
	Frame *Frame
	Err   error
}

type parseState int

const (
	stateHeader   parseState = iota // hunting for the link header
	stateLength                     // waiting for length bytes
	stateModule                     // waiting for module id
	statePayload                    // waiting for payload bytes
	stateChecksum                   // waiting for checksum bytes
)

// NewParser creates a Parser using codec.
func NewParser(codec *Codec) *Parser {
	p := &Parser{Codec: codec}
	p.Reset()
	return p
}

// Reset drops any partial frame and starts hunting for a header.
func (p *Parser) Reset() {
	p.buf, p.size = nil, 0
	p.state = stateHeader
	if len(p.Codec.Header) == 0 {
		p.state = stateLength
	}
}

// Pending returns the number of bytes of the current partial frame.
func (p *Parser) Pending() int {
	return len(p.buf)
}

// Parse consumes one byte and returns the results it completes. A
// mismatch while matching the header, or a rejected frame, rescans the
// bytes after the first byte of the attempt, so one byte may complete
// more than one result.
func (p *Parser) Parse(b byte) (results []ParseResult) {
	input := []byte{b}
	for len(input) > 0 {
		pr, rescan := p.step(input[0])
		input = input[1:]
		if pr.Frame != nil || pr.Err != nil {
			results = append(results, pr)
		}
		if len(rescan) > 0 {
			input = append(rescan, input...)
		}
	}
	return
}

// step advances the state machine by one byte. rescan holds the bytes to
// be parsed again after an attempt was abandoned; it is always shorter
// than the bytes the attempt consumed.
func (p *Parser) step(b byte) (pr ParseResult, rescan []byte) {
	header := p.Codec.Header
	switch p.state {
	case stateHeader:
		if b != header[len(p.buf)] {
			if len(p.buf) > 0 {
				rescan = append(append([]byte(nil), p.buf[1:]...), b)
				p.buf = p.buf[:0]
			}
			return
		}
		p.buf = append(p.buf, b)
		if len(p.buf) == len(header) {
			p.state = stateLength
		}
	case stateLength:
		p.buf = append(p.buf, b)
		if len(p.buf) == len(header)+LengthSize {
			p.size = int(binary.BigEndian.Uint16(p.buf[len(header):]))
			p.state = stateModule
		}
	case stateModule:
		p.buf = append(p.buf, b)
		if p.size == 0 {
			p.state = stateChecksum
		} else {
			p.state = statePayload
		}
	case statePayload:
		p.buf = append(p.buf, b)
		if len(p.buf) == len(header)+LengthSize+ModuleIDSize+p.size {
			p.state = stateChecksum
		}
	case stateChecksum:
		p.buf = append(p.buf, b)
		if len(p.buf) == p.Codec.Overhead()+p.size {
			buf := p.buf
			p.Reset()
			pr.Frame, pr.Err = p.Codec.Decode(buf)
			// without a header every byte may start a frame, nothing to hunt for.
			if pr.Err != nil && len(header) > 0 {
				rescan = append([]byte(nil), buf[1:]...)
			}
		}
	}
	return
}

// Feed consumes bytes and returns every completed result in order.
func (p *Parser) Feed(data []byte) (results []ParseResult) {
	for _, b := range data {
		results = append(results, p.Parse(b)...)
	}
	return
}
