package bridge

import (
	"io"
	"sync"
)

// PipeEnd is one end of an in-process packet pipe.
type PipeEnd struct {
	in   <-chan []byte
	out  chan<- []byte
	done chan struct{}
	once *sync.Once
}

// Pipe creates two connected PacketReadWriters. Closing either end closes
// both.
func Pipe() (*PipeEnd, *PipeEnd) {
	ab, ba := make(chan []byte, 16), make(chan []byte, 16)
	done, once := make(chan struct{}), &sync.Once{}
	return &PipeEnd{in: ba, out: ab, done: done, once: once},
		&PipeEnd{in: ab, out: ba, done: done, once: once}
}

// ReadPacket implements PacketReader.
func (p *PipeEnd) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.in:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *PipeEnd) WritePacket(pkt []byte) error {
	select {
	case <-p.done:
		return io.ErrClosedPipe
	default:
	}
	select {
	case p.out <- append([]byte(nil), pkt...):
		return nil
	case <-p.done:
		return io.ErrClosedPipe
	}
}

// Close implements io.Closer.
func (p *PipeEnd) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
