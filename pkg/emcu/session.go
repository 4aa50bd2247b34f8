package emcu

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/emcu.go/pkg/emcu/link"
	"github.com/robotalks/emcu.go/pkg/emcu/module"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

// Session defaults.
const (
	DefaultSettleDelay = 500 * time.Millisecond
	DefaultTerminator  = '\n'
)

// Session sends commands to one EMCU over a Link.
type Session struct {
	Codec *wire.Codec
	// SettleDelay is the wait between writing a command and reading its
	// reply in SendAndReceive.
	SettleDelay time.Duration
	Terminator  byte
	// VerifyReplies decodes each reply as a frame and checks its checksum.
	VerifyReplies bool

	lock  sync.Mutex
	link  link.Link
	sleep func(time.Duration)
}

// NewSession creates a Session with default settings. l may be nil and
// attached later.
func NewSession(l link.Link) *Session {
	return &Session{
		Codec:       wire.NewCodec(),
		SettleDelay: DefaultSettleDelay,
		Terminator:  DefaultTerminator,
		link:        l,
		sleep:       time.Sleep,
	}
}

// Attach replaces the link and returns the previous one, which is not
// closed.
func (s *Session) Attach(l link.Link) link.Link {
	s.lock.Lock()
	defer s.lock.Unlock()
	prev := s.link
	s.link = l
	if l != nil {
		glog.Info("link attached")
	}
	return prev
}

// Detach removes the link without closing it.
func (s *Session) Detach() link.Link {
	return s.Attach(nil)
}

// Link returns the current link.
func (s *Session) Link() link.Link {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.link
}

// Connected indicates an open link is attached.
func (s *Session) Connected() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.link != nil && s.link.IsOpen()
}

// Close closes and detaches the link.
func (s *Session) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.link == nil {
		return nil
	}
	l := s.link
	s.link = nil
	glog.Info("link closed")
	return l.Close()
}

// Send writes the command without waiting for a reply.
func (s *Session) Send(cmd module.Command) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.send(cmd)
}

// Receive reads one reply.
func (s *Session) Receive() ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.receive()
}

// SendAndReceive writes the command, waits SettleDelay and reads one reply.
// No other command can interleave. A link implementing link.Exchanger
// does all of it in one operation.
func (s *Session) SendAndReceive(cmd module.Command) ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if ex, ok := s.link.(link.Exchanger); ok {
		return s.exchange(ex, cmd)
	}
	if err := s.send(cmd); err != nil {
		return nil, err
	}
	if s.SettleDelay > 0 {
		s.sleep(s.SettleDelay)
	}
	return s.receive()
}

func (s *Session) connected() error {
	if s.link == nil || !s.link.IsOpen() {
		return ErrNotConnected
	}
	return nil
}

func (s *Session) send(cmd module.Command) error {
	if err := s.connected(); err != nil {
		return err
	}
	frame, err := s.Codec.Encode(cmd.Module, cmd.Payload)
	if err != nil {
		return err
	}
	glog.V(2).Infof("SND % x", frame)
	n, err := s.link.Write(frame)
	if err != nil {
		return fmt.Errorf("send %s: %w", cmd.Module, err)
	}
	if n != len(frame) {
		return fmt.Errorf("send %s: short write %d of %d bytes", cmd.Module, n, len(frame))
	}
	return nil
}

func (s *Session) receive() ([]byte, error) {
	if err := s.connected(); err != nil {
		return nil, err
	}
	reply, err := s.read()
	glog.V(2).Infof("RCV % x", reply)
	if err != nil && err != link.ErrTimeout {
		return reply, fmt.Errorf("receive: %w", err)
	}
	return reply, err
}

// read reads one reply. A verified reply is delimited by the length of its
// frame, as the terminator may appear inside.
func (s *Session) read() ([]byte, error) {
	if !s.VerifyReplies {
		return s.link.ReadUntil(s.Terminator)
	}
	reply, _, err := wire.ReadFrame(s.link, s.Codec, s.Terminator)
	return reply, err
}

func (s *Session) exchange(ex link.Exchanger, cmd module.Command) ([]byte, error) {
	if err := s.connected(); err != nil {
		return nil, err
	}
	frame, err := s.Codec.Encode(cmd.Module, cmd.Payload)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("SND % x", frame)
	x := link.Exchange{Data: frame, Delim: s.Terminator}
	if s.SettleDelay > 0 {
		x.Settle = s.SettleDelay
	}
	if s.VerifyReplies {
		x.Codec = s.Codec
	}
	reply, err := ex.Exchange(x)
	glog.V(2).Infof("RCV % x", reply)
	if err != nil && err != link.ErrTimeout {
		return reply, fmt.Errorf("exchange %s: %w", cmd.Module, err)
	}
	return reply, err
}
