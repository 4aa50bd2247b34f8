package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/emcu.go/pkg/emcu/link"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

// MaxSettle limits the settle delay of an exchange.
const MaxSettle = 10 * time.Second

// Server executes Requests on a Link. Requests from all connected clients
// are serialized on the link.
type Server struct {
	Link    link.Link
	Metrics *Metrics

	lock  sync.Mutex
	sleep func(time.Duration)
}

// NewServer creates a Server.
func NewServer(l link.Link) *Server {
	return &Server{Link: l, sleep: time.Sleep}
}

// Handle executes a single request.
func (s *Server) Handle(req *Request) *Reply {
	s.lock.Lock()
	defer s.lock.Unlock()
	start := time.Now()
	reply := &Reply{Seq: req.Seq}
	var err error
	switch req.Op {
	case OpStatus:
	case OpWrite:
		_, err = s.Link.Write(req.Data)
	case OpReadUntil:
		reply.Data, err = s.Link.ReadUntil(byte(req.Delim))
	case OpExchange:
		reply.Data, err = s.exchange(req)
	default:
		err = errors.New("unsupported operation " + req.Op.String())
	}
	switch {
	case err == link.ErrTimeout:
		reply.Timeout = true
	case err != nil:
		reply.Error = err.Error()
	}
	reply.Open = s.Link.IsOpen()
	s.Metrics.observe(req, reply, time.Since(start))
	return reply
}

func (s *Server) exchange(req *Request) ([]byte, error) {
	settle := time.Duration(req.Settle)
	if settle < 0 || settle > MaxSettle {
		return nil, fmt.Errorf("settle %v out of range", settle)
	}
	n, err := s.Link.Write(req.Data)
	if err != nil {
		return nil, err
	}
	if n != len(req.Data) {
		return nil, fmt.Errorf("short write %d of %d bytes", n, len(req.Data))
	}
	if settle > 0 {
		sleep := s.sleep
		if sleep == nil {
			sleep = time.Sleep
		}
		sleep(settle)
	}
	delim := byte(req.Delim)
	if !req.Framed {
		return s.Link.ReadUntil(delim)
	}
	codec := &wire.Codec{Header: req.Header, Window: wire.Window(req.Window)}
	data, _, err := wire.ReadFrame(s.Link, codec, delim)
	return data, err
}

// HandlePacket decodes a request packet and encodes the reply.
func (s *Server) HandlePacket(pkt []byte) ([]byte, error) {
	var req Request
	if err := proto.Unmarshal(pkt, &req); err != nil {
		return nil, err
	}
	glog.V(2).Infof("REQ %s", req.String())
	reply := s.Handle(&req)
	return proto.Marshal(reply)
}

// Serve handles requests from rw until reading fails or ctx is done.
// Malformed packets are dropped.
func (s *Server) Serve(ctx context.Context, rw PacketReadWriter) error {
	if closer, ok := rw.(io.Closer); ok {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				closer.Close()
			case <-stop:
			}
		}()
	}
	for {
		pkt, err := rw.ReadPacket()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		out, err := s.HandlePacket(pkt)
		if err != nil {
			glog.Warningf("drop malformed request: %v", err)
			continue
		}
		if err = rw.WritePacket(out); err != nil {
			return err
		}
	}
}
