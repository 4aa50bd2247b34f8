package bridge

import (
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

// DefaultTimeout is the default time to wait for a Reply. It must cover the
// read timeout of the link at the server side.
const DefaultTimeout = 3 * time.Second

// Client implements link.Link by sending Requests to a Server.
type Client struct {
	Timeout time.Duration

	rw      PacketReadWriter
	replyCh chan *Reply
	done    chan struct{}
	seq     uint32
	lock    sync.Mutex // one outstanding request

	stateLock  sync.RWMutex
	closed     bool
	remoteOpen bool
	err        error
}

// NewClient creates a Client and starts receiving replies from rw.
func NewClient(rw PacketReadWriter) *Client {
	c := &Client{
		Timeout:    DefaultTimeout,
		rw:         rw,
		replyCh:    make(chan *Reply, 1),
		done:       make(chan struct{}),
		remoteOpen: true,
	}
	go c.readLoop()
	return c
}

// Status queries whether the link at the server side is open.
func (c *Client) Status() (bool, error) {
	if _, err := c.call(&Request{Op: OpStatus}, 0); err != nil {
		return false, err
	}
	return c.IsOpen(), nil
}

// Write implements io.Writer.
func (c *Client) Write(p []byte) (int, error) {
	if _, err := c.call(&Request{Op: OpWrite, Data: p}, 0); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ReadUntil implements link.Link.
func (c *Client) ReadUntil(delim byte) ([]byte, error) {
	reply, err := c.call(&Request{Op: OpReadUntil, Delim: uint32(delim)}, 0)
	if reply != nil {
		return reply.Data, err
	}
	return nil, err
}

// Exchange implements link.Exchanger. The server runs the write, the
// settle delay and the read without serving other clients in between.
func (c *Client) Exchange(x link.Exchange) ([]byte, error) {
	req := &Request{
		Op:     OpExchange,
		Data:   x.Data,
		Delim:  uint32(x.Delim),
		Settle: int64(x.Settle),
	}
	if x.Codec != nil {
		req.Framed = true
		req.Header = x.Codec.Header
		req.Window = int32(x.Codec.Window)
	}
	reply, err := c.call(req, x.Settle)
	if reply != nil {
		return reply.Data, err
	}
	return nil, err
}

// IsOpen implements link.Link. It reflects the remote link state reported
// by the last reply.
func (c *Client) IsOpen() bool {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()
	return !c.closed && c.err == nil && c.remoteOpen
}

// Close implements io.Closer. The remote link stays open.
func (c *Client) Close() error {
	c.stateLock.Lock()
	if c.closed {
		c.stateLock.Unlock()
		return nil
	}
	c.closed = true
	c.stateLock.Unlock()
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// call sends req and waits for its reply. extra is added to the timeout.
func (c *Client) call(req *Request, extra time.Duration) (*Reply, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.isClosed() {
		return nil, link.ErrClosed
	}
	c.seq++
	req.Seq = c.seq
	pkt, err := proto.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err = c.rw.WritePacket(pkt); err != nil {
		return nil, err
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout + extra)
	defer timer.Stop()
	for {
		select {
		case reply := <-c.replyCh:
			if reply.Seq != req.Seq {
				glog.V(2).Infof("drop stale reply %d, expect %d", reply.Seq, req.Seq)
				continue
			}
			c.stateLock.Lock()
			c.remoteOpen = reply.Open
			c.stateLock.Unlock()
			switch {
			case reply.Timeout:
				return reply, link.ErrTimeout
			case reply.Error != "":
				return reply, &RemoteError{Message: reply.Error}
			}
			return reply, nil
		case <-timer.C:
			return nil, link.ErrTimeout
		case <-c.done:
			return nil, link.ErrClosed
		}
	}
}

func (c *Client) isClosed() bool {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()
	return c.closed || c.err != nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		pkt, err := c.rw.ReadPacket()
		if err != nil {
			c.stateLock.Lock()
			c.err = err
			c.stateLock.Unlock()
			if !c.isClosedByUser() {
				glog.Warningf("bridge receive error: %v", err)
			}
			return
		}
		var reply Reply
		if err = proto.Unmarshal(pkt, &reply); err != nil {
			glog.Warningf("drop malformed reply: %v", err)
			continue
		}
		select {
		case c.replyCh <- &reply:
		default:
			// nobody waits; replace the unclaimed reply.
			select {
			case <-c.replyCh:
			default:
			}
			c.replyCh <- &reply
		}
	}
}

func (c *Client) isClosedByUser() bool {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()
	return c.closed
}
