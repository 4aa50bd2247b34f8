package mqtt

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/robotalks/emcu.go/pkg/bridge"
	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

// RequestTopic is where client publishes requests to device.
func RequestTopic(device, client string) string {
	return device + "/req/" + client
}

// ReplyTopic is where the bridge of device answers client.
func ReplyTopic(device, client string) string {
	return device + "/rep/" + client
}

// NewClientID generates a client ID unique to this machine and process.
func NewClientID() string {
	id := uuid.New().String()[:8]
	if mid, err := machineid.ProtectedID("emcu"); err == nil {
		return "emcu-" + mid[:12] + "-" + id
	}
	return "emcu-" + id
}

// ReadWriter implements PacketReadWriter on a pair of topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
	done     chan struct{}
	once     sync.Once
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue, sub, pub string) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		SubTopic: sub,
		PubTopic: pub,
		packetCh: make(chan []byte, 1),
		done:     make(chan struct{}),
	}
}

// ForClient sets up topics for client talking to the bridge of device.
func ForClient(q *Queue, device, client string) *ReadWriter {
	return NewPacketReadWriter(q, ReplyTopic(device, client), RequestTopic(device, client))
}

// Subscribe starts receiving packets.
func (p *ReadWriter) Subscribe() error {
	return p.Queue.Sub(p.SubTopic, p.handleMsg)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return p.Queue.Pub(p.PubTopic, pkt)
}

// Close unsubscribes and disconnects the queue.
func (p *ReadWriter) Close() error {
	var err error
	p.once.Do(func() {
		close(p.done)
		err = p.Queue.Unsub(p.SubTopic)
		p.Queue.Close()
	})
	return err
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.done:
	}
}

// Dial connects to the bridge of device via the queue.
func Dial(q *Queue, device, client string) (*bridge.Client, error) {
	if err := q.Connect(); err != nil {
		return nil, err
	}
	rw := ForClient(q, device, client)
	if err := rw.Subscribe(); err != nil {
		q.Close()
		return nil, err
	}
	return bridge.NewClient(rw), nil
}

// OpenURL opens mqtt://broker:port/prefix/?device=name[&client-id=id].
func OpenURL(u *url.URL) (link.Link, error) {
	q := u.Query()
	device := q.Get("device")
	if device == "" {
		return nil, fmt.Errorf("device not specified in %s", u.Redacted())
	}
	client := q.Get("client-id")
	if client == "" {
		client = NewClientID()
	}
	opts := clientOptions(u)
	opts.SetClientID(client)
	return Dial(NewQueue(opts, strings.TrimPrefix(u.Path, "/")), device, client)
}

func init() {
	link.Register("mqtt", OpenURL)
}

// Serve answers requests for device until ctx is done. The queue must be
// connected.
func Serve(ctx context.Context, q *Queue, device string, srv *bridge.Server) error {
	reqPattern := RequestTopic(device, "+")
	err := q.Sub(reqPattern, func(topic string, payload []byte) {
		client := topic[strings.LastIndex(topic, "/")+1:]
		// waiting on a publish token inside the paho callback blocks acks.
		go func() {
			reply, err := srv.HandlePacket(payload)
			if err != nil {
				glog.Warningf("drop malformed request from %s: %v", client, err)
				return
			}
			if err = q.Pub(ReplyTopic(device, client), reply); err != nil {
				glog.Errorf("reply to %s failed: %v", client, err)
			}
		}()
	})
	if err != nil {
		return err
	}
	glog.Infof("serving device %q on %q", device, q.TopicPrefix+reqPattern)
	<-ctx.Done()
	q.Unsub(reqPattern)
	return ctx.Err()
}
