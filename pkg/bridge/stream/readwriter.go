// Package stream carries bridge packets over a byte stream.
//
// The client registers the "bridge" link scheme:
//
//   bridge://host:port
package stream

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/emcu.go/pkg/bridge"
	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

// MaxPacketSize limits the size of a received packet.
const MaxPacketSize = 1 << 20

// ReadWriter implements PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	io.ReadWriter
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p.ReadWriter, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxPacketSize {
		return nil, fmt.Errorf("packet size %d exceeds limit", size)
	}
	pkt := make([]byte, size)
	_, err := io.ReadFull(p.ReadWriter, pkt)
	return pkt, err
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	buf := make([]byte, 4, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	_, err := p.ReadWriter.Write(append(buf, pkt...))
	return err
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Dial connects to a bridge server.
func Dial(addr string) (*bridge.Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return bridge.NewClient(New(conn)), nil
}

// OpenURL opens bridge://host:port.
func OpenURL(u *url.URL) (link.Link, error) {
	return Dial(u.Host)
}

func init() {
	link.Register("bridge", OpenURL)
}

// Serve accepts connections from ln and serves each with srv.
func Serve(ctx context.Context, ln net.Listener, srv *bridge.Server) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		glog.Infof("bridge client %s connected", conn.RemoteAddr())
		go func() {
			err := srv.Serve(ctx, New(conn))
			glog.Infof("bridge client %s disconnected: %v", conn.RemoteAddr(), err)
		}()
	}
}
