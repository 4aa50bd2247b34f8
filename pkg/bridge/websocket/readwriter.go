// Package websocket carries bridge packets as binary WebSocket messages.
//
// The client registers the "ws" and "wss" link schemes:
//
//   ws://host:port/link
package websocket

import (
	"net/http"
	"net/url"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/emcu.go/pkg/bridge"
	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

// ReadWriter implements PacketReadWriter.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

// Dial connects to a bridge served by Handler.
func Dial(rawURL string) (*bridge.Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	origin := &url.URL{Scheme: "http", Host: u.Host}
	if u.Scheme == "wss" {
		origin.Scheme = "https"
	}
	conn, err := websocket.Dial(u.String(), "", origin.String())
	if err != nil {
		return nil, err
	}
	return bridge.NewClient(New(conn)), nil
}

// OpenURL opens ws:// and wss:// links.
func OpenURL(u *url.URL) (link.Link, error) {
	return Dial(u.String())
}

func init() {
	link.Register("ws", OpenURL)
	link.Register("wss", OpenURL)
}

// Handler serves each WebSocket connection with srv.
func Handler(srv *bridge.Server) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		glog.Infof("bridge client %s connected", conn.Request().RemoteAddr)
		err := srv.Serve(conn.Request().Context(), New(conn))
		glog.Infof("bridge client %s disconnected: %v", conn.Request().RemoteAddr, err)
	})
}
