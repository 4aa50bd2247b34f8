// Package stream implements link.Link over a byte stream such as a TCP
// connection to a serial server.
package stream

import (
	"bufio"
	"io"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

// DefaultReadTimeout bounds ReadUntil when the stream supports deadlines.
const DefaultReadTimeout = time.Second

type deadliner interface {
	SetReadDeadline(time.Time) error
}

// Link wraps an io.ReadWriteCloser.
type Link struct {
	ReadTimeout time.Duration

	rwc    io.ReadWriteCloser
	reader *bufio.Reader
	lock   sync.RWMutex
	open   bool
}

// New creates a Link with the stream.
func New(rwc io.ReadWriteCloser) *Link {
	return &Link{
		ReadTimeout: DefaultReadTimeout,
		rwc:         rwc,
		reader:      bufio.NewReader(rwc),
		open:        true,
	}
}

// Dial connects to a TCP endpoint.
func Dial(addr string, timeout time.Duration) (*Link, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	glog.Infof("connected to %s", addr)
	l := New(conn)
	if timeout > 0 {
		l.ReadTimeout = timeout
	}
	return l, nil
}

// OpenURL opens tcp://host:port?timeout=1s.
func OpenURL(u *url.URL) (link.Link, error) {
	timeout := DefaultReadTimeout
	if val := u.Query().Get("timeout"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, err
		}
		timeout = d
	}
	return Dial(u.Host, timeout)
}

func init() {
	link.Register("tcp", OpenURL)
}

// Write implements io.Writer.
func (l *Link) Write(p []byte) (int, error) {
	if !l.IsOpen() {
		return 0, link.ErrClosed
	}
	return l.rwc.Write(p)
}

// ReadUntil implements link.Link.
func (l *Link) ReadUntil(delim byte) ([]byte, error) {
	if !l.IsOpen() {
		return nil, link.ErrClosed
	}
	if d, ok := l.rwc.(deadliner); ok && l.ReadTimeout > 0 {
		if err := d.SetReadDeadline(time.Now().Add(l.ReadTimeout)); err != nil {
			return nil, err
		}
	}
	return link.ReadUntil(l.reader, delim)
}

// IsOpen implements link.Link.
func (l *Link) IsOpen() bool {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.open
}

// Close implements io.Closer.
func (l *Link) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if !l.open {
		return nil
	}
	l.open = false
	return l.rwc.Close()
}
