// Package link defines the byte transport a Session drives.
//
// A Link is opened from a URL. The scheme selects the implementation,
// which registers itself with Register, e.g.
//
//   serial:///dev/ttyUSB0?baud=9600&timeout=1s
//   tcp://host:port
//   mqtt://broker:1883/emcu/?device=bench1
//   ws://host:port/link
//   bridge://host:port
//   sim:
package link

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"sync"
)

// Link is a byte-oriented connection to one EMCU.
type Link interface {
	io.Writer
	io.Closer
	// ReadUntil reads up to and including delim. On timeout the bytes
	// read so far are returned with ErrTimeout.
	ReadUntil(delim byte) ([]byte, error)
	// IsOpen indicates the link is usable.
	IsOpen() bool
}

var (
	// ErrTimeout indicates the peer did not produce data in time.
	ErrTimeout = errors.New("link timeout")
	// ErrClosed indicates the link has been closed.
	ErrClosed = errors.New("link closed")
)

// Opener opens a Link from a parsed URL.
type Opener func(u *url.URL) (Link, error)

var (
	openersLock sync.RWMutex
	openers     = make(map[string]Opener)
)

// Register associates a URL scheme with an Opener.
func Register(scheme string, opener Opener) {
	openersLock.Lock()
	defer openersLock.Unlock()
	if _, exist := openers[scheme]; exist {
		panic("link scheme " + scheme + " already registered")
	}
	openers[scheme] = opener
}

// Schemes lists registered schemes.
func Schemes() []string {
	openersLock.RLock()
	defer openersLock.RUnlock()
	schemes := make([]string, 0, len(openers))
	for scheme := range openers {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

// Open opens a Link by URL.
func Open(rawURL string) (Link, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %w", err)
	}
	openersLock.RLock()
	opener := openers[u.Scheme]
	openersLock.RUnlock()
	if opener == nil {
		return nil, fmt.Errorf("unknown link URL scheme: %q", u.Scheme)
	}
	return opener(u)
}

// ReadUntil reads r one byte at a time until delim. A zero-byte read
// without error, or an error satisfying os.IsTimeout, is ErrTimeout.
func ReadUntil(r io.Reader, delim byte) ([]byte, error) {
	var out []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out = append(out, buf[0])
			if buf[0] == delim {
				return out, nil
			}
			continue
		}
		switch {
		case err == nil, os.IsTimeout(err):
			return out, ErrTimeout
		case errors.Is(err, os.ErrDeadlineExceeded):
			return out, ErrTimeout
		default:
			return out, err
		}
	}
}
