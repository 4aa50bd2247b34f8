// Package serial implements link.Link over a serial port.
package serial

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

// Defaults of the EMCU UART.
const (
	DefaultBaudRate    = 9600
	DefaultReadTimeout = time.Second
)

// Link is a serial port link.
type Link struct {
	Name string

	port serial.Port
	lock sync.RWMutex
	open bool
}

// New wraps an opened port.
func New(port serial.Port, name string) *Link {
	return &Link{Name: name, port: port, open: true}
}

// Open opens the serial device with 8N1 framing.
func Open(device string, baud int, timeout time.Duration) (*Link, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err = port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	glog.Infof("opened %s at %d baud", device, baud)
	return New(port, device), nil
}

// OpenURL opens the link from serial:///dev/ttyUSB0?baud=9600&timeout=1s.
// The device may be in the host part instead, e.g. serial://COM3.
func OpenURL(u *url.URL) (link.Link, error) {
	device := u.Path
	if u.Host != "" {
		device = u.Host + device
	}
	if device == "" {
		return nil, fmt.Errorf("serial device not specified")
	}
	baud, timeout := DefaultBaudRate, DefaultReadTimeout
	q := u.Query()
	if val := q.Get("baud"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid baud rate %q", val)
		}
		baud = n
	}
	if val := q.Get("timeout"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", val, err)
		}
		timeout = d
	}
	return Open(device, baud, timeout)
}

func init() {
	link.Register("serial", OpenURL)
}

// Write implements io.Writer.
func (l *Link) Write(p []byte) (int, error) {
	if !l.IsOpen() {
		return 0, link.ErrClosed
	}
	return l.port.Write(p)
}

// ReadUntil implements link.Link. The port read timeout bounds each byte.
func (l *Link) ReadUntil(delim byte) ([]byte, error) {
	if !l.IsOpen() {
		return nil, link.ErrClosed
	}
	return link.ReadUntil(l.port, delim)
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
	glog.Infof("closing %s", l.Name)
	return l.port.Close()
}
