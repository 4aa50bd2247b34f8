// Package sim simulates the EMCU firmware behind a link.Link.
//
// Frames written to the Device are parsed and checksum-verified the way
// the firmware does. Module state is kept in memory. ADC reads reply with
// a text line; other commands are silent unless Ack is set. Broken frames
// reply with an ERR line.
package sim

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/emcu.go/pkg/emcu/link"
	"github.com/robotalks/emcu.go/pkg/emcu/module"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

type dacKey struct {
	dac module.DAC
	ch  module.DACChannel
}

// DACOutput is the state of one DAC channel.
type DACOutput struct {
	Millivolts uint16
	PoweredUp  bool
}

// Device is a simulated EMCU.
type Device struct {
	// Ack makes the device reply "OK <module>" to commands without output.
	Ack bool

	lock   sync.Mutex
	parser *wire.Parser
	out    bytes.Buffer
	open   bool
	frames []wire.Frame
	dacs   map[dacKey]DACOutput
	gpios  map[module.Pin]module.PinState
	wiper  int
	adcs   map[module.ADCChannel]uint16
}

// New creates a Device accepting frames encoded by codec.
func New(codec *wire.Codec) *Device {
	d := &Device{
		parser: wire.NewParser(codec),
		open:   true,
		dacs:   make(map[dacKey]DACOutput),
		gpios:  make(map[module.Pin]module.PinState),
		adcs:   make(map[module.ADCChannel]uint16),
	}
	for _, ch := range module.ADCChannels() {
		d.adcs[ch] = uint16(ch) * 100
	}
	return d
}

// OpenURL opens sim:?header=5645&window=header&ack=true.
func OpenURL(u *url.URL) (link.Link, error) {
	codec := wire.NewCodec()
	q := u.Query()
	if val := q.Get("header"); val != "" {
		header, err := hex.DecodeString(val)
		if err != nil {
			return nil, fmt.Errorf("invalid header %q: %w", val, err)
		}
		codec.Header = header
	}
	window, err := wire.ParseWindow(q.Get("window"))
	if err != nil {
		return nil, err
	}
	codec.Window = window
	d := New(codec)
	if val := q.Get("ack"); val != "" {
		if d.Ack, err = strconv.ParseBool(val); err != nil {
			return nil, fmt.Errorf("invalid ack %q: %w", val, err)
		}
	}
	return d, nil
}

func init() {
	link.Register("sim", OpenURL)
}

// Write implements io.Writer.
func (d *Device) Write(p []byte) (int, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if !d.open {
		return 0, link.ErrClosed
	}
	for _, pr := range d.parser.Feed(p) {
		var csErr *wire.ChecksumError
		switch {
		case errors.As(pr.Err, &csErr):
			glog.V(1).Infof("sim: %v", pr.Err)
			d.out.WriteString("ERR crc\n")
		case pr.Err != nil:
			glog.V(1).Infof("sim: %v", pr.Err)
			d.out.WriteString("ERR frame\n")
		default:
			d.execute(pr.Frame)
		}
	}
	return len(p), nil
}

// ReadUntil implements link.Link. Pending output without delim is returned
// with link.ErrTimeout.
func (d *Device) ReadUntil(delim byte) ([]byte, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if !d.open {
		return nil, link.ErrClosed
	}
	line, err := d.out.ReadBytes(delim)
	if err != nil {
		return line, link.ErrTimeout
	}
	return line, nil
}

// IsOpen implements link.Link.
func (d *Device) IsOpen() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.open
}

// Close implements io.Closer.
func (d *Device) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.open = false
	return nil
}

// Frames returns the frames accepted so far.
func (d *Device) Frames() []wire.Frame {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]wire.Frame(nil), d.frames...)
}

// DACOutput returns the state of a DAC channel.
func (d *Device) DACOutput(dac module.DAC, ch module.DACChannel) DACOutput {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.dacs[dacKey{dac, ch}]
}

// Pin returns the state of a GPIO.
func (d *Device) Pin(pin module.Pin) module.PinState {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.gpios[pin]
}

// Wiper returns the potentiometer wiper register.
func (d *Device) Wiper() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.wiper
}

// SetADC sets the raw value an ADC channel reads.
func (d *Device) SetADC(ch module.ADCChannel, value uint16) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.adcs[ch] = value
}

func (d *Device) execute(f *wire.Frame) {
	frame := *f
	frame.Header = append([]byte(nil), f.Header...)
	frame.Payload = append([]byte(nil), f.Payload...)
	d.frames = append(d.frames, frame)

	var err error
	switch f.Module {
	case wire.ModuleDAC:
		err = d.dac(f.Payload)
	case wire.ModuleGPIO:
		err = d.gpio(f.Payload)
	case wire.ModulePotentiometer:
		err = d.pot(f.Payload)
	case wire.ModuleADC:
		err = d.adc(f.Payload)
		if err == nil {
			return
		}
	default:
		err = errors.New("module")
	}
	if err != nil {
		fmt.Fprintf(&d.out, "ERR %v\n", err)
	} else if d.Ack {
		fmt.Fprintf(&d.out, "OK %s\n", f.Module)
	}
}

var errPayload = errors.New("payload")

func (d *Device) dac(p []byte) error {
	if len(p) != 5 {
		return errPayload
	}
	dac, op, ch := module.DAC(p[0]), module.DACOperation(p[1]), module.DACChannel(p[2])
	if _, err := module.DACCommand(dac, op, ch, 0); err != nil {
		return errPayload
	}
	chs := []module.DACChannel{ch}
	if ch == module.DACChAll {
		chs = []module.DACChannel{module.DACCh1, module.DACCh2, module.DACCh3, module.DACCh4}
	}
	mv := uint16(p[3])<<8 | uint16(p[4])
	for _, c := range chs {
		key := dacKey{dac, c}
		out := d.dacs[key]
		switch op {
		case module.DACLoadAndPowerUp:
			out.Millivolts, out.PoweredUp = mv, true
		case module.DACLoad:
			out.Millivolts = mv
		case module.DACOn:
			out.PoweredUp = true
		case module.DACOff:
			out.PoweredUp = false
		}
		d.dacs[key] = out
	}
	return nil
}

func (d *Device) gpio(p []byte) error {
	if len(p) != 3 {
		return errPayload
	}
	if _, err := module.GPIOCommand(module.Direction(p[0]), module.Pin(p[1]), module.PinState(p[2])); err != nil {
		return errPayload
	}
	if module.Direction(p[0]) == module.DirectionWrite {
		d.gpios[module.Pin(p[1])] = module.PinState(p[2])
	}
	return nil
}

func (d *Device) pot(p []byte) error {
	if len(p) != 2 || module.PotOperation(p[0]) != module.PotSet || p[1] > module.MaxWiper {
		return errPayload
	}
	d.wiper = int(p[1])
	return nil
}

func (d *Device) adc(p []byte) error {
	if len(p) != 1 {
		return errPayload
	}
	ch := module.ADCChannel(p[0])
	if ch == module.ADCAll {
		values := make([]string, 0, len(d.adcs))
		for _, c := range module.ADCChannels() {
			values = append(values, strconv.Itoa(int(d.adcs[c])))
		}
		fmt.Fprintf(&d.out, "ADC ALL %s\n", strings.Join(values, " "))
		return nil
	}
	value, ok := d.adcs[ch]
	if !ok {
		return errPayload
	}
	fmt.Fprintf(&d.out, "ADC %d %d\n", ch, value)
	return nil
}
