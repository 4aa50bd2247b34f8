package module

import "github.com/robotalks/emcu.go/pkg/emcu/wire"

// Direction is the first byte of a GPIO command.
type Direction byte

// GPIO directions. The firmware only implements writes for now.
const (
	DirectionRead  Direction = 0
	DirectionWrite Direction = 1
)

// Pin is a named GPIO of the board.
type Pin byte

// GPIO pins.
const (
	PinVCOEn Pin = iota
	PinMHz678En
	PinResonatorInputEn
	PinVBurnVLV22En
	PinVBurnVLV25En
	PinVBurnOTPEn
	PinASICVCC18En
	PinFloatingVCCEn
	PinFloatingGNDEn
	PinPCAP04Mode
	PinVBurnVLV25EnAlt
	PinASICVLV18En
	PinCExtCtrl0
	PinCExtCtrl1
	PinCExtCtrl2
	PinCExtCtrl3
	PinCExtCtrl4
	PinVCOBufferEn
)

// PinState is the output level of a GPIO.
type PinState byte

// Pin states.
const (
	PinReset PinState = 0
	PinSet   PinState = 1
)

var (
	directionNames = names{0: "READ", 1: "WRITE"}
	pinStateNames  = names{0: "RESET", 1: "SET"}
	pinNames       = names{
		0:  "VCO_EN",
		1:  "MHZ678_EN",
		2:  "RESONATOR_INPUT_EN",
		3:  "V_BURN_VLV_2_2_EN",
		4:  "V_BURN_VLV_2_5_EN",
		5:  "V_BURN_OTP_EN",
		6:  "ASIC_VCC_1_8_EN",
		7:  "Floating_VCC_EN",
		8:  "Floating_GND_EN",
		9:  "PCAP04_MODE",
		10: "V_BURN_VLV_2_5_EN_ALT",
		11: "ASIC_VLV_1_8_EN",
		12: "C_EXT_CTRL0",
		13: "C_EXT_CTRL1",
		14: "C_EXT_CTRL2",
		15: "C_EXT_CTRL3",
		16: "C_EXT_CTRL4",
		17: "VCO_BUFFER_EN",
	}
)

func (d Direction) String() string { return directionNames.name("DIR", byte(d)) }
func (p Pin) String() string       { return pinNames.name("PIN", byte(p)) }
func (s PinState) String() string  { return pinStateNames.name("STATE", byte(s)) }

// Pins returns all pins in id order.
func Pins() []Pin {
	pins := make([]Pin, 0, len(pinNames))
	for p := PinVCOEn; p <= PinVCOBufferEn; p++ {
		pins = append(pins, p)
	}
	return pins
}

// ParsePin parses a pin name or number.
func ParsePin(s string) (Pin, error) {
	v, err := pinNames.parse("GPIO", s)
	return Pin(v), err
}

// ParsePinState parses SET/RESET, 1/0.
func ParsePinState(s string) (PinState, error) {
	v, err := pinStateNames.parse("pin state", s)
	return PinState(v), err
}

// GPIOCommand builds [direction, pin, state]. For reads the state byte is
// unused by the firmware.
func GPIOCommand(dir Direction, pin Pin, state PinState) (Command, error) {
	if err := directionNames.check("GPIO direction", byte(dir)); err != nil {
		return Command{}, err
	}
	if err := pinNames.check("GPIO", byte(pin)); err != nil {
		return Command{}, err
	}
	if err := pinStateNames.check("pin state", byte(state)); err != nil {
		return Command{}, err
	}
	return Command{
		Module:  wire.ModuleGPIO,
		Payload: []byte{byte(dir), byte(pin), byte(state)},
	}, nil
}

// GPIOWrite drives the pin to state.
func GPIOWrite(pin Pin, state PinState) (Command, error) {
	return GPIOCommand(DirectionWrite, pin, state)
}
