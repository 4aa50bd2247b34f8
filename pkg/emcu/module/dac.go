package module

import (
	"math"

	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

// DAC selects one of the DAC chips.
type DAC byte

// DACs on the board.
const (
	DAC1 DAC = 1
	DAC2 DAC = 2
)

// DACOperation is the operation applied to a DAC channel.
type DACOperation byte

// DAC operations.
const (
	DACLoadAndPowerUp DACOperation = 0x00
	DACLoad           DACOperation = 0x01
	DACOn             DACOperation = 0x02
	DACOff            DACOperation = 0x03
)

// DACChannel selects the output channel of a DAC.
type DACChannel byte

// DAC channels.
const (
	DACCh1   DACChannel = 0
	DACCh2   DACChannel = 1
	DACCh3   DACChannel = 2
	DACCh4   DACChannel = 3
	DACChAll DACChannel = 15
)

// MaxDACVoltage is the highest voltage the 16-bit millivolt field can carry.
const MaxDACVoltage = float64(math.MaxUint16) / 1000

var (
	dacNames   = names{1: "DAC1", 2: "DAC2"}
	dacOpNames = names{0: "LOAD_AND_POWER_UP", 1: "LOAD", 2: "ON", 3: "OFF"}
	dacChNames = names{0: "CH1", 1: "CH2", 2: "CH3", 3: "CH4", 15: "ALL"}
)

func (d DAC) String() string          { return dacNames.name("DAC", byte(d)) }
func (o DACOperation) String() string { return dacOpNames.name("DAC_OP", byte(o)) }
func (c DACChannel) String() string   { return dacChNames.name("DAC_CH", byte(c)) }

// ParseDAC parses a DAC name or number.
func ParseDAC(s string) (DAC, error) {
	v, err := dacNames.parse("DAC", s)
	return DAC(v), err
}

// ParseDACOperation parses a DAC operation name or number.
func ParseDACOperation(s string) (DACOperation, error) {
	v, err := dacOpNames.parse("DAC operation", s)
	return DACOperation(v), err
}

// ParseDACChannel parses a DAC channel name or number.
func ParseDACChannel(s string) (DACChannel, error) {
	v, err := dacChNames.parse("DAC channel", s)
	return DACChannel(v), err
}

// DACMillivolts converts volts into the fixed-point value sent to the DAC.
// The firmware takes millivolts (volts * 1000, rounded).
func DACMillivolts(volts float64) (uint16, error) {
	if math.IsNaN(volts) || volts < 0 || volts > MaxDACVoltage {
		return 0, &RangeError{Operand: "voltage", Value: volts, Min: 0, Max: MaxDACVoltage}
	}
	mv := math.Round(volts * 1000)
	if mv > math.MaxUint16 {
		return 0, &RangeError{Operand: "voltage", Value: volts, Min: 0, Max: MaxDACVoltage}
	}
	return uint16(mv), nil
}

// DACCommand builds [dac, op, channel, mv_msb, mv_lsb]. ON and OFF ignore
// volts and send zero.
func DACCommand(dac DAC, op DACOperation, ch DACChannel, volts float64) (Command, error) {
	if err := dacNames.check("DAC", byte(dac)); err != nil {
		return Command{}, err
	}
	if err := dacOpNames.check("DAC operation", byte(op)); err != nil {
		return Command{}, err
	}
	if err := dacChNames.check("DAC channel", byte(ch)); err != nil {
		return Command{}, err
	}
	var mv uint16
	if op == DACLoad || op == DACLoadAndPowerUp {
		var err error
		if mv, err = DACMillivolts(volts); err != nil {
			return Command{}, err
		}
	}
	return Command{
		Module:  wire.ModuleDAC,
		Payload: []byte{byte(dac), byte(op), byte(ch), byte(mv >> 8), byte(mv)},
	}, nil
}

// DACSetVoltage loads the channel register without changing power state.
func DACSetVoltage(dac DAC, ch DACChannel, volts float64) (Command, error) {
	return DACCommand(dac, DACLoad, ch, volts)
}

// DACSetVoltageAndPowerUp loads the channel register and powers it up.
func DACSetVoltageAndPowerUp(dac DAC, ch DACChannel, volts float64) (Command, error) {
	return DACCommand(dac, DACLoadAndPowerUp, ch, volts)
}

// DACPowerUp powers up the channel.
func DACPowerUp(dac DAC, ch DACChannel) (Command, error) {
	return DACCommand(dac, DACOn, ch, 0)
}

// DACPowerDown powers down the channel.
func DACPowerDown(dac DAC, ch DACChannel) (Command, error) {
	return DACCommand(dac, DACOff, ch, 0)
}
