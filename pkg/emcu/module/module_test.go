package module

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

func TestDACCommand(t *testing.T) {
	testCases := []struct {
		name    string
		dac     DAC
		op      DACOperation
		ch      DACChannel
		volts   float64
		payload []byte
	}{
		{"load and power up 2.2V", DAC2, DACLoadAndPowerUp, DACCh1, 2.2, []byte{2, 0, 0, 0x08, 0x98}},
		{"load 1.5V", DAC1, DACLoad, DACCh3, 1.5, []byte{1, 1, 2, 0x05, 0xdc}},
		{"load all channels 0V", DAC1, DACLoad, DACChAll, 0, []byte{1, 1, 15, 0, 0}},
		{"on zeroes voltage", DAC1, DACOn, DACCh2, 3.3, []byte{1, 2, 1, 0, 0}},
		{"off zeroes voltage", DAC2, DACOff, DACCh4, 3.3, []byte{2, 3, 3, 0, 0}},
		{"max voltage", DAC1, DACLoad, DACCh1, MaxDACVoltage, []byte{1, 1, 0, 0xff, 0xff}},
		{"rounds to nearest millivolt", DAC1, DACLoad, DACCh1, 0.0015, []byte{1, 1, 0, 0, 2}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := DACCommand(tc.dac, tc.op, tc.ch, tc.volts)
			require.NoError(t, err)
			assert.Equal(t, wire.ModuleDAC, cmd.Module)
			assert.Equal(t, tc.payload, cmd.Payload)
		})
	}
}

func TestDACCommandRejects(t *testing.T) {
	testCases := []struct {
		name  string
		dac   DAC
		op    DACOperation
		ch    DACChannel
		volts float64
		rng   bool
	}{
		{"negative voltage", DAC1, DACLoad, DACCh1, -0.1, true},
		{"voltage overflow", DAC1, DACLoad, DACCh1, 65.536, true},
		{"NaN voltage", DAC1, DACLoadAndPowerUp, DACCh1, math.NaN(), true},
		{"unknown dac", DAC(3), DACLoad, DACCh1, 1, false},
		{"unknown operation", DAC1, DACOperation(4), DACCh1, 1, false},
		{"unknown channel", DAC1, DACLoad, DACChannel(4), 1, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DACCommand(tc.dac, tc.op, tc.ch, tc.volts)
			require.Error(t, err)
			var rangeErr *RangeError
			var unknownErr *UnknownValueError
			if tc.rng {
				assert.True(t, errors.As(err, &rangeErr))
			} else {
				assert.True(t, errors.As(err, &unknownErr))
			}
		})
	}
}

func TestDACMillivolts(t *testing.T) {
	mv, err := DACMillivolts(2.2)
	require.NoError(t, err)
	assert.EqualValues(t, 2200, mv)
	// 1 LSB is 1mV, not 10mV.
	mv, err = DACMillivolts(0.01)
	require.NoError(t, err)
	assert.EqualValues(t, 10, mv)
	// 1.001 * 1000 is 1000.9999999999999 in float64.
	mv, err = DACMillivolts(1.001)
	require.NoError(t, err)
	assert.EqualValues(t, 1001, mv)
}

func TestDACHelpers(t *testing.T) {
	cmd, err := DACSetVoltage(DAC1, DACCh2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 1, 0x03, 0xe8}, cmd.Payload)
	cmd, err = DACSetVoltageAndPowerUp(DAC2, DACChAll, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 15, 0x03, 0xe8}, cmd.Payload)
	cmd, err = DACPowerUp(DAC1, DACCh1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 0, 0, 0}, cmd.Payload)
	cmd, err = DACPowerDown(DAC1, DACCh1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 3, 0, 0, 0}, cmd.Payload)
}

func TestGPIOCommand(t *testing.T) {
	cmd, err := GPIOWrite(PinCExtCtrl0, PinSet)
	require.NoError(t, err)
	assert.Equal(t, wire.ModuleGPIO, cmd.Module)
	assert.Equal(t, []byte{1, 12, 1}, cmd.Payload)

	cmd, err = GPIOCommand(DirectionRead, PinVCOBufferEn, PinReset)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 17, 0}, cmd.Payload)

	_, err = GPIOWrite(Pin(18), PinSet)
	assert.Error(t, err)
	_, err = GPIOWrite(PinVCOEn, PinState(2))
	assert.Error(t, err)
	_, err = GPIOCommand(Direction(2), PinVCOEn, PinSet)
	assert.Error(t, err)
}

func TestGPIOCommandFrame(t *testing.T) {
	cmd, err := GPIOWrite(PinCExtCtrl0, PinSet)
	require.NoError(t, err)
	b, err := wire.NewCodec().Encode(cmd.Module, cmd.Payload)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x56, 0x45, 0x00, 0x03, 0x01, 0x01, 0x0c, 0x01, 0x43, 0x88, 0xad, 0xd4}, b)
}

func TestPins(t *testing.T) {
	pins := Pins()
	require.Len(t, pins, 18)
	for i, p := range pins {
		assert.EqualValues(t, i, p)
		parsed, err := ParsePin(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestPotSetWiper(t *testing.T) {
	cmd, err := PotSetWiper(127)
	require.NoError(t, err)
	assert.Equal(t, wire.ModulePotentiometer, cmd.Module)
	assert.Equal(t, []byte{0x00, 0x7f}, cmd.Payload)

	cmd, err = PotSetWiper(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00}, cmd.Payload)

	for _, v := range []int{-1, 128, 255} {
		_, err := PotSetWiper(v)
		var rangeErr *RangeError
		require.True(t, errors.As(err, &rangeErr), "value %d", v)
		assert.EqualValues(t, v, rangeErr.Value)
	}
}

func TestADCRead(t *testing.T) {
	cmd, err := ADCRead(ADCAll)
	require.NoError(t, err)
	assert.Equal(t, wire.ModuleADC, cmd.Module)
	assert.Equal(t, []byte{99}, cmd.Payload)
	b, err := wire.NewCodec().Encode(cmd.Module, cmd.Payload)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01}, b[2:4])

	chs := ADCChannels()
	require.Len(t, chs, 11)
	for i, ch := range chs {
		cmd, err := ADCRead(ch)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, cmd.Payload)
	}

	_, err = ADCRead(ADCChannel(11))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	pin, err := ParsePin("c_ext_ctrl0")
	require.NoError(t, err)
	assert.Equal(t, PinCExtCtrl0, pin)
	pin, err = ParsePin("17")
	require.NoError(t, err)
	assert.Equal(t, PinVCOBufferEn, pin)
	_, err = ParsePin("18")
	assert.Error(t, err)
	_, err = ParsePin("NOPE")
	assert.Error(t, err)

	state, err := ParsePinState("set")
	require.NoError(t, err)
	assert.Equal(t, PinSet, state)
	state, err = ParsePinState("0")
	require.NoError(t, err)
	assert.Equal(t, PinReset, state)

	dac, err := ParseDAC("dac2")
	require.NoError(t, err)
	assert.Equal(t, DAC2, dac)
	op, err := ParseDACOperation("LOAD_AND_POWER_UP")
	require.NoError(t, err)
	assert.Equal(t, DACLoadAndPowerUp, op)
	ch, err := ParseDACChannel("all")
	require.NoError(t, err)
	assert.Equal(t, DACChAll, ch)

	adc, err := ParseADCChannel("ADC_ALL")
	require.NoError(t, err)
	assert.Equal(t, ADCAll, adc)
	adc, err = ParseADCChannel("ntc")
	require.NoError(t, err)
	assert.Equal(t, ADCNTC, adc)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "C_EXT_CTRL0", PinCExtCtrl0.String())
	assert.Equal(t, "PIN(42)", Pin(42).String())
	assert.Equal(t, "ADC_ALL", ADCAll.String())
	assert.Equal(t, "LOAD_AND_POWER_UP", DACLoadAndPowerUp.String())
	assert.Equal(t, "GPIO[01 0c 01]", Command{Module: wire.ModuleGPIO, Payload: []byte{1, 12, 1}}.String())
}
