package dac

import (
	"fmt"
	"strconv"

	"github.com/robotalks/emcu.go/pkg/cli/sh"
	"github.com/robotalks/emcu.go/pkg/emcu"
	"github.com/robotalks/emcu.go/pkg/emcu/module"
)

func parseTarget(args []string, withVolts bool) (dac module.DAC, ch module.DACChannel, volts float64, err error) {
	want := 2
	if withVolts {
		want = 3
	}
	if len(args) < want {
		err = fmt.Errorf("DAC and CHANNEL required")
		if withVolts {
			err = fmt.Errorf("DAC, CHANNEL and VOLTS required")
		}
		return
	}
	if dac, err = module.ParseDAC(args[0]); err != nil {
		return
	}
	if ch, err = module.ParseDACChannel(args[1]); err != nil {
		return
	}
	if withVolts {
		if volts, err = strconv.ParseFloat(args[2], 64); err != nil {
			err = fmt.Errorf("invalid VOLTS: %w", err)
		}
	}
	return
}

// Set loads a channel: DAC CHANNEL VOLTS.
func Set(drv *emcu.Driver, args []string) ([]byte, error) {
	dac, ch, volts, err := parseTarget(args, true)
	if err != nil {
		return nil, err
	}
	return nil, drv.DAC.SetVoltage(dac, ch, volts)
}

// SetAndPowerUp loads and powers up a channel: DAC CHANNEL VOLTS.
func SetAndPowerUp(drv *emcu.Driver, args []string) ([]byte, error) {
	dac, ch, volts, err := parseTarget(args, true)
	if err != nil {
		return nil, err
	}
	return nil, drv.DAC.SetVoltageAndPowerUp(dac, ch, volts)
}

// On powers up a channel: DAC CHANNEL.
func On(drv *emcu.Driver, args []string) ([]byte, error) {
	dac, ch, _, err := parseTarget(args, false)
	if err != nil {
		return nil, err
	}
	return nil, drv.DAC.PowerUp(dac, ch)
}

// Off powers down a channel: DAC CHANNEL.
func Off(drv *emcu.Driver, args []string) ([]byte, error) {
	dac, ch, _, err := parseTarget(args, false)
	if err != nil {
		return nil, err
	}
	return nil, drv.DAC.PowerDown(dac, ch)
}

// Debug loads and powers up a channel and reads the reply.
func Debug(drv *emcu.Driver, args []string) ([]byte, error) {
	dac, ch, volts, err := parseTarget(args, true)
	if err != nil {
		return nil, err
	}
	return drv.DAC.DebugSendAndReceive(dac, ch, volts)
}

func init() {
	sh.AddCmds(
		sh.DriverCmd("dac.set", []string{"dset"}, "DAC1|DAC2 CH1..CH4|ALL VOLTS", Set),
		sh.DriverCmd("dac.up", []string{"dup"}, "DAC1|DAC2 CH1..CH4|ALL VOLTS", SetAndPowerUp),
		sh.DriverCmd("dac.on", nil, "DAC1|DAC2 CH1..CH4|ALL", On),
		sh.DriverCmd("dac.off", nil, "DAC1|DAC2 CH1..CH4|ALL", Off),
		sh.DriverCmd("dac.debug", nil, "DAC1|DAC2 CH1..CH4|ALL VOLTS", Debug),
	)
}
