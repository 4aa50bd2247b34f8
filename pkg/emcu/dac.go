package emcu

import "github.com/robotalks/emcu.go/pkg/emcu/module"

// DACController controls the DACs.
type DACController struct {
	Session *Session
}

// SetVoltage loads the channel without changing its power state.
func (c *DACController) SetVoltage(dac module.DAC, ch module.DACChannel, volts float64) error {
	cmd, err := module.DACSetVoltage(dac, ch, volts)
	if err != nil {
		return err
	}
	return c.Session.Send(cmd)
}

// SetVoltageAndPowerUp loads the channel and powers it up.
func (c *DACController) SetVoltageAndPowerUp(dac module.DAC, ch module.DACChannel, volts float64) error {
	cmd, err := module.DACSetVoltageAndPowerUp(dac, ch, volts)
	if err != nil {
		return err
	}
	return c.Session.Send(cmd)
}

// PowerUp powers up the channel.
func (c *DACController) PowerUp(dac module.DAC, ch module.DACChannel) error {
	cmd, err := module.DACPowerUp(dac, ch)
	if err != nil {
		return err
	}
	return c.Session.Send(cmd)
}

// PowerDown powers down the channel.
func (c *DACController) PowerDown(dac module.DAC, ch module.DACChannel) error {
	cmd, err := module.DACPowerDown(dac, ch)
	if err != nil {
		return err
	}
	return c.Session.Send(cmd)
}

// DebugSendAndReceive loads and powers up the channel, then returns
// whatever the firmware prints back.
func (c *DACController) DebugSendAndReceive(dac module.DAC, ch module.DACChannel, volts float64) ([]byte, error) {
	cmd, err := module.DACSetVoltageAndPowerUp(dac, ch, volts)
	if err != nil {
		return nil, err
	}
	return c.Session.SendAndReceive(cmd)
}
