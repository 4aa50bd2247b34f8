package emcu

import "github.com/robotalks/emcu.go/pkg/emcu/module"

// GPIOController controls the GPIOs.
type GPIOController struct {
	Session *Session
}

// Control drives pin to state.
func (c *GPIOController) Control(pin module.Pin, state module.PinState) error {
	return c.ControlWith(module.DirectionWrite, pin, state)
}

// ControlWith sends a GPIO command with an explicit direction.
func (c *GPIOController) ControlWith(dir module.Direction, pin module.Pin, state module.PinState) error {
	cmd, err := module.GPIOCommand(dir, pin, state)
	if err != nil {
		return err
	}
	return c.Session.Send(cmd)
}
