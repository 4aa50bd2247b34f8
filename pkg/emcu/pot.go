package emcu

import "github.com/robotalks/emcu.go/pkg/emcu/module"

// PotController controls the digital potentiometer.
type PotController struct {
	Session *Session
}

// SetWiper writes the wiper register, 0 to 127.
func (c *PotController) SetWiper(resistance int) error {
	cmd, err := module.PotSetWiper(resistance)
	if err != nil {
		return err
	}
	return c.Session.Send(cmd)
}
