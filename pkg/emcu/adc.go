package emcu

import "github.com/robotalks/emcu.go/pkg/emcu/module"

// ADCController reads the ADCs.
type ADCController struct {
	Session *Session
}

// Read requests a conversion and returns the raw reply. ADCAll reads every
// channel in one reply.
func (c *ADCController) Read(ch module.ADCChannel) ([]byte, error) {
	cmd, err := module.ADCRead(ch)
	if err != nil {
		return nil, err
	}
	return c.Session.SendAndReceive(cmd)
}
