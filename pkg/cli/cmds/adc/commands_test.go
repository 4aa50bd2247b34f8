package adc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/emcu.go/pkg/emcu"
	"github.com/robotalks/emcu.go/pkg/emcu/module"
	"github.com/robotalks/emcu.go/pkg/emcu/sim"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

func TestRead(t *testing.T) {
	dev := sim.New(wire.NewCodec())
	dev.SetADC(module.ADCPSCurrent, 1234)
	s := emcu.NewSession(dev)
	s.SettleDelay = 0
	drv := emcu.NewDriver(s)

	reply, err := Read(drv, []string{"PS_Current_A2D"})
	require.NoError(t, err)
	assert.Equal(t, "ADC 9 1234\n", string(reply))

	reply, err = Read(drv, []string{"99"})
	require.NoError(t, err)
	assert.Contains(t, string(reply), "ADC ALL ")

	_, err = Read(drv, []string{"12"})
	assert.Error(t, err)
	_, err = Read(drv, nil)
	assert.Error(t, err)
}
