package gpio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/emcu.go/pkg/emcu"
	"github.com/robotalks/emcu.go/pkg/emcu/module"
	"github.com/robotalks/emcu.go/pkg/emcu/sim"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

func TestCommands(t *testing.T) {
	dev := sim.New(wire.NewCodec())
	drv := emcu.NewDriver(emcu.NewSession(dev))

	_, err := Set(drv, []string{"C_EXT_CTRL0", "SET"})
	require.NoError(t, err)
	assert.Equal(t, module.PinSet, dev.Pin(module.PinCExtCtrl0))
	frames := dev.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{1, 12, 1}, frames[0].Payload)

	_, err = Set(drv, []string{"12", "0"})
	require.NoError(t, err)
	assert.Equal(t, module.PinReset, dev.Pin(module.PinCExtCtrl0))

	_, err = Set(drv, []string{"C_EXT_CTRL9", "SET"})
	assert.Error(t, err)
	_, err = Set(drv, []string{"C_EXT_CTRL0", "HIGH"})
	assert.Error(t, err)
	_, err = Set(drv, []string{"C_EXT_CTRL0"})
	assert.Error(t, err)

	out, err := Pins(drv, nil)
	require.NoError(t, err)
	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 18)
	assert.Equal(t, "12 C_EXT_CTRL0", lines[12])
}
