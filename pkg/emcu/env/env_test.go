package env

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/emcu.go/pkg/emcu/module"
	"github.com/robotalks/emcu.go/pkg/emcu/sim"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "emcu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCodec(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		window string
		expect *wire.Codec
		fail   bool
	}{
		{"defaults", "5645", "", &wire.Codec{Header: []byte{0x56, 0x45}, Window: wire.WindowHeaderAndLength}, false},
		{"header window", "aa", "header", &wire.Codec{Header: []byte{0xaa}, Window: wire.WindowHeader}, false},
		{"bad header", "5g", "", nil, true},
		{"bad window", "5645", "payload", nil, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := NewConfig()
			conf.Header, conf.ChecksumWindow = tc.header, tc.window
			codec, err := conf.Codec()
			if tc.fail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, codec)
		})
	}
}

func TestLinkURL(t *testing.T) {
	conf := NewConfig()
	conf.Link, conf.Device = "", ""
	_, err := conf.LinkURL()
	assert.Error(t, err)

	conf.MQTTURL, conf.Device = "mqtt://broker:1883/emcu/", "bench1"
	u, err := conf.LinkURL()
	require.NoError(t, err)
	assert.Equal(t, "mqtt://broker:1883/emcu/?device=bench1", u)

	conf.Link = "sim:"
	u, err = conf.LinkURL()
	require.NoError(t, err)
	assert.Equal(t, "sim:", u)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
link: serial:///dev/ttyACM0?baud=115200
header: "5645"
checksum_window: header
settle_delay: 250ms
verify_replies: true
device: bench2
`)
	conf := NewConfig()
	require.NoError(t, conf.LoadFile(path))
	assert.Equal(t, "serial:///dev/ttyACM0?baud=115200", conf.Link)
	assert.Equal(t, "header", conf.ChecksumWindow)
	assert.Equal(t, 250*time.Millisecond, conf.SettleDelay)
	assert.True(t, conf.VerifyReplies)
	assert.Equal(t, "bench2", conf.Device)

	s, err := conf.NewSession()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, s.SettleDelay)
	assert.True(t, s.VerifyReplies)
	assert.Equal(t, wire.WindowHeader, s.Codec.Window)
	assert.False(t, s.Connected())

	assert.Error(t, conf.LoadFile(writeFile(t, "settle_delay: [")))
	assert.Error(t, conf.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestLoadKeepsExplicitFlags(t *testing.T) {
	saved := defaultConfig
	defer func() { defaultConfig = saved }()
	if flag.Lookup("settle") == nil {
		SetupFlags()
	}
	require.NoError(t, flag.Set("settle", "2s"))
	defer flag.Set("settle", saved.SettleDelay.String())

	defaultConfig.ConfigFile = writeFile(t, "link: 'sim:'\nsettle_delay: 1s\n")
	conf, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sim:", conf.Link)
	assert.Equal(t, 2*time.Second, conf.SettleDelay)
}

func TestConnect(t *testing.T) {
	conf := NewConfig()
	conf.Link = "sim:?ack=false"
	conf.SettleDelay = 0
	drv, err := conf.Connect()
	require.NoError(t, err)
	defer drv.Close()
	require.True(t, drv.Connected())

	dev, ok := drv.Link().(*sim.Device)
	require.True(t, ok)
	require.NoError(t, drv.GPIO.Control(module.PinVCOEn, module.PinSet))
	assert.Equal(t, module.PinSet, dev.Pin(module.PinVCOEn))

	conf.Link = "nowhere://x"
	_, err = conf.Connect()
	assert.Error(t, err)
}
