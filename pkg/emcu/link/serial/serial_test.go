package serial

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

type fakePort struct {
	serial.Port
	in     *bytes.Buffer
	out    bytes.Buffer
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.in.Len() == 0 {
		// go.bug.st/serial reports a read timeout as 0 bytes, nil error.
		return 0, nil
	}
	return p.in.Read(b)
}

func (p *fakePort) Write(b []byte) (int, error) { return p.out.Write(b) }

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestLink(t *testing.T) {
	port := &fakePort{in: bytes.NewBufferString("ADC 1 100\nrest")}
	l := New(port, "fake")
	require.True(t, l.IsOpen())

	n, err := l.Write([]byte{0x56, 0x45})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x56, 0x45}, port.out.Bytes())

	line, err := l.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "ADC 1 100\n", string(line))

	line, err = l.ReadUntil('\n')
	assert.Equal(t, link.ErrTimeout, err)
	assert.Equal(t, "rest", string(line))

	require.NoError(t, l.Close())
	assert.True(t, port.closed)
	assert.False(t, l.IsOpen())
	require.NoError(t, l.Close())

	_, err = l.Write([]byte{1})
	assert.Equal(t, link.ErrClosed, err)
	_, err = l.ReadUntil('\n')
	assert.Equal(t, link.ErrClosed, err)
}

func TestOpenURLValidation(t *testing.T) {
	testCases := []struct {
		name string
		url  string
	}{
		{"no device", "serial://"},
		{"bad baud", "serial:///dev/null?baud=fast"},
		{"zero baud", "serial:///dev/null?baud=0"},
		{"bad timeout", "serial:///dev/null?timeout=soon"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := url.Parse(tc.url)
			require.NoError(t, err)
			_, err = OpenURL(u)
			assert.Error(t, err)
		})
	}
}
