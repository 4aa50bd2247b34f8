package stream

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/emcu.go/pkg/bridge"
	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

func TestReadWriter(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte{1, 2, 3}))
	require.NoError(t, rw.WritePacket(nil))
	assert.Equal(t, []byte{3, 0, 0, 0, 1, 2, 3, 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	assert.Empty(t, pkt)
	_, err = rw.ReadPacket()
	assert.Error(t, err)

	buf.Write([]byte{0xff, 0xff, 0xff, 0xff})
	_, err = rw.ReadPacket()
	assert.Error(t, err)
}

type echoLink struct {
	last []byte
}

func (l *echoLink) Write(p []byte) (int, error) {
	l.last = append(append([]byte(nil), p...), '\n')
	return len(p), nil
}

func (l *echoLink) ReadUntil(byte) ([]byte, error) {
	if l.last == nil {
		return nil, link.ErrTimeout
	}
	out := l.last
	l.last = nil
	return out, nil
}

func (l *echoLink) IsOpen() bool { return true }
func (l *echoLink) Close() error { return nil }

func TestServeAndDial(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Serve(ctx, ln, bridge.NewServer(&echoLink{}))

	l, err := link.Open("bridge://" + ln.Addr().String())
	require.NoError(t, err)
	defer l.Close()
	_, err = l.Write([]byte("ping"))
	require.NoError(t, err)
	line, err := l.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "ping\n", string(line))
	assert.True(t, l.IsOpen())
}
