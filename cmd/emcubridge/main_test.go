package main

import (
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/emcu.go/pkg/emcu/env"
	"github.com/robotalks/emcu.go/pkg/emcu/link"
	"github.com/robotalks/emcu.go/pkg/emcu/sim"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

// closeRecorder is a simulated EMCU remembering whether it was closed.
type closeRecorder struct {
	*sim.Device

	lock   sync.Mutex
	closed bool
}

func (r *closeRecorder) Close() error {
	r.lock.Lock()
	r.closed = true
	r.lock.Unlock()
	return r.Device.Close()
}

func (r *closeRecorder) Closed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.closed
}

var opened []*closeRecorder

func init() {
	link.Register("recorded", func(*url.URL) (link.Link, error) {
		r := &closeRecorder{Device: sim.New(wire.NewCodec())}
		opened = append(opened, r)
		return r, nil
	})
}

func TestRunClosesLink(t *testing.T) {
	defer func(h, s string, n bool) { httpAddr, streamAddr, noMQTT = h, s, n }(httpAddr, streamAddr, noMQTT)

	testCases := []struct {
		name       string
		conf       env.Config
		streamAddr string
		noMQTT     bool
		err        string
	}{
		{"bad stream address", env.Config{Link: "recorded:"}, "bad-address", true, "bad-address"},
		{"device required", env.Config{Link: "recorded:"}, "", false, "-device is required"},
		{"device required with stream", env.Config{Link: "recorded:"}, "127.0.0.1:0", false, "-device is required"},
		{"nothing to serve", env.Config{Link: "recorded:"}, "", true, ""},
	}
	for _, tc := range testCases {
		httpAddr, streamAddr, noMQTT = "", tc.streamAddr, tc.noMQTT
		opened = nil
		err := run(&tc.conf)
		if tc.err != "" {
			require.Error(t, err, tc.name)
			assert.Contains(t, err.Error(), tc.err, tc.name)
		} else {
			assert.NoError(t, err, tc.name)
		}
		require.Len(t, opened, 1, tc.name)
		assert.True(t, opened[0].Closed(), tc.name)
	}
}

func TestRunRequiresLink(t *testing.T) {
	opened = nil
	err := run(&env.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-link is required")
	assert.Empty(t, opened)
}
