package emcu

import (
	"errors"

	"github.com/robotalks/emcu.go/pkg/emcu/link"
)

var (
	// ErrNotConnected indicates the session has no open link.
	ErrNotConnected = errors.New("not connected")
	// ErrTimeout indicates the EMCU did not reply in time.
	ErrTimeout = link.ErrTimeout
)
