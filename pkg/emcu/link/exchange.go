package link

import (
	"time"

	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

// Exchange is a write followed by reading one reply.
type Exchange struct {
	Data []byte
	// Settle is the wait between writing Data and reading the reply.
	Settle time.Duration
	Delim  byte
	// Codec reads the reply as a frame followed by Delim when set.
	Codec *wire.Codec
}

// Exchanger is implemented by links which are shared with other users,
// so a write and the read of its reply must be done as one operation.
type Exchanger interface {
	Exchange(x Exchange) ([]byte, error)
}
