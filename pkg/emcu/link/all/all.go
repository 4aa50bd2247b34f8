// Package all registers every link implementation.
package all

import (
	// bridged links.
	_ "github.com/robotalks/emcu.go/pkg/bridge/mqtt"
	_ "github.com/robotalks/emcu.go/pkg/bridge/stream"
	_ "github.com/robotalks/emcu.go/pkg/bridge/websocket"
	// local links.
	_ "github.com/robotalks/emcu.go/pkg/emcu/link/serial"
	_ "github.com/robotalks/emcu.go/pkg/emcu/link/stream"
	_ "github.com/robotalks/emcu.go/pkg/emcu/sim"
)
