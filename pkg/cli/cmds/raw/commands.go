package raw

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/robotalks/emcu.go/pkg/cli/sh"
	"github.com/robotalks/emcu.go/pkg/emcu"
	"github.com/robotalks/emcu.go/pkg/emcu/module"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

func parse(args []string) (module.Command, error) {
	if len(args) < 2 {
		return module.Command{}, fmt.Errorf("MODULE and PAYLOAD required")
	}
	id, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return module.Command{}, fmt.Errorf("invalid MODULE: %w", err)
	}
	payload, err := hex.DecodeString(args[1])
	if err != nil {
		return module.Command{}, fmt.Errorf("invalid PAYLOAD: %w", err)
	}
	return module.Command{Module: wire.ModuleID(id), Payload: payload}, nil
}

// Send sends an arbitrary payload: MODULE HEX-PAYLOAD.
func Send(drv *emcu.Driver, args []string) ([]byte, error) {
	cmd, err := parse(args)
	if err != nil {
		return nil, err
	}
	return nil, drv.Send(cmd)
}

// SendAndReceive sends an arbitrary payload and reads the reply.
func SendAndReceive(drv *emcu.Driver, args []string) ([]byte, error) {
	cmd, err := parse(args)
	if err != nil {
		return nil, err
	}
	return drv.SendAndReceive(cmd)
}

// Receive reads one reply.
func Receive(drv *emcu.Driver, _ []string) ([]byte, error) {
	return drv.Receive()
}

func init() {
	sh.AddCmds(
		sh.DriverCmd("raw", nil, "MODULE HEX-PAYLOAD", Send),
		sh.DriverCmd("raw.rr", nil, "MODULE HEX-PAYLOAD", SendAndReceive),
		sh.DriverCmd("recv", nil, "", Receive),
	)
}
