package pot

import (
	"fmt"
	"strconv"

	"github.com/robotalks/emcu.go/pkg/cli/sh"
	"github.com/robotalks/emcu.go/pkg/emcu"
)

// Set writes the wiper: VALUE(0-127).
func Set(drv *emcu.Driver, args []string) ([]byte, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("VALUE required")
	}
	val, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid VALUE: %w", err)
	}
	return nil, drv.Pot.SetWiper(val)
}

func init() {
	sh.AddCmds(sh.DriverCmd("pot.set", []string{"pset"}, "VALUE(0-127)", Set))
}
