package gpio

import (
	"fmt"
	"strings"

	"github.com/robotalks/emcu.go/pkg/cli/sh"
	"github.com/robotalks/emcu.go/pkg/emcu"
	"github.com/robotalks/emcu.go/pkg/emcu/module"
)

// Set drives a pin: PIN SET|RESET.
func Set(drv *emcu.Driver, args []string) ([]byte, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("PIN and STATE required")
	}
	pin, err := module.ParsePin(args[0])
	if err != nil {
		return nil, err
	}
	state, err := module.ParsePinState(args[1])
	if err != nil {
		return nil, err
	}
	return nil, drv.GPIO.Control(pin, state)
}

// Pins lists the pin names.
func Pins(*emcu.Driver, []string) ([]byte, error) {
	names := make([]string, 0, len(module.Pins()))
	for _, pin := range module.Pins() {
		names = append(names, fmt.Sprintf("%2d %s", pin, pin))
	}
	return []byte(strings.Join(names, "\n")), nil
}

func init() {
	sh.AddCmds(
		sh.DriverCmd("gpio.set", []string{"gset"}, "PIN SET|RESET", Set),
		sh.DriverCmd("gpio.pins", nil, "", Pins),
	)
}
