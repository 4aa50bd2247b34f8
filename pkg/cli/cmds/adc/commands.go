package adc

import (
	"fmt"

	"github.com/robotalks/emcu.go/pkg/cli/sh"
	"github.com/robotalks/emcu.go/pkg/emcu"
	"github.com/robotalks/emcu.go/pkg/emcu/module"
)

// Read reads a channel: CHANNEL|ADC_ALL.
func Read(drv *emcu.Driver, args []string) ([]byte, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("CHANNEL required")
	}
	ch, err := module.ParseADCChannel(args[0])
	if err != nil {
		return nil, err
	}
	return drv.ADC.Read(ch)
}

func init() {
	sh.AddCmds(sh.DriverCmd("adc.read", []string{"ar"}, "CHANNEL|ADC_ALL", Read))
}
