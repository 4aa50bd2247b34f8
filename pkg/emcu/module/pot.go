package module

import "github.com/robotalks/emcu.go/pkg/emcu/wire"

// PotOperation is the operation applied to the digital potentiometer.
type PotOperation byte

// PotSet writes the wiper register.
const PotSet PotOperation = 0x00

// MaxWiper is the largest wiper value of the MCP401x.
const MaxWiper = 0x7f

// PotSetWiper builds [SET, resistance].
func PotSetWiper(resistance int) (Command, error) {
	if resistance < 0 || resistance > MaxWiper {
		return Command{}, &RangeError{Operand: "resistance", Value: float64(resistance), Min: 0, Max: MaxWiper}
	}
	return Command{
		Module:  wire.ModulePotentiometer,
		Payload: []byte{byte(PotSet), byte(resistance)},
	}, nil
}
