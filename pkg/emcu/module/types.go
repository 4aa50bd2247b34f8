// Package module encodes commands for the EMCU modules.
//
// Builders are pure: they validate operands and produce the payload for
// one module. Framing and transmission belong to the session.
package module

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

// Command is a module command ready to be framed.
type Command struct {
	Module  wire.ModuleID
	Payload []byte
}

// String implements fmt.Stringer.
func (c Command) String() string {
	return fmt.Sprintf("%s[% x]", c.Module, c.Payload)
}

// RangeError indicates a numeric operand outside of what the module accepts.
type RangeError struct {
	Operand string
	Value   float64
	Min     float64
	Max     float64
}

// Error implements error.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %g out of range [%g, %g]", e.Operand, e.Value, e.Min, e.Max)
}

// UnknownValueError indicates an enumerated operand with no defined meaning.
type UnknownValueError struct {
	Kind  string
	Value string
}

// Error implements error.
func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s %s", e.Kind, e.Value)
}

// names maps enumerated byte values to their names.
type names map[byte]string

func (n names) name(kind string, v byte) string {
	if s, ok := n[v]; ok {
		return s
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func (n names) has(v byte) bool {
	_, ok := n[v]
	return ok
}

// parse accepts a name (case-insensitive) or a decimal value.
func (n names) parse(kind, s string) (byte, error) {
	for v, name := range n {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}
	if v, err := strconv.ParseUint(s, 10, 8); err == nil && n.has(byte(v)) {
		return byte(v), nil
	}
	return 0, &UnknownValueError{Kind: kind, Value: strconv.Quote(s)}
}

func (n names) check(kind string, v byte) error {
	if !n.has(v) {
		return &UnknownValueError{Kind: kind, Value: strconv.Itoa(int(v))}
	}
	return nil
}
