// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/emcu.go/pkg/cli/cmds/adc"
	_ "github.com/robotalks/emcu.go/pkg/cli/cmds/dac"
	_ "github.com/robotalks/emcu.go/pkg/cli/cmds/gpio"
	_ "github.com/robotalks/emcu.go/pkg/cli/cmds/pot"
	_ "github.com/robotalks/emcu.go/pkg/cli/cmds/raw"
)
