package main

import (
	"github.com/robotalks/emcu.go/pkg/cli/sh"
	"github.com/robotalks/emcu.go/pkg/emcu/env"

	_ "github.com/robotalks/emcu.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
