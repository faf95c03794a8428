// Package main is the entry point for the sdl application.
package main

import (
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/cmd"
	"github.com/sdl-cli/sdl/config"
	"github.com/sdl-cli/sdl/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
