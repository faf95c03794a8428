package version

import (
	"fmt"

	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/style"
	"github.com/sdl-cli/sdl/util"
	"github.com/spf13/viper"
)

// Notify prints a short banner when a newer release has been published.
// It does nothing unless cli.version_check is enabled, and stays quiet
// when the check itself fails.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a newer version...", icon.Get(icon.Clock)))
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/sdl-cli/sdl/releases/tag/v"+latest),
	)
}
