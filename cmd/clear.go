package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/util"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/cobra"
)

// clearTarget is one piece of stored state the command can wipe.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

// clearTargets lists the stored state eligible for cleanup.
var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"download history", "history", mo.None[string](), where.History},
	{"recent series", "recent", mo.None[string](), where.Recent},
	{"temp files", "temp", mo.Some("t"), where.Temp},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		clearCmd.Flags().BoolP(target.argLong, target.argShort.OrElse(""), false, "clear "+target.name)
	}
}

// clearCmd wipes the selected stored state.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and recorded application state",
	Run: func(cmd *cobra.Command, args []string) {
		var cleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			cleared = true
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Clock), util.Capitalize(target.name)))
			_ = util.Delete(target.location())
			erase()
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
			handleErr(filesystem.API().RemoveAll(target.location()))
		}

		if !cleared {
			handleErr(cmd.Help())
		}
	},
}
