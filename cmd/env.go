package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/config"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/style"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Show only variables with a value")
	envCmd.Flags().BoolP("unset-only", "u", false, "Show only variables without a value")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envCmd lists the environment variables the application reads, with their
// current values.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the supported environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
		)

		names := make([]string, 0, len(config.EnvExposed)+1)
		names = append(names, where.EnvConfigPath)
		for _, key := range config.EnvExposed {
			names = append(names, strings.ToUpper(constant.Sdl+"_"+config.EnvKeyReplacer.Replace(key)))
		}
		slices.Sort(names)

		for _, name := range names {
			value, present := os.LookupEnv(name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(name))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
