package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/style"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// whereTarget is one resolvable application path and the flag selecting it.
type whereTarget struct {
	name     string
	where    func() string
	argLong  string
	argShort mo.Option[string]
	hidden   bool
}

// wherePaths lists every path the command can answer for. Hidden entries
// resolve through their flag but stay out of the overview.
var wherePaths = []*whereTarget{
	{"Downloads", downloadsDir, "downloads", mo.Some("d"), false},
	{"Config", where.Config, "config", mo.Some("c"), false},
	{"Logs", where.Logs, "logs", mo.Some("l"), false},
	{"Data", where.Data, "data", mo.None[string](), false},
	{"Cache", where.Cache, "cache", mo.None[string](), true},
	{"Temp", where.Temp, "temp", mo.None[string](), true},
	{"History", where.History, "history", mo.None[string](), true},
	{"Recent", where.Recent, "recent", mo.None[string](), true},
}

// downloadsDir resolves the configured download directory the way a run
// does: empty means the working directory.
func downloadsDir() string {
	if path := viper.GetString(key.DownloadsPath); path != "" {
		return path
	}
	return lo.Must(os.Getwd())
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, target := range wherePaths {
		whereCmd.Flags().BoolP(target.argLong, target.argShort.OrElse(""), false, target.name+" path")

		if target.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(target.argLong))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(wherePaths, func(t *whereTarget, _ int) string {
		return t.argLong
	})...)

	whereCmd.SetOut(os.Stdout)
}

// whereCmd prints where the application keeps its files.
var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the paths used for downloads, settings and state",
	Run: func(cmd *cobra.Command, args []string) {
		for _, target := range wherePaths {
			if lo.Must(cmd.Flags().GetBool(target.argLong)) {
				cmd.Println(target.where())
				return
			}
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render

		wherePaths = lo.Filter(wherePaths, func(t *whereTarget, _ int) bool {
			return !t.hidden
		})

		for i, target := range wherePaths {
			if target.hidden {
				continue
			}

			cmd.Printf("%s %s\n", header(target.name+"?"), style.Fg(color.Yellow)("--"+target.argLong))
			cmd.Println(target.where())

			if i < len(wherePaths)-1 {
				cmd.Println()
			}
		}
	},
}
