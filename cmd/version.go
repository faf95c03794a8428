package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/style"
	"github.com/sdl-cli/sdl/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print the bare version string")
}

// versionCmd prints the running release and its build metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		info := struct {
			App      string
			Version  string
			Revision string
			BuiltAt  string
			BuiltBy  string
			OS       string
			Arch     string
			Go       string
		}{
			App:      constant.Sdl,
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			Go:       runtime.Version(),
		}

		t := lo.Must(template.New("version").Funcs(template.FuncMap{
			"faint":  style.Faint,
			"bold":   style.Bold,
			"purple": style.Fg(color.Purple),
		}).Parse(`{{ purple "▇▇▇" }} {{ purple .App }}

  {{ faint "Version" }}   {{ bold .Version }}
  {{ faint "Commit" }}    {{ bold .Revision }}
  {{ faint "Built" }}     {{ bold .BuiltAt }} {{ faint "by" }} {{ bold .BuiltBy }}
  {{ faint "Platform" }}  {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Go" }}        {{ bold .Go }}
`))
		handleErr(t.Execute(cmd.OutOrStdout(), info))
	},
}
