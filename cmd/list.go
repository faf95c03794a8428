package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/browser"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/inline"
	"github.com/sdl-cli/sdl/recent"
	"github.com/sdl-cli/sdl/site"
	"github.com/sdl-cli/sdl/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("json", "j", false, "Format the listing as a JSON object")
	listCmd.Flags().BoolP("variants", "V", false, "Fetch every episode page and list its language variants and hosters")
	listCmd.Flags().Bool("schema", false, "Print the JSON schema of the listing output and exit")
	listCmd.Flags().StringP("output", "o", "", "Write the listing to a file instead of stdout")

	listCmd.SetOut(os.Stdout)
}

// listCmd enumerates a series without downloading anything, for scripting.
var listCmd = &cobra.Command{
	Use:   "list [url]",
	Short: "List the seasons and episodes of a series without downloading",
	Long: `Enumerate a series, season or episode URL into its seasons and episodes.
With the variants flag every episode page is fetched too, listing the
language variants and hosters it offers. The json output shape is described
by the schema flag.`,
	Example: "  sdl list https://aniworld.to/anime/stream/demon-slayer --json",
	Args:    cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return recent.Suggest(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			printListSchema()
			return
		}

		if len(args) == 0 {
			handleErr(errors.New("a series, season or episode URL is required"))
		}
		ref, err := site.ParseURL(args[0])
		handleErr(err)

		var out io.Writer = cmd.OutOrStdout()
		if path := lo.Must(cmd.Flags().GetString("output")); path != "" {
			file, err := filesystem.API().Create(path)
			handleErr(err)
			defer util.Ignore(file.Close)
			out = file
		}

		ctx, stop := runContext()
		defer stop()
		defer browser.Shutdown()

		handleErr(inline.Run(ctx, &inline.Options{
			Out:      out,
			Ref:      ref,
			Json:     lo.Must(cmd.Flags().GetBool("json")),
			Variants: lo.Must(cmd.Flags().GetBool("variants")),
		}))
	},
}

// printListSchema emits the JSON schema describing the json listing shape.
func printListSchema() {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "output", "season", "episode", "variant", "hoster":
			return filepath.Base(t.PkgPath()) + "." + name
		}

		return name
	}

	schema := reflector.Reflect(&inline.Output{})
	handleErr(json.NewEncoder(os.Stdout).Encode(schema))
}
