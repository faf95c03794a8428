package cmd

import (
	"os"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/extract"
	"github.com/sdl-cli/sdl/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractorsCmd)

	extractorsCmd.Flags().BoolP("raw", "r", false, "Suppress the header in the output")
	extractorsCmd.SetOut(os.Stdout)
}

// extractorsCmd lists the registered hosting-provider extractors.
var extractorsCmd = &cobra.Command{
	Use:   "extractors [filter]",
	Short: "List the hosting providers sdl can extract media from",
	Long: `List the registered extractors in the order the dispatcher tries them.
An argument narrows the listing by fuzzy match. The names are accepted by
the extractor flag and by the extractors.priority config key.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		names := extract.Names()
		if len(args) > 0 {
			names = fuzzy.FindFold(args[0], names)
		}

		if !lo.Must(cmd.Flags().GetBool("raw")) {
			cmd.Println(style.New().Foreground(color.HiBlue).Bold(true).Render("Extractors:"))
		}
		for _, name := range names {
			cmd.Println(name)
		}
	},
}
