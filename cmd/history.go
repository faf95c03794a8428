package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/history"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the records as a JSON array")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists the downloads recorded by previous runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the downloads recorded by previous runs",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println("Nothing downloaded yet.")
			return
		}

		for _, record := range records {
			cmd.Printf("%s %s\n", icon.Get(icon.Download), record)
			cmd.Printf("  %s\n", style.Faint(fmt.Sprintf(
				"%s, %s, %s",
				record.Path,
				humanize.IBytes(uint64(record.Size)),
				humanize.Time(record.FinishedAt),
			)))
		}
	},
}
