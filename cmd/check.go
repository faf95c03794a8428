package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/sdl-cli/sdl/browser"
	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/ffmpeg"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

// checkCmd reports the external tools a download run would use.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the availability of the external tools sdl relies on",
	Long: `Report where ffmpeg and a browser were found, and what a run falls back
to when they are missing. Neither tool is required up front: ffmpeg can be
fetched on the first remux, and the browser is only launched for pages that
need JavaScript.`,
	Run: func(cmd *cobra.Command, args []string) {
		if path, ok := ffmpeg.Installed(); ok {
			cmd.Printf("%s ffmpeg\t%s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
		} else if viper.GetBool(key.FfmpegAutoFetch) {
			cmd.Printf("%s ffmpeg\t%s\n", style.Fg(color.Yellow)(icon.Get(icon.Clock)), "not found, a static build is fetched on the first remux")
		} else {
			printMissingTool("ffmpeg")
		}

		if path, ok := browser.Found(); ok {
			cmd.Printf("%s browser\t%s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
		} else {
			cmd.Printf("%s browser\t%s\n", style.Fg(color.Yellow)(icon.Get(icon.Clock)), "not found, a managed build is downloaded when a page needs JavaScript")
		}
	},
}

func printMissingTool(tool string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install " + tool
	case constant.Linux:
		installCmd = "sudo apt install " + tool
	case constant.Windows:
		installCmd = "scoop install " + tool
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Red).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.Red).Render(fmt.Sprintf("%s Missing tool", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found in your PATH, and fetching it automatically is disabled.", tool))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
