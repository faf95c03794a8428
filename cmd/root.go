// Package cmd implements the sdl command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/extract"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/recent"
	"github.com/sdl-cli/sdl/style"
	"github.com/sdl-cli/sdl/util"
	"github.com/sdl-cli/sdl/version"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.Flags().StringP("type", "t", "", "Narrow the language variant by type: dub, sub or raw")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"dub", "sub", "raw"}, cobra.ShellCompDirectiveNoFileComp
	}))

	rootCmd.Flags().StringP("language", "l", "", "Narrow the language variant by language: german or english")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("language", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"german", "english"}, cobra.ShellCompDirectiveNoFileComp
	}))

	rootCmd.Flags().StringP("episodes", "e", "", `Episodes to download from one season: "all", "5" or "1-4,7"`)
	rootCmd.Flags().StringP("seasons", "s", "", `Whole seasons to download: "all", "2" or "1-3"`)
	rootCmd.MarkFlagsMutuallyExclusive("episodes", "seasons")

	rootCmd.Flags().BoolP("direct", "u", false, "Treat the URL as a hoster embed link and download just it")
	rootCmd.Flags().StringP("extractor", "x", "", "Resolve a direct URL with this extractor instead of matching by host")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("extractor", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return extract.Names(), cobra.ShellCompDirectiveNoFileComp
	}))
	rootCmd.MarkFlagsMutuallyExclusive("direct", "type")
	rootCmd.MarkFlagsMutuallyExclusive("direct", "language")
	rootCmd.MarkFlagsMutuallyExclusive("direct", "episodes")
	rootCmd.MarkFlagsMutuallyExclusive("direct", "seasons")

	rootCmd.Flags().StringP("path", "p", "", "Directory to download into")
	lo.Must0(viper.BindPFlag(key.DownloadsPath, rootCmd.Flags().Lookup("path")))

	rootCmd.Flags().IntP("concurrency", "n", 0, "Episodes downloaded at once (0 = all at once)")
	lo.Must0(viper.BindPFlag(key.DownloadsConcurrency, rootCmd.Flags().Lookup("concurrency")))

	rootCmd.Flags().Int64P("rate-limit", "r", 0, "Bytes per second shared by every download (0 = unlimited)")
	lo.Must0(viper.BindPFlag(key.DownloadsRateLimit, rootCmd.Flags().Lookup("rate-limit")))

	rootCmd.Flags().Int("retries", 0, "Attempts per episode before giving up (0 = keep trying)")
	lo.Must0(viper.BindPFlag(key.DownloadsRetries, rootCmd.Flags().Lookup("retries")))

	rootCmd.Flags().Bool("skip-existing", true, "Skip episodes whose file already exists")
	lo.Must0(viper.BindPFlag(key.DownloadsSkipExisting, rootCmd.Flags().Lookup("skip-existing")))

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("debug", false, "Log debug records to stderr")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the sdl application.
var rootCmd = &cobra.Command{
	Use:   constant.Sdl + " [url]",
	Short: "A command-line downloader for streaming-site episodes",
	Long: constant.Logo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A command-line downloader for streaming-site episodes"),
	Example: `  sdl https://aniworld.to/anime/stream/demon-slayer -s all
  sdl https://s.to/serie/stream/breaking-bad/staffel-2 -e 1-4,7 -t sub
  sdl -u https://voe.sx/e/abc123`,
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return recent.Suggest(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("debug")) {
			log.EnableDebug()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, nil)
			return
		}

		download(cmd, args)
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
