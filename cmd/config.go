package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/config"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/style"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd groups the subcommands working on the settings file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change the settings",
}

// configPath returns the location of the TOML settings file.
func configPath() string {
	return filepath.Join(where.Config(), constant.Sdl+".toml")
}

// errUnknownKey suggests the closest defined key for a typo.
func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)
}

// keyArgument resolves the key from the positional argument or the --key
// flag, whichever was given.
func keyArgument(cmd *cobra.Command, args []string) string {
	if len(args) >= 1 {
		return args[0]
	}

	if key, _ := cmd.Flags().GetString("key"); key != "" {
		return key
	}

	handleErr(errors.New("key is required, either as an argument or --key"))
	return ""
}

// mustBeDefined stops with a suggestion when the key is not registered.
func mustBeDefined(key string) {
	if _, ok := config.Default[key]; !ok {
		handleErr(errUnknownKey(key))
	}
}

// persist writes the in-memory settings back, creating the file on first use.
func persist() {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}
}

func completionConfigKeys(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configGetCmd prints the current value of one key.
var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a key",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		key := keyArgument(cmd, args)
		mustBeDefined(key)
		fmt.Println(viper.Get(key))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringSliceP("value", "v", nil, "Value to assign to the key")
}

// configSetCmd assigns a new value to a key. The raw input is coerced to
// the type of the key's default.
var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Assign a new value to a key",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		key := keyArgument(cmd, args)
		mustBeDefined(key)

		var value []string
		if len(args) >= 2 {
			value = args[1:]
		} else if flagValue := lo.Must(cmd.Flags().GetStringSlice("value")); len(flagValue) > 0 {
			value = flagValue
		} else {
			handleErr(errors.New("value is required, either as an argument or --value"))
		}

		var v any
		switch config.Default[key].Value.(type) {
		case string:
			v = value[0]
		case int:
			parsed, err := strconv.ParseInt(value[0], 10, 64)
			if err != nil {
				handleErr(fmt.Errorf("invalid integer value: %s", value[0]))
			}
			v = int(parsed)
		case bool:
			parsed, err := strconv.ParseBool(value[0])
			if err != nil {
				handleErr(fmt.Errorf("invalid boolean value: %s", value[0]))
			}
			v = parsed
		case []string:
			v = value
		}

		viper.Set(key, v)
		persist()

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key at once")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configResetCmd puts keys back to their defaults.
var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore a key to its default value",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			key = lo.Must(cmd.Flags().GetString("key"))
			all = lo.Must(cmd.Flags().GetBool("all"))
		)

		switch {
		case all:
			for key, field := range config.Default {
				viper.Set(key, field.Value)
			}
		case key == "":
			handleErr(errors.New("either --key or --all must be set"))
		default:
			mustBeDefined(key)
			viper.Set(key, config.Default[key].Value)
		}

		persist()

		if all {
			fmt.Printf("%s reset every key\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		fmt.Printf(
			"%s reset %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", config.Default[key].Value)),
		)
	},
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Limit the listing to these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print the fields as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd describes the defined keys with their defaults and current
// values.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the defined keys",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))

		fields := lo.Values(config.Default)
		if len(keys) > 0 {
			fields = fields[:0]
			for _, key := range keys {
				mustBeDefined(key)
				fields = append(fields, config.Default[key])
			}
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i, field := range fields {
			fmt.Print(field.Pretty())
			if i < len(fields)-1 {
				fmt.Print("\n\n")
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing file")
}

// configWriteCmd materializes the current settings as a TOML file.
var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings out as a TOML file",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(filesystem.API().Remove(configPath()))
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf(
			"%s wrote config to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			configPath(),
		)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

// configDeleteCmd removes the settings file.
var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the settings file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configPath()))
		fmt.Printf("%s deleted config\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
