// Package config wires the settings registry into viper: defaults, the TOML
// file under the config directory, and environment overrides.
package config

import (
	"errors"
	"strings"

	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps settings keys onto their environment variable form.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, environment bindings and the settings file. A
// missing file is not an error; every key then keeps its default.
func Setup() error {
	viper.SetConfigName(constant.Sdl)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Sdl)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}
