// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "SDL_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It prioritizes the XDG_CONFIG_HOME specification on Linux and equivalent user profile paths on Darwin and Windows.
// Direct override: The path resolution can be explicitly specified via the SDL_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Sdl))
}

// Cache resolves the absolute path to the application's persistent cache directory.
// Compliance: Adheres to the XDG_CACHE_HOME specification or platform-specific equivalent.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		// Fallback: Revert to a localized cache directory if the system-provided path is inaccessible.
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Sdl))
}

// Data resolves the absolute path to the directory for durable application artifacts,
// such as a locally provisioned ffmpeg binary.
// When no user-level data directory is available it falls back to a directory next to the executable.
func Data() string {
	if base, err := userDataDir(); err == nil {
		return ensureDir(filepath.Join(base, constant.Sdl))
	}

	exe, err := os.Executable()
	if err != nil {
		return ensureDir(filepath.Join(".", constant.Sdl+"-data"))
	}
	return ensureDir(filepath.Join(filepath.Dir(exe), constant.Sdl+"-data"))
}

// userDataDir returns the platform-specific base directory for user application data.
func userDataDir() (string, error) {
	switch runtime.GOOS {
	case constant.Windows, constant.Darwin:
		// AppData\Roaming and ~/Library/Application Support double as data directories.
		return os.UserConfigDir()
	default:
		if xdg, ok := os.LookupEnv("XDG_DATA_HOME"); ok && xdg != "" {
			return xdg, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// Logs resolves the absolute path to the directory used for application diagnostic and audit logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the absolute path to the localized download history persistence file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Recent resolves the absolute path to the localized series URL suggestion registry.
func Recent() string {
	return filepath.Join(Cache(), "recent.json")
}

// Temp resolves a unique, volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Sdl))
}
