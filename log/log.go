// Package log proxies to logrus behind an enabled flag, so records only go
// somewhere once a sink was configured.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/where"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// enabled gates every proxy below. console tracks whether stderr mirroring
// is already active.
var (
	enabled bool
	console bool
)

// Setup opens the per-day log file and applies the configured format and
// severity floor. With logs.write off, logging stays disabled and every
// record is dropped.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	file, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(file)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return nil
}

// EnableConsole mirrors log records to stderr, so non-interactive runs report
// their progress even when no log file is configured. The file sink, when one
// was set up, keeps receiving the same records.
func EnableConsole() {
	if console {
		return
	}
	console = true

	if enabled {
		logrus.SetOutput(io.MultiWriter(logrus.StandardLogger().Out, os.Stderr))
	} else {
		logrus.SetOutput(os.Stderr)
		enabled = true
	}
}

// EnableDebug lowers the severity floor to debug and mirrors records to
// stderr. Backs the --debug flag.
func EnableDebug() {
	EnableConsole()
	logrus.SetLevel(logrus.DebugLevel)
}

// The proxies below drop their records while logging is disabled.

func Panic(args ...any) {
	if enabled {
		logrus.Panic(args...)
	}
}
func Panicf(format string, args ...any) {
	if enabled {
		logrus.Panicf(format, args...)
	}
}
func Fatal(args ...any) {
	if enabled {
		logrus.Fatal(args...)
	}
}
func Fatalf(format string, args ...any) {
	if enabled {
		logrus.Fatalf(format, args...)
	}
}
func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...any) {
	if enabled {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
func Trace(args ...any) {
	if enabled {
		logrus.Trace(args...)
	}
}
func Tracef(format string, args ...any) {
	if enabled {
		logrus.Tracef(format, args...)
	}
}
