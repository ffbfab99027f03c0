package logger

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

func init() {
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "termosd",
	})

	// TERMOSD_LOG_LEVEL wins over the config file.
	if err := SetLevel(os.Getenv("TERMOSD_LOG_LEVEL")); err != nil {
		Logger.SetLevel(log.InfoLevel)
	}
}

// SetLevel sets the level from its name. An empty name selects info.
func SetLevel(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "":
		Logger.SetLevel(log.InfoLevel)
		return nil
	case "warning":
		level = "warn"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// EnvOverride reports whether TERMOSD_LOG_LEVEL is set.
func EnvOverride() bool {
	return os.Getenv("TERMOSD_LOG_LEVEL") != ""
}

func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

func Fatal(msg interface{}, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}
