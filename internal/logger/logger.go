// Package logger holds spark's global logger. Output goes to a rotating file
// beside the database and, with --debug, to stderr as well.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/dailyspark/internal/constants"
)

var (
	// Logger is nil until Init; the helpers below are no-ops until then.
	Logger *log.Logger

	logFile string
	rotator *lumberjack.Logger
)

type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the default file level ("debug", "info", "warn",
	// "error"). Debug forces debug.
	Level string
}

func (c Config) level() (log.Level, error) {
	if c.Debug {
		return log.DebugLevel, nil
	}
	name := c.Level
	if name == "" {
		name = constants.DefaultLogLevel
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.WarnLevel, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

// Init opens <ConfigDir>/logs/spark.log and installs the global logger.
func Init(cfg Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, constants.LogDirName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	Close()
	logFile = filepath.Join(logDir, constants.LogFileName)
	rotator = &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   true,
	}

	var writer io.Writer = rotator
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, rotator)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// Close flushes the log file and drops the global logger.
func Close() error {
	Logger = nil
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

// LogFile returns the path of the active log file, or "" before Init.
func LogFile() string {
	return logFile
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits with status 1.
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
