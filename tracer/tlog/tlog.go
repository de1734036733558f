// Package tlog provides the structured logger of the tracer.
// The tracer lives inside the traced process, so the default output is stderr.
package tlog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	m            sync.RWMutex
	globalLogger zerolog.Logger
)

type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"`
	TimeFormat string `json:"time_format" yaml:"time_format"`
}

func init() {
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init replaces the global logger.
// Output accepts "stderr" (default), "stdout", "discard" or a file path.
func Init(config Config) error {
	var output io.Writer
	switch config.Output {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	case "discard":
		output = io.Discard
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		output = f
	}

	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return err
		}
	}
	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	SetLogger(zerolog.New(output).Level(level).With().Timestamp().Logger())
	return nil
}

// SetLogger replaces the global logger. Tests use it to capture output.
func SetLogger(l zerolog.Logger) {
	m.Lock()
	globalLogger = l
	m.Unlock()
}

func GetLogger() zerolog.Logger {
	m.RLock()
	defer m.RUnlock()
	return globalLogger
}

func Debug() *zerolog.Event {
	l := GetLogger()
	return l.Debug()
}

func Info() *zerolog.Event {
	l := GetLogger()
	return l.Info()
}

func Warn() *zerolog.Event {
	l := GetLogger()
	return l.Warn()
}

func Error() *zerolog.Event {
	l := GetLogger()
	return l.Error()
}

func WithComponent(component string) zerolog.Logger {
	return GetLogger().With().Str("component", component).Logger()
}
