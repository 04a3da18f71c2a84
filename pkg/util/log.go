package util

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Command paths log through WithDevice
// and WithCommand so every line names its device.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(textFormatter())
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

// ConfigureLogging applies the CLI logging flags. The level is warn, or
// debug when verbose; format is "text" (default) or "json".
func ConfigureLogging(verbose bool, format string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := SetLogLevel(level); err != nil {
		return err
	}
	switch format {
	case "", "text":
		Logger.SetFormatter(textFormatter())
	case "json":
		SetJSONFormat()
	default:
		return fmt.Errorf("%w: unknown log format '%s' (text, json)", ErrInvalidConfig, format)
	}
	return nil
}

// SetLogLevel sets the logging level by name ("debug", "warn", ...).
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// SetLogOutput redirects log output.
func SetLogOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// SetJSONFormat switches to one JSON object per line.
func SetJSONFormat() {
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
}

func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithDevice returns an entry tagged with the device ID.
func WithDevice(device string) *logrus.Entry {
	return Logger.WithField("device", device)
}

// WithCommand returns an entry tagged with the device ID and command text.
func WithCommand(device, command string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{
		"device":  device,
		"command": command,
	})
}

func Debugf(format string, args ...interface{}) { Logger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { Logger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Logger.Errorf(format, args...) }
