package logging

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

// New builds the root logger. An empty level defaults to info.
func New(level string, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "pairvote",
		Level:  lvl,
		Output: w,
	})
}

// Resolve guarantees a non-nil logger for component constructors.
func Resolve(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
