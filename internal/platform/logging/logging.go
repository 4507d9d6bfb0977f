// Package logging builds the process logger.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/eco7/eco7-api/internal/platform/config"
)

// New returns a logger writing to stdout, or to a rotating file when cfg.File is set.
// The returned closer must be called on shutdown.
func New(cfg config.LogConfig) (*log.Logger, io.Closer) {
	var out io.WriteCloser = nopCloser{os.Stdout}
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}
	return log.New(out, "", log.LstdFlags|log.LUTC|log.Lmicroseconds), out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
