// Package utils provides utility functions for the application.
package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions controls where application logs go and how log files rotate
type LoggerOptions struct {
	Output     string // stdout, file, both
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// SetupLogger points the standard logger at the configured destination.
// File output rotates via lumberjack. Returns a closer for the file sink.
func SetupLogger(opts LoggerOptions) io.Closer {
	var rotator *lumberjack.Logger

	switch opts.Output {
	case "file", "both":
		rotator = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
	}

	switch {
	case rotator != nil && opts.Output == "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	case rotator != nil:
		log.SetOutput(rotator)
	default:
		log.SetOutput(os.Stdout)
	}

	log.SetFlags(log.LstdFlags | log.LUTC | log.Lmicroseconds)

	if rotator != nil {
		return rotator
	}
	return io.NopCloser(nil)
}
