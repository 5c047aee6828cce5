// Package logging builds the zap loggers used by the ccc binaries. Library
// packages never log.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Encoding selects the log line format.
type Encoding string

const (
	Console Encoding = "console"
	JSON    Encoding = "json"
)

type Config struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string
	// Format is console (default) or json.
	Format Encoding
	// Writer receives encoded entries. Defaults to os.Stderr.
	Writer io.Writer
	// Name is attached to every entry when set.
	Name string
}

// ParseLevel maps a config level onto a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return l, fmt.Errorf("logging: invalid level %q", s)
	}
	switch l {
	case zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel:
		return l, nil
	}
	return l, fmt.Errorf("logging: invalid level %q", s)
}

// New returns a logger writing to c.Writer at c.Level.
func New(c Config) (*zap.Logger, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch c.Format {
	case "", Console:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encoderConfig)
	case JSON:
		enc = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("logging: invalid format %q", c.Format)
	}

	w := c.Writer
	if w == nil {
		w = os.Stderr
	}
	var sink zapcore.WriteSyncer
	switch t := w.(type) {
	case *os.File:
		sink = zapcore.Lock(t)
	case zapcore.WriteSyncer:
		sink = t
	default:
		sink = zapcore.AddSync(w)
	}

	logger := zap.New(zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level)))
	if c.Name != "" {
		logger = logger.Named(c.Name)
	}
	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }
