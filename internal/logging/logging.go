// Package logging is the stage-tagged log sink shared by the configuration
// store, the command registry and the lifecycle orchestrator. Records are
// structured zap entries carrying a "stage" field.
package logging

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aridcore/internal/version"
)

// Stage names the part of the bot's life a record was emitted from.
type Stage int

const (
	PreInit Stage = iota + 1
	Init
	PostInit
	CommandCall
	FileUtil
	Shutdown
	Configuration
)

var stageNames = map[Stage]string{
	PreInit:       "Pre-Initialization",
	Init:          "Initialization",
	PostInit:      "Post-Initialization",
	CommandCall:   "Command Call",
	FileUtil:      "File Operations",
	Shutdown:      "Shut Down",
	Configuration: "Configuration Usage",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Logger wraps a zap logger. A nil *Logger discards everything.
type Logger struct {
	z *zap.Logger
}

// New builds a console logger named name at the given level
// ("debug", "info", "warn", "error").
func New(name, level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{z: z.Named(name)}, nil
}

// FromZap adapts an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{z: z}
}

// Nop returns a logger that writes nothing.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Debug(stage Stage, msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.z.Debug(msg, append(fields, zap.Stringer("stage", stage))...)
}

func (l *Logger) Info(stage Stage, msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.z.Info(msg, append(fields, zap.Stringer("stage", stage))...)
}

func (l *Logger) Warn(stage Stage, msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.z.Warn(msg, append(fields, zap.Stringer("stage", stage))...)
}

func (l *Logger) Error(stage Stage, msg string, err error, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.z.Error(msg, append(fields, zap.Stringer("stage", stage), zap.Error(err))...)
}

// With returns a child logger that adds fields to every record.
func (l *Logger) With(fields ...zap.Field) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{z: l.z.With(fields...)}
}

// Sync flushes buffered records.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.z.Sync()
}

const banner = `
    _          _     _  ____
   / \   _ __ (_) __| |/ ___|___  _ __ ___
  / _ \ | '__|| |/ _' | |   / _ \| '__/ _ \
 / ___ \| |   | | (_| | |__| (_) | | |  __/
/_/   \_\_|   |_|\__,_|\____\___/|_|  \___|
`

// Welcome prints the startup banner to w.
func Welcome(w io.Writer) {
	color.New(color.FgRed, color.Bold).Fprint(w, banner+"\n")
	color.New(color.FgHiBlack).Fprintf(w, "\t%s %s\n\n", version.AppName, version.String())
}
