// Package logging builds the process zap logger from configuration and
// installs it into the bridge packages.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/config"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/runtime"
	"github.com/wippyai/wasm-bridge/transfer"
)

// New builds a logger from c. Outputs are "stdout", "stderr" or file paths;
// file outputs rotate through lumberjack when rotation is enabled.
// The caller should defer logger.Sync().
func New(c config.LogConfig) (*zap.Logger, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	encCfg := encoderConfig(c.Development)
	var encoder zapcore.Encoder
	if strings.EqualFold(c.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := make([]zapcore.Core, 0, len(c.Outputs))
	for _, out := range c.Outputs {
		ws, err := sink(out, c.Rotation)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, ws, level))
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	}
	if c.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

// ParseLevel maps a configured level name to a zap level.
func ParseLevel(s string) (zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		level.SetLevel(zap.DebugLevel)
	case "", "info":
		level.SetLevel(zap.InfoLevel)
	case "warn", "warning":
		level.SetLevel(zap.WarnLevel)
	case "error":
		level.SetLevel(zap.ErrorLevel)
	default:
		return level, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("log", "level").
			Detail("unknown log level %q", s).
			Build()
	}
	return level, nil
}

// Install makes l the logger of every bridge package and the zap globals.
// It returns a func restoring the previous globals.
func Install(l *zap.Logger) (restore func()) {
	transfer.SetLogger(l.Named("transfer"))
	bridge.SetLogger(l.Named("bridge"))
	runtime.SetLogger(l.Named("runtime"))
	undo := zap.ReplaceGlobals(l)
	undoStd := zap.RedirectStdLog(l)
	return func() {
		undoStd()
		undo()
	}
}

func sink(out string, rot config.RotationConfig) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(out) {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}

	if rot.Enable {
		name := out
		if strings.TrimSpace(rot.Filename) != "" {
			name = rot.Filename
		}
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   name,
			MaxSize:    max(rot.MaxSizeMB, 10),
			MaxBackups: max(rot.MaxBackups, 1),
			MaxAge:     max(rot.MaxAgeDays, 7),
			Compress:   rot.Compress,
		}), nil
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "create log directory")
		}
	}
	f, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "open log output")
	}
	return zapcore.AddSync(f), nil
}

func encoderConfig(dev bool) zapcore.EncoderConfig {
	if dev {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
