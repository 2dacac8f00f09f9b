package logger

import (
	"os"
	"skillswap/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is a no-op until InitLogger or InitConsole runs.
var Log = zap.NewNop()

// Level backs every core built here, so SetLevel applies to a running logger.
var Level = zap.NewAtomicLevelAt(zap.InfoLevel)

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func InitLogger(cfg *config.Config) {
	SetLevel(cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		Level.SetLevel(zap.DebugLevel)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig()),
			zapcore.AddSync(os.Stdout),
			Level,
		),
	}

	if cfg.Log.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig()),
			fileWriter,
			Level,
		))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// InitConsole sets up a stderr-only logger for command line tools.
func InitConsole(verbose bool) {
	Level.SetLevel(zap.WarnLevel)
	if verbose {
		Level.SetLevel(zap.DebugLevel)
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(os.Stderr),
		Level,
	)
	Log = zap.New(core)
}

// SetLevel parses a level name; unknown names leave the level unchanged.
func SetLevel(name string) {
	if name == "" {
		return
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return
	}
	Level.SetLevel(lvl)
}
