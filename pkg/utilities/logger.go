package utilities

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string
	Dev   bool
	// Dir enables combined.log and error.log sinks under this directory. Empty keeps stdout only.
	Dir    string
	MaxAge time.Duration
}

// ConfigFromEnv reads logger config from env vars.
func ConfigFromEnv() Config {
	dev := os.Getenv("LOG_DEV") == "1"
	lvl := os.Getenv("LOG_LEVEL")
	if lvl == "" {
		if dev {
			lvl = "debug"
		} else {
			lvl = "info"
		}
	}
	return Config{Level: lvl, Dev: dev, Dir: os.Getenv("LOG_DIR"), MaxAge: 14 * 24 * time.Hour}
}

func levelFromString(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init builds the process logger. Stdout is always a sink; file sinks are added when cfg.Dir is set.
func Init(cfg Config) (*zap.Logger, error) {
	lvl := levelFromString(cfg.Level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEnc := zapcore.NewJSONEncoder(encoderCfg)

	var console zapcore.Core
	if cfg.Dev {
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		console = zapcore.NewCore(zapcore.NewConsoleEncoder(devCfg), zapcore.AddSync(os.Stdout), lvl)
	} else {
		console = zapcore.NewCore(jsonEnc, zapcore.AddSync(os.Stdout), lvl)
	}
	cores := []zapcore.Core{console}

	if cfg.Dir != "" {
		combined, err := rotatingWriter(cfg.Dir, "combined", cfg.MaxAge)
		if err != nil {
			return nil, err
		}
		errorsOnly, err := rotatingWriter(cfg.Dir, "error", cfg.MaxAge)
		if err != nil {
			return nil, err
		}
		cores = append(cores,
			zapcore.NewCore(jsonEnc, combined, lvl),
			zapcore.NewCore(jsonEnc, errorsOnly, zapcore.ErrorLevel),
		)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Dev {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

// rotatingWriter writes to <dir>/<name>.YYYYMMDD.log and keeps <dir>/<name>.log linked to the current file.
func rotatingWriter(dir, name string, maxAge time.Duration) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	if maxAge <= 0 {
		maxAge = 14 * 24 * time.Hour
	}
	rl, err := rotatelogs.New(
		filepath.Join(dir, name+".%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, name+".log")),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(maxAge),
	)
	if err != nil {
		return nil, fmt.Errorf("rotatelogs %s: %w", name, err)
	}
	return zapcore.AddSync(rl), nil
}
