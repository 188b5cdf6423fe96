package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the active file under AppConfig.LogPath; lumberjack rotates it.
const LogFileName = "bus-booking.log"

// InitLogger writes to a rotated file and to stdout. Debug switches to console
// encoding at debug level; every entry carries the app name.
func InitLogger(config AppConfig) (*zap.Logger, error) {
	if config.LogPath != "" {
		if err := os.MkdirAll(config.LogPath, 0o755); err != nil {
			return nil, err
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	level := zap.InfoLevel
	if config.Debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		level = zap.DebugLevel
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.CallerKey = "caller"
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	// the file always gets JSON so it stays machine readable
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(config.LogPath, LogFileName),
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		}),
		level,
	)

	stdoutEncoder := zapcore.NewJSONEncoder(encoderConfig)
	if config.Debug {
		stdoutEncoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	stdoutCore := zapcore.NewCore(stdoutEncoder, zapcore.Lock(os.Stdout), level)

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	}
	if config.Name != "" {
		opts = append(opts, zap.Fields(zap.String("app", config.Name)))
	}
	if config.Debug {
		opts = append(opts, zap.Development())
	}

	return zap.New(zapcore.NewTee(fileCore, stdoutCore), opts...), nil
}
