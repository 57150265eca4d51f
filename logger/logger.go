package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	log  *zap.Logger
	once sync.Once
)

func instance() *zap.Logger {
	once.Do(func() {
		var err error
		if os.Getenv("ENV") == "production" {
			log, err = zap.NewProduction()
		} else {
			log, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
	})
	return log
}

// Flushes buffered entries, call before shutdown.
func Sync() {
	instance().Sync()
}

func Debug(msg string, fields ...zap.Field) {
	instance().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	instance().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	instance().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	instance().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	instance().Fatal(msg, fields...)
}
