package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global structured logger. Production config when
// ENV=production, human-readable development config otherwise.
func Init() {
	once.Do(func() {
		var (
			l   *zap.Logger
			err error
		)
		if os.Getenv("ENV") == "production" {
			l, err = zap.NewProduction()
		} else {
			l, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		sugar = l.Sugar()
	})
}

// L returns the global logger instance.
func L() *zap.SugaredLogger {
	if sugar == nil {
		Init()
	}
	return sugar
}

// Sync flushes buffered log entries. Important in production to avoid
// losing entries on shutdown.
func Sync() {
	_ = L().Sync()
}

// Global shorthands to avoid repeating logger.L() at call sites.

// Info is a shorthand for L().Infow.
func Info(msg string, args ...any) {
	L().Infow(msg, args...)
}

// Warn is a shorthand for L().Warnw.
func Warn(msg string, args ...any) {
	L().Warnw(msg, args...)
}

// Error is a shorthand for L().Errorw.
func Error(msg string, args ...any) {
	L().Errorw(msg, args...)
}

// Debug is a shorthand for L().Debugw.
func Debug(msg string, args ...any) {
	L().Debugw(msg, args...)
}
