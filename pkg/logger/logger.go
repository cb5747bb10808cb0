package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Get returns the process-wide zap logger. LOG_LEVEL=debug switches to the
// development config.
func Get() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if os.Getenv("LOG_LEVEL") == "debug" {
			cfg = zap.NewDevelopmentConfig()
		}
		cfg.OutputPaths = []string{"stdout"}
		logger, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		instance = logger
	})
	return instance
}
