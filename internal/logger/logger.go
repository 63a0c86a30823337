package logger

import (
	"go.uber.org/zap"
)

// New returns a production logger unless the app runs in a development
// environment, where human-readable output is more useful.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
