package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger: human-readable in dev, JSON in prod.
func New(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
