package helpers

import (
	// Go Internal Packages
	"os"

	// External Packages
	_ "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
)

// NewLogger builds the logfmt production logger shared by every command
func NewLogger(level, service string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(level))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = service
	cfg.OutputPaths = []string{"stdout"}
	return cfg.Build()
}

// CriticalLogger returns the channel CRITICAL failures are written to.
func CriticalLogger(logger *zap.Logger) *zap.Logger {
	return logger.Named("critical").With(zap.String("severity", "CRITICAL"))
}
