package event

import "log/slog"

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	logger *slog.Logger
}

func defaultBusConfig() busConfig {
	return busConfig{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used to report handler failures.
func WithLogger(l *slog.Logger) BusOption {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
