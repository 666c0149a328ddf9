package thaumaturgy

import (
	"log/slog"

	"github.com/google/uuid"
)

// Option configures a Realm.
type Option func(*config)

type config struct {
	logger *slog.Logger
	unique func() string
}

func applyOptions(opts []Option) config {
	cfg := config{
		logger: slog.New(slog.DiscardHandler),
		unique: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger attaches a logger. Definitions, computed batches and persister
// calls are logged at debug level. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = slog.New(slog.DiscardHandler)
			return
		}
		cfg.logger = logger
	}
}

// WithUniqueGenerator replaces the UUID generator offered to manifesters as
// ManifestOptions.Unique. Passing nil keeps the default.
func WithUniqueGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.unique = fn
		}
	}
}
