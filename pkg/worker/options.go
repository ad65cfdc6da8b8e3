// Package worker executes queued jobs: input validation, tier-aware module
// resolution, pipeline dispatch, and state commits back to the queue.
package worker

import (
	"log/slog"
	"time"

	"github.com/jrusco/local-pdf/pkg/core"
	"github.com/jrusco/local-pdf/pkg/tier"
)

// Option configures a Worker.
type Option interface {
	ApplyWorker(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) ApplyWorker(c *Config) { f(c) }

// Config holds worker configuration.
type Config struct {
	// PoolSize is the number of concurrent job executors. The default of 1
	// mirrors a single-document-at-a-time memory budget.
	PoolSize     int
	PollInterval time.Duration
	AdvancedWait time.Duration
	Logger       *slog.Logger
}

// PoolSize sets the executor pool size, clamped to [1, MaxPoolSize].
func PoolSize(n int) Option {
	return optionFunc(func(c *Config) {
		c.PoolSize = core.ClampPoolSize(n)
	})
}

// PollInterval sets how often the dispatcher checks the queue.
func PollInterval(d time.Duration) Option {
	return optionFunc(func(c *Config) {
		c.PollInterval = d
	})
}

// AdvancedWait bounds how long a compress job waits for the native module
// before falling back to the lightweight tier.
func AdvancedWait(d time.Duration) Option {
	return optionFunc(func(c *Config) {
		c.AdvancedWait = d
	})
}

// Logger sets the structured logger.
func Logger(l *slog.Logger) Option {
	return optionFunc(func(c *Config) {
		c.Logger = l
	})
}

func defaultConfig() Config {
	return Config{
		PoolSize:     1,
		PollInterval: 50 * time.Millisecond,
		AdvancedWait: tier.DefaultAdvancedWait,
		Logger:       slog.Default(),
	}
}
