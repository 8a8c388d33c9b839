package stache

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	maxDepth     int
	strictLookup bool
	partials     PartialResolver
	logger       *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxDepth:     DefaultMaxDepth,
		strictLookup: false,
		partials:     nil,
		logger:       nil,
	}
}

// WithMaxDepth sets the maximum nested expansion depth for partials and
// parents.
// Default: 256
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithStrictLookup makes failed name lookups surface as errors instead
// of rendering empty. Inverted sections still treat an absent name as
// their rendering condition.
// Default: false
func WithStrictLookup(strict bool) Option {
	return func(c *engineConfig) {
		c.strictLookup = strict
	}
}

// WithPartials sets the default partial resolver used by templates
// parsed from this engine.
// Default: nil (every partial renders empty)
func WithPartials(partials PartialResolver) Option {
	return func(c *engineConfig) {
		c.partials = partials
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
