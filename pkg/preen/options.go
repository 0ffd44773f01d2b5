// Package preen provides the public API for cleaning tabular datasets
// and narrating the result.
package preen

import (
	"time"

	"github.com/preenlabs/preen/pkg/llm"
	"github.com/preenlabs/preen/pkg/profile"
)

// Config holds all Preen configuration.
type Config struct {
	// Profile describes the cleaning pipeline; nil means the default
	// five stages.
	Profile *profile.Profile

	// Enhancement settings. Enhance turns on LLM expansion of short
	// stories; Provider etc. select the backend.
	Enhance  bool
	Provider string
	Model    string
	APIKey   string
	BaseURL  string

	// LLM injects a ready-made provider, overriding Provider/Model/
	// APIKey/BaseURL.
	LLM llm.Provider

	// Observer, if set, sees every LLM call.
	Observer llm.Observer

	// Loader settings.
	Delimiter rune
	Sheet     string
	ExtraNA   []string

	// Fetch settings for remote inputs.
	UserAgent string
	Timeout   time.Duration

	// Concurrency bounds CleanMany's worker pool.
	Concurrency int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		Concurrency: 3,
	}
}

// Option configures Preen.
type Option func(*Config)

// WithProfile sets the cleaning profile.
func WithProfile(p *profile.Profile) Option {
	return func(c *Config) {
		c.Profile = p
	}
}

// WithEnhancement enables LLM enhancement of generated stories.
func WithEnhancement(enabled bool) Option {
	return func(c *Config) {
		c.Enhance = enabled
	}
}

// WithProvider sets the LLM provider name.
func WithProvider(provider string) Option {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithModel sets the LLM model.
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the LLM API key.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets a custom LLM API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithLLMProvider injects a ready-made provider.
func WithLLMProvider(p llm.Provider) Option {
	return func(c *Config) {
		c.LLM = p
	}
}

// WithObserver registers an observer for LLM calls.
func WithObserver(obs llm.Observer) Option {
	return func(c *Config) {
		c.Observer = obs
	}
}

// WithDelimiter sets the CSV field delimiter for inputs.
func WithDelimiter(d rune) Option {
	return func(c *Config) {
		c.Delimiter = d
	}
}

// WithSheet selects the Excel sheet to read.
func WithSheet(name string) Option {
	return func(c *Config) {
		c.Sheet = name
	}
}

// WithExtraNA adds input-specific missing-value markers.
func WithExtraNA(values ...string) Option {
	return func(c *Config) {
		c.ExtraNA = append(c.ExtraNA, values...)
	}
}

// WithUserAgent sets the HTTP user agent for remote inputs.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the remote-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithConcurrency sets the CleanMany worker bound.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}
