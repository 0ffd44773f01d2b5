// Package fetch downloads remote datasets over HTTP.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/preenlabs/preen/internal/logger"
)

// Content is a fetched remote file, body untouched so the loader can
// sniff its format.
type Content struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
	FetchedAt   time.Time
}

// Options controls fetching behavior.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent: "preen/1.0 (https://github.com/preenlabs/preen)",
		Timeout:   30 * time.Second,
	}
}

// Fetcher retrieves remote files.
type Fetcher struct {
	opts Options
}

// New creates a fetcher, filling unset options with defaults.
func New(opts Options) *Fetcher {
	def := DefaultOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = def.Timeout
	}
	return &Fetcher{opts: opts}
}

// Fetch downloads the file at target. A fresh collector per request
// keeps fetches independent.
func (f *Fetcher) Fetch(ctx context.Context, target string) (Content, error) {
	result := Content{
		URL:       target,
		FetchedAt: time.Now(),
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	c := colly.NewCollector(
		colly.UserAgent(f.opts.UserAgent),
	)
	c.SetRequestTimeout(f.opts.Timeout)

	if len(f.opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range f.opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.Body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	logger.Debug("fetching remote dataset", "url", target)
	if err := c.Visit(target); err != nil {
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	logger.Debug("fetched remote dataset",
		"url", target, "status", result.StatusCode, "bytes", len(result.Body))
	return result, nil
}

// IsURL reports whether s looks like a fetchable http(s) URL rather
// than a local path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
