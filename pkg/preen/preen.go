package preen

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/preenlabs/preen/internal/fetch"
	"github.com/preenlabs/preen/internal/loader"
	"github.com/preenlabs/preen/internal/logger"
	"github.com/preenlabs/preen/pkg/cleaner"
	"github.com/preenlabs/preen/pkg/dataset"
	"github.com/preenlabs/preen/pkg/llm"
	"github.com/preenlabs/preen/pkg/report"
)

// Version returns the module version consumers pulled via go get
// (e.g., "v1.0.0"). Returns "(devel)" when built from source without
// version info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// Result is the outcome of cleaning one input source.
type Result struct {
	Source        string
	Dataset       *dataset.Dataset
	Audit         *cleaner.Audit
	LoadDuration  time.Duration
	CleanDuration time.Duration

	// Error is set on CleanMany results when a source failed; the
	// other fields are zero in that case.
	Error error
}

// Preen is the main entry point for dataset cleaning.
type Preen struct {
	loader   *loader.Loader
	fetcher  *fetch.Fetcher
	enhancer *report.Enhancer
	config   Config
}

// New creates a new Preen instance.
func New(opts ...Option) (*Preen, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var loadOpts []loader.Option
	if cfg.Delimiter != 0 {
		loadOpts = append(loadOpts, loader.WithDelimiter(cfg.Delimiter))
	}
	if cfg.Sheet != "" {
		loadOpts = append(loadOpts, loader.WithSheet(cfg.Sheet))
	}
	if len(cfg.ExtraNA) > 0 {
		loadOpts = append(loadOpts, loader.WithExtraNA(cfg.ExtraNA...))
	}

	p := &Preen{
		loader: loader.New(loadOpts...),
		fetcher: fetch.New(fetch.Options{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		}),
		config: cfg,
	}

	if cfg.Enhance {
		provider, err := buildProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		p.enhancer = report.NewEnhancer(llm.Observe(provider, cfg.Observer))
	}

	return p, nil
}

// buildProvider resolves the enhancement backend: an injected
// provider wins, then the configured name, then env-based detection.
func buildProvider(cfg Config) (llm.Provider, error) {
	if cfg.LLM != nil {
		return cfg.LLM, nil
	}

	name, apiKey := cfg.Provider, cfg.APIKey
	if name == "" {
		var detected string
		name, detected = llm.DetectProvider()
		if apiKey == "" {
			apiKey = detected
		}
		logger.Debug("auto-detected LLM provider", "provider", name)
	}

	pcfg := llm.DefaultProviderConfig()
	pcfg.APIKey = apiKey
	pcfg.Model = cfg.Model
	pcfg.BaseURL = cfg.BaseURL
	return llm.NewProvider(name, pcfg)
}

// Clean runs the pipeline over an in-memory dataset. The dataset is
// mutated in place; pass ds.Clone() if the original must survive.
func (p *Preen) Clean(ds *dataset.Dataset) (*dataset.Dataset, *cleaner.Audit, error) {
	return p.config.Profile.Pipeline().Run(ds)
}

// CleanBytes loads a dataset from an in-memory file and cleans it.
// Format is a loader format name ("csv", "json", "xlsx", "html") or
// empty to sniff.
func (p *Preen) CleanBytes(data []byte, format string) (*Result, error) {
	loadStart := time.Now()
	ds, err := p.loader.LoadBytes(data, loader.Format(format))
	if err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}
	loadDuration := time.Since(loadStart)

	cleanStart := time.Now()
	ds, audit, err := p.Clean(ds)
	if err != nil {
		return nil, fmt.Errorf("clean failed: %w", err)
	}

	return &Result{
		Dataset:       ds,
		Audit:         audit,
		LoadDuration:  loadDuration,
		CleanDuration: time.Since(cleanStart),
	}, nil
}

// CleanFile loads a dataset from a local file and cleans it.
func (p *Preen) CleanFile(path string) (*Result, error) {
	loadStart := time.Now()
	ds, err := p.loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}
	loadDuration := time.Since(loadStart)

	cleanStart := time.Now()
	ds, audit, err := p.Clean(ds)
	if err != nil {
		return nil, fmt.Errorf("clean failed: %w", err)
	}

	return &Result{
		Source:        path,
		Dataset:       ds,
		Audit:         audit,
		LoadDuration:  loadDuration,
		CleanDuration: time.Since(cleanStart),
	}, nil
}

// CleanURL fetches a remote dataset and cleans it.
func (p *Preen) CleanURL(ctx context.Context, url string) (*Result, error) {
	loadStart := time.Now()
	content, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	ds, err := p.loader.LoadBytes(content.Body, loader.Detect(url, content.ContentType, content.Body))
	if err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}
	loadDuration := time.Since(loadStart)

	cleanStart := time.Now()
	ds, audit, err := p.Clean(ds)
	if err != nil {
		return nil, fmt.Errorf("clean failed: %w", err)
	}

	return &Result{
		Source:        url,
		Dataset:       ds,
		Audit:         audit,
		LoadDuration:  loadDuration,
		CleanDuration: time.Since(cleanStart),
	}, nil
}

// CleanSource cleans a local file or an http(s) URL, dispatching on
// the source string.
func (p *Preen) CleanSource(ctx context.Context, src string) (*Result, error) {
	if fetch.IsURL(src) {
		return p.CleanURL(ctx, src)
	}
	return p.CleanFile(src)
}

// CleanMany cleans multiple sources concurrently, bounded by the
// configured concurrency. Each source gets its own dataset, so the
// single-threaded pipeline contract holds per run. Failed sources
// yield a Result with Error set.
func (p *Preen) CleanMany(ctx context.Context, sources []string) <-chan *Result {
	concurrency := p.config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make(chan *Result, len(sources))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Add(1)
		go func(s string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := p.CleanSource(ctx, s)
			if err != nil {
				results <- &Result{Source: s, Error: err}
				return
			}
			results <- result
		}(src)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Report renders the audit as a markdown report.
func (p *Preen) Report(a *cleaner.Audit) string {
	return report.Markdown(a)
}

// Story renders a narrative of the audit in the given style, expanded
// by the configured LLM provider when enhancement is enabled. It
// degrades to the deterministic template story on any provider
// failure.
func (p *Preen) Story(ctx context.Context, a *cleaner.Audit, style report.Style) string {
	story := report.Story(a, style)
	if p.enhancer != nil {
		story = p.enhancer.Enhance(ctx, story, style)
	}
	return story
}

// Quality scores the audit.
func (p *Preen) Quality(a *cleaner.Audit) report.Quality {
	return report.Assess(a)
}
