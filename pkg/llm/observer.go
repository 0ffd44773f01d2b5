package llm

import (
	"context"
	"time"
)

// Observer receives a notification after every provider call, whether
// it succeeded or failed. Implementations should be non-blocking or
// handle their own goroutines so they do not add to request latency.
type Observer interface {
	OnCall(ctx context.Context, event CallEvent)
}

// CallEvent contains all information about a single provider call.
type CallEvent struct {
	Provider string
	Model    string
	Request  Request

	// Response is nil if the call failed before getting a response.
	Response *Response

	// Error is nil on success.
	Error error

	Duration  time.Duration
	StartedAt time.Time
}

// ObserverFunc is a convenience type for using a function as an Observer.
type ObserverFunc func(ctx context.Context, event CallEvent)

// OnCall implements Observer.
func (f ObserverFunc) OnCall(ctx context.Context, event CallEvent) {
	f(ctx, event)
}

// observedProvider wraps a Provider and notifies an observer after
// every Execute.
type observedProvider struct {
	inner    Provider
	observer Observer
}

// Observe wraps a provider so that obs sees every call. A nil observer
// returns the provider unwrapped.
func Observe(p Provider, obs Observer) Provider {
	if obs == nil {
		return p
	}
	return &observedProvider{inner: p, observer: obs}
}

func (o *observedProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := o.inner.Execute(ctx, req)
	o.observer.OnCall(ctx, CallEvent{
		Provider:  o.inner.Name(),
		Model:     o.inner.Model(),
		Request:   req,
		Response:  resp,
		Error:     err,
		Duration:  time.Since(start),
		StartedAt: start,
	})
	return resp, err
}

func (o *observedProvider) Name() string  { return o.inner.Name() }
func (o *observedProvider) Model() string { return o.inner.Model() }
