package fallback

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/dcode-github/property_listing_web/client"
	"github.com/dcode-github/property_listing_web/models"
)

const DefaultTimeout = 10 * time.Second

// Reasons reported when a read falls back to the sample dataset.
const (
	ReasonTimeout     = "timeout"
	ReasonNetwork     = "network"
	ReasonStatus      = "status"
	ReasonContentType = "content_type"
	ReasonDecode      = "decode"
)

type Observer interface {
	ObserveFallback(reason string)
}

// Result is the outcome of one listing read. Live is false when Properties
// came from the sample dataset.
type Result struct {
	Properties []models.Property `json:"properties"`
	Live       bool              `json:"live"`
	Reason     string            `json:"reason,omitempty"`
}

// Fetcher serves listing reads that never fail: on any backend problem the
// sample dataset is returned instead.
type Fetcher struct {
	client   *client.Client
	timeout  time.Duration
	sample   []models.Property
	observer Observer
}

type Option func(*Fetcher)

func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithSample(props []models.Property) Option {
	return func(f *Fetcher) {
		if len(props) > 0 {
			f.sample = clone(props)
		}
	}
}

func WithObserver(o Observer) Option {
	return func(f *Fetcher) { f.observer = o }
}

func New(c *client.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  c,
		timeout: DefaultTimeout,
		sample:  Sample(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Recent returns the newest listings for the home view.
func (f *Fetcher) Recent(ctx context.Context, limit int) Result {
	return f.Listings(ctx, models.SearchFilters{Limit: limit})
}

// Listings makes a single bounded attempt against the backend.
func (f *Fetcher) Listings(ctx context.Context, filters models.SearchFilters) Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	path := "/properties"
	if q := filters.Query().Encode(); q != "" {
		path += "?" + q
	}

	resp, err := f.client.Do(ctx, path, client.Request{
		Headers: map[string]string{
			"Accept":        "application/json",
			"Cache-Control": "no-store",
			"Pragma":        "no-cache",
		},
	})
	if err != nil {
		return f.fallBack(filters, classify(ctx, err), err)
	}

	if !resp.IsJSON() {
		log.Printf("Non-JSON response received from %s: %.200s", path, resp.Text())
		return f.fallBack(filters, ReasonContentType, errors.New("backend returned non-JSON response"))
	}

	props, err := client.DecodeProperties(resp.Body)
	if err != nil {
		return f.fallBack(filters, ReasonDecode, err)
	}
	log.Printf("Fetched %d properties from backend", len(props))
	return Result{Properties: props, Live: true}
}

func (f *Fetcher) fallBack(filters models.SearchFilters, reason string, cause error) Result {
	log.Printf("Backend unavailable (%s): %v. Serving sample data.", reason, cause)
	if f.observer != nil {
		f.observer.ObserveFallback(reason)
	}
	return Result{
		Properties: filters.Apply(clone(f.sample)),
		Live:       false,
		Reason:     reason,
	}
}

func classify(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ReasonTimeout
	case client.StatusOf(err) != 0:
		return ReasonStatus
	default:
		return ReasonNetwork
	}
}
