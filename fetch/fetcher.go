// Package fetch retrieves the remote photo list and turns it into photos.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/aouyang1/photoboard/state"
)

const (
	DefaultLimit    = 20
	DefaultCacheTTL = time.Minute
)

type Option func(*Fetcher)

// WithLimit caps the number of photos taken from the payload.
func WithLimit(n int) Option {
	return func(f *Fetcher) {
		f.limit = n
	}
}

// WithCacheTTL sets how long a loaded payload is reused. Zero disables it.
func WithCacheTTL(d time.Duration) Option {
	return func(f *Fetcher) {
		f.cacheTTL = d
	}
}

// Fetcher loads payloads from a Source and decodes them.
type Fetcher struct {
	source Source

	mu       sync.RWMutex
	limit    int
	cacheTTL time.Duration
	cache    *gocache.Cache
}

func New(source Source, opts ...Option) *Fetcher {
	f := &Fetcher{
		source:   source,
		limit:    DefaultLimit,
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.cache = gocache.New(f.cacheTTL, 2*f.cacheTTL)
	return f
}

func (f *Fetcher) Source() Source {
	return f.source
}

func (f *Fetcher) Limit() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.limit
}

func (f *Fetcher) SetLimit(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = n
}

// Invalidate drops any cached payload so the next Fetch hits the source.
func (f *Fetcher) Invalidate() {
	f.cache.Flush()
}

// Fetch loads and decodes the photo list.
func (f *Fetcher) Fetch(ctx context.Context) ([]state.Photo, error) {
	data, err := f.load(ctx)
	if err != nil {
		return nil, err
	}

	photos, err := Decode(data, f.Limit())
	if err != nil {
		f.Invalidate()
		return nil, fmt.Errorf("unable to decode photos from %s: %w", f.source, err)
	}
	return photos, nil
}

func (f *Fetcher) load(ctx context.Context) ([]byte, error) {
	key := f.source.String()
	if f.cacheTTL > 0 {
		if cached, ok := f.cache.Get(key); ok {
			slog.Debug("using cached photo payload", "source", key)
			return cached.([]byte), nil
		}
	}

	data, err := f.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load photos from %s: %w", key, err)
	}

	if f.cacheTTL > 0 {
		f.cache.Set(key, data, gocache.DefaultExpiration)
	}
	return data, nil
}

// Job is a background task started by Async or FetchAsync.
type Job struct {
	done chan struct{}
	err  error
}

// Async runs fn in its own goroutine.
func Async(fn func() error) *Job {
	job := &Job{done: make(chan struct{})}
	go func() {
		defer close(job.done)
		job.err = fn()
	}()
	return job
}

// Done is closed once the job finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finished and returns its error.
func (j *Job) Wait() error {
	<-j.done
	return j.err
}

// FetchAsync fetches in the background and hands the photos to fn only when
// the fetch succeeded.
func (f *Fetcher) FetchAsync(ctx context.Context, fn func([]state.Photo)) *Job {
	return Async(func() error {
		photos, err := f.Fetch(ctx)
		if err != nil {
			return err
		}
		fn(photos)
		return nil
	})
}
