package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/aouyang1/photoboard/event"
	"github.com/aouyang1/photoboard/fetch"
	"github.com/aouyang1/photoboard/state"
	"github.com/aouyang1/photoboard/store"
)

const refreshTimeout = 2 * time.Minute

// RefreshManager keeps the photo state in sync with the fetch source.
type RefreshManager struct {
	fetcher *fetch.Fetcher
	state   *state.PhotoState
	db      *store.Database

	fallbackInterval time.Duration
}

func NewRefreshManager(fetcher *fetch.Fetcher, st *state.PhotoState, db *store.Database, fallbackInterval time.Duration) (*RefreshManager, error) {
	if fetcher == nil {
		return nil, errors.New("no fetcher provided to refresh manager")
	}
	if st == nil {
		return nil, errors.New("no photo state provided to refresh manager")
	}
	if db == nil {
		return nil, errors.New("no database provided to refresh manager")
	}
	if fallbackInterval <= 0 {
		fallbackInterval = time.Duration(store.DefaultRefreshIntervalSeconds) * time.Second
	}

	return &RefreshManager{
		fetcher:          fetcher,
		state:            st,
		db:               db,
		fallbackInterval: fallbackInterval,
	}, nil
}

// ApplySettings pushes updated settings to the fetcher.
func (r *RefreshManager) ApplySettings(settings *store.AppSettings) {
	if settings == nil || settings.PhotoLimit <= 0 {
		return
	}
	if settings.PhotoLimit != r.fetcher.Limit() {
		r.fetcher.SetLimit(settings.PhotoLimit)
		r.fetcher.Invalidate()
	}
}

// Invalidate forces the next refresh to reload from the source.
func (r *RefreshManager) Invalidate() {
	r.fetcher.Invalidate()
}

// Refresh fetches the photo list and replaces the state on success. Every
// attempt is written to the fetch log.
func (r *RefreshManager) Refresh(ctx context.Context) (int, error) {
	settings, err := r.db.GetAppSettings()
	if err != nil {
		slog.Warn("unable to read settings, using current limit", "error", err)
	} else {
		r.ApplySettings(settings)
	}

	record := &store.FetchRecord{
		Source:    r.fetcher.Source().String(),
		StartedAt: time.Now(),
	}

	photos, err := r.fetcher.Fetch(ctx)
	record.DurationMs = time.Since(record.StartedAt).Milliseconds()
	if err != nil {
		record.Error = err.Error()
		r.logFetch(record)
		slog.Warn("error while refreshing photos", "source", record.Source, "error", err)
		event.Publish(event.FetchFailed, event.Data{"error": err.Error()})
		return 0, err
	}

	r.state.SetPhotos(photos)
	record.PhotoCount = len(photos)
	r.logFetch(record)

	slog.Info(fmt.Sprintf("refreshed %s", english.Plural(len(photos), "photo", "photos")),
		"source", record.Source,
		"duration_ms", record.DurationMs,
	)
	return len(photos), nil
}

func (r *RefreshManager) logFetch(record *store.FetchRecord) {
	if err := r.db.InsertFetchRecord(record); err != nil {
		slog.Warn("unable to record fetch", "error", err)
	}
}

// Start refreshes once in the background.
func (r *RefreshManager) Start(ctx context.Context) *fetch.Job {
	return fetch.Async(func() error {
		ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()
		_, err := r.Refresh(ctx)
		return err
	})
}

func (r *RefreshManager) interval() time.Duration {
	settings, err := r.db.GetAppSettings()
	if err != nil || settings.RefreshIntervalSeconds <= 0 {
		return r.fallbackInterval
	}
	return time.Duration(settings.RefreshIntervalSeconds) * time.Second
}

// Run refreshes immediately and then on every interval until ctx is done.
func (r *RefreshManager) Run(ctx context.Context) {
	// Initial refresh
	if err := r.Start(ctx).Wait(); err != nil {
		slog.Warn("initial refresh failed", "error", err)
	}

	timer := time.NewTimer(r.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
			_, _ = r.Refresh(refreshCtx)
			cancel()
			timer.Reset(r.interval())
		}
	}
}
