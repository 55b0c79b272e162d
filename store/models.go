package store

import "time"

type AppSettings struct {
	PhotoLimit             int `json:"photo_limit"`
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
}

// FetchRecord describes one attempt at refreshing the photo list.
type FetchRecord struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	PhotoCount int       `json:"photo_count"`
	Error      string    `json:"error,omitempty"`
}

// Succeeded reports whether the fetch produced photos.
func (r FetchRecord) Succeeded() bool {
	return r.Error == ""
}
