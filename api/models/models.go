// Package models tracks all api models for request and responses
package models

import (
	"time"

	"github.com/aouyang1/photoboard/state"
	"github.com/aouyang1/photoboard/store"
)

type PhotoListResponse struct {
	Photos    []state.Photo `json:"photos"`
	Total     int           `json:"total"`
	Favorites []int         `json:"favorites"`
}

type PhotoResponse struct {
	Photo    state.Photo `json:"photo"`
	Favorite bool        `json:"favorite"`
}

type FavoriteResponse struct {
	PhotoID  int  `json:"photo_id"`
	Favorite bool `json:"favorite"`
}

type FavoritesResponse struct {
	Favorites []int `json:"favorites"`
}

type RefreshResponse struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

type FetchLogResponse struct {
	Fetches []store.FetchRecord `json:"fetches"`
	Total   int                 `json:"total"`
}

type UpdateSettingsRequest struct {
	PhotoLimit             int `json:"photo_limit"`
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// EventMessage is sent to websocket clients for every published event.
type EventMessage struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// SyncEvent is the type of the first message on a new websocket connection.
const SyncEvent = "sync"
