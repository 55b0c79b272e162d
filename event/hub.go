// Package event distributes state changes to interested listeners such as
// websocket connections.
package event

import (
	"log/slog"

	"github.com/leandro-lugaresi/hub"
)

type Hub = hub.Hub
type Data = hub.Fields
type Message = hub.Message
type Subscription = hub.Subscription

const (
	PhotosUpdated    = "photos.updated"
	FavoritesChanged = "favorites.changed"
	FetchFailed      = "fetch.failed"
)

// Topics lists every event name photoboard publishes.
var Topics = []string{PhotosUpdated, FavoritesChanged, FetchFailed}

var channelCap = 100
var sharedHub = NewHub()

func NewHub() *Hub {
	return hub.New()
}

func SharedHub() *Hub {
	return sharedHub
}

func Publish(event string, data Data) {
	slog.Debug("publishing event", "event", event)
	SharedHub().Publish(Message{
		Name:   event,
		Fields: data,
	})
}

// Subscribe returns a subscription that drops messages instead of blocking
// publishers when its buffer is full.
func Subscribe(topics ...string) Subscription {
	return SharedHub().NonBlockingSubscribe(channelCap, topics...)
}

func Unsubscribe(s Subscription) {
	SharedHub().Unsubscribe(s)
}
