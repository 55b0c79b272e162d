package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/aouyang1/photoboard/api/models"
	"github.com/aouyang1/photoboard/event"
)

const writeWait = 10 * time.Second

// handleEvents streams every published event to the websocket client,
// starting with a sync message describing the current state.
func (ws *WebServer) handleEvents(c *gin.Context) {
	conn, err := ws.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("unable to upgrade websocket connection", "error", err)
		return
	}
	defer conn.Close()

	sub := event.Subscribe(event.Topics...)
	defer event.Unsubscribe(sub)

	sync := models.EventMessage{
		Type: models.SyncEvent,
		Data: map[string]any{
			"count":     len(ws.state.Photos()),
			"favorites": ws.state.FavoriteIDs(),
		},
		Timestamp: time.Now(),
	}
	if err := writeEvent(conn, sync); err != nil {
		return
	}

	// the client never sends anything we act on; reading detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case msg, ok := <-sub.Receiver:
			if !ok {
				return
			}
			out := models.EventMessage{
				Type:      msg.Name,
				Data:      map[string]any(msg.Fields),
				Timestamp: time.Now(),
			}
			if err := writeEvent(conn, out); err != nil {
				slog.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, msg models.EventMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
