package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/DoyleJ11/draft-notifier/internal/hub"
	"github.com/DoyleJ11/draft-notifier/internal/notify"
	"github.com/DoyleJ11/draft-notifier/pkg/types"
)

// Handler subscribes a websocket client to one notification channel.
// Subscribers are read-only consumers: anything they send is discarded
// and only serves as keepalive traffic.
func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID := r.URL.Query().Get("channel")
		if channelID == "" {
			http.Error(w, "missing channel", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan notify.Payload, 8)
		clientID := randID(6)

		h.Inbox() <- hub.Subscribe{ChannelID: channelID, ClientID: clientID, Outbox: out}
		defer func() { h.Inbox() <- hub.Unsubscribe{ChannelID: channelID, ClientID: clientID} }()

		// Writer goroutine: drains the hub outbox until it closes
		// (unsubscribe, slow-drop, or hub shutdown).
		go func() {
			for p := range out {
				msg := types.ServerMessage{
					Type:         "PickNotification",
					Channel:      channelID,
					Notification: toWire(p),
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop: discard client traffic, exit on close.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}
		}
	}
}

func toWire(p notify.Payload) *types.PickNotification {
	return &types.PickNotification{
		DraftID:     p.DraftID,
		PickNo:      p.PickNo,
		Round:       p.Round,
		SlotInRound: p.SlotInRound,
		Summary:     p.Summary,
		NextUp:      p.NextUp,
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
