// Package hub fans notification payloads out to websocket subscribers,
// keyed by the channel id a draft was registered with. Channels are
// created on demand by either side: the first publish or the first
// subscriber.
package hub

import (
	"context"
	"errors"

	"github.com/DoyleJ11/draft-notifier/internal/notify"
)

var ErrClosed = errors.New("hub shut down")

type HubMsg interface{ isHubMsg() }

type Publish struct {
	ChannelID string
	Payload   notify.Payload
}

type Subscribe struct {
	ChannelID string
	ClientID  string
	Outbox    chan notify.Payload
}

type Unsubscribe struct {
	ChannelID string
	ClientID  string
}

type GetStats struct {
	Reply chan Stats
}

// GetChannelStats reports one channel's live subscriber count. The
// reply passes through both the hub and the channel loop, so receiving
// it also means every earlier message for that channel was processed.
type GetChannelStats struct {
	ChannelID string
	Reply     chan int
}

type ShutdownHub struct{}

func (Publish) isHubMsg()         {}
func (Subscribe) isHubMsg()       {}
func (Unsubscribe) isHubMsg()     {}
func (GetStats) isHubMsg()        {}
func (GetChannelStats) isHubMsg() {}
func (ShutdownHub) isHubMsg()     {}

type Stats struct {
	Channels int
}

type Hub struct {
	inbox    chan HubMsg
	channels map[string]*channel
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		channels: make(map[string]*channel),
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Send implements notify.Notifier by publishing into the hub. Delivery
// to subscribers is best-effort fanout; Send only fails when the hub
// or the caller's context is done.
func (h *Hub) Send(ctx context.Context, channelID string, p notify.Payload) error {
	select {
	case h.inbox <- Publish{ChannelID: channelID, Payload: p}:
		return nil
	case <-h.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Publish:
				h.ensure(msg.ChannelID).inbox <- publish{Payload: msg.Payload}

			case Subscribe:
				h.ensure(msg.ChannelID).inbox <- join{ClientID: msg.ClientID, Outbox: msg.Outbox}

			case Unsubscribe:
				if c := h.channels[msg.ChannelID]; c != nil {
					c.inbox <- leave{ClientID: msg.ClientID}
				}

			case GetStats:
				msg.Reply <- Stats{Channels: len(h.channels)}

			case GetChannelStats:
				h.ensure(msg.ChannelID).inbox <- subscriberCount{Reply: msg.Reply}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(channelID string) *channel {
	if c := h.channels[channelID]; c != nil {
		return c
	}
	c := newChannel(h.ctx)
	h.channels[channelID] = c
	return c
}

func (h *Hub) shutdown() {
	for id, c := range h.channels {
		c.inbox <- stop{}
		delete(h.channels, id)
	}
	h.cancel()
}
