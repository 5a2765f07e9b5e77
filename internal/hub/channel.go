package hub

import (
	"context"

	"github.com/DoyleJ11/draft-notifier/internal/notify"
)

type channelMsg interface{ isChannelMsg() }

type join struct {
	ClientID string
	Outbox   chan notify.Payload // where this subscriber receives payloads
}

func (join) isChannelMsg() {}

type leave struct{ ClientID string }

func (leave) isChannelMsg() {}

type publish struct{ Payload notify.Payload }

func (publish) isChannelMsg() {}

type subscriberCount struct{ Reply chan int }

func (subscriberCount) isChannelMsg() {}

type stop struct{}

func (stop) isChannelMsg() {}

// channel fans one registration channel's notifications out to its
// subscribers. Each channel runs its own loop; the hub owns the
// lifecycle.
type channel struct {
	inbox  chan channelMsg
	subs   map[string]chan notify.Payload
	last   *notify.Payload
	ctx    context.Context
	cancel context.CancelFunc
}

func newChannel(parent context.Context) *channel {
	ctx, cancel := context.WithCancel(parent)
	c := &channel{
		inbox:  make(chan channelMsg, 64),
		subs:   make(map[string]chan notify.Payload),
		ctx:    ctx,
		cancel: cancel,
	}
	go c.loop()
	return c
}

func (c *channel) loop() {
	for {
		select {
		case <-c.ctx.Done():
			c.shutdown()
			return

		case m := <-c.inbox:
			switch msg := m.(type) {
			case join:
				c.subs[msg.ClientID] = msg.Outbox
				// Late subscribers get the most recent payload so a
				// reconnect doesn't open on a blank stream. Same
				// guard as broadcast: a joiner arriving with a full
				// outbox is dropped rather than wedging the loop.
				if c.last != nil {
					select {
					case msg.Outbox <- *c.last:
					default:
						close(msg.Outbox)
						delete(c.subs, msg.ClientID)
					}
				}

			case leave:
				// Closing the outbox is what releases the
				// subscriber's writer goroutine.
				if ch, ok := c.subs[msg.ClientID]; ok {
					close(ch)
					delete(c.subs, msg.ClientID)
				}

			case publish:
				p := msg.Payload
				c.last = &p
				c.broadcast(p)

			case subscriberCount:
				msg.Reply <- len(c.subs)

			case stop:
				c.shutdown()
				return
			}
		}
	}
}

func (c *channel) shutdown() {
	// Admit joins still queued in the inbox so their outboxes get
	// closed below; a subscriber racing shutdown must not leak its
	// writer goroutine.
drain:
	for {
		select {
		case m := <-c.inbox:
			if j, ok := m.(join); ok {
				c.subs[j.ClientID] = j.Outbox
			}
		default:
			break drain
		}
	}
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.cancel()
}

func (c *channel) broadcast(p notify.Payload) {
	for id, ch := range c.subs {
		select {
		case ch <- p:
		default:
			// Subscriber is slow/full - drop them.
			close(ch)
			delete(c.subs, id)
		}
	}
}
