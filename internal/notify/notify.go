// Package notify turns resolved picks into the payloads that go out to
// a registered channel, and defines the delivery boundary.
package notify

import (
	"context"
	"fmt"

	"github.com/DoyleJ11/draft-notifier/internal/draftorder"
	"github.com/DoyleJ11/draft-notifier/internal/sleeper"
)

// DraftCompleteLabel is the next-up value after the final pick.
const DraftCompleteLabel = "draft complete"

// Payload is one outbound notification. NextUp is only set on the
// newest pick of a cycle; it holds either the on-the-clock handle or
// DraftCompleteLabel.
type Payload struct {
	DraftID     string `json:"draft_id"`
	PickNo      int    `json:"pick_no"`
	Round       int    `json:"round"`
	SlotInRound int    `json:"slot_in_round"`
	Summary     string `json:"summary"`
	NextUp      string `json:"next_up,omitempty"`
}

// Notifier delivers a payload to a channel.
type Notifier interface {
	Send(ctx context.Context, channelID string, p Payload) error
}

// NameResolver maps an external user id to a display handle. A false
// return is not an error; composers fall back to the raw id.
type NameResolver interface {
	Resolve(ctx context.Context, externalID string) (string, bool)
}

// NextPick is the projection for the pick after the newest one
// observed. Complete means the draft board is full.
type NextPick struct {
	Complete bool
	Position draftorder.Position
	OwnerID  string
}

type Composer struct {
	names NameResolver
}

func NewComposer(names NameResolver) *Composer {
	return &Composer{names: names}
}

// Compose builds the payload for one pick. next is nil for every pick
// except the newest of the cycle.
func (c *Composer) Compose(ctx context.Context, draftID string, pick sleeper.Pick, pos draftorder.Position, next *NextPick) Payload {
	picker := c.handleFor(ctx, pick.PickedBy, pos.TeamIndex)

	player := pick.Player.Name()
	if pick.Player.Position != "" {
		detail := pick.Player.Position
		if pick.Player.Team != "" {
			detail += " - " + pick.Player.Team
		}
		player = fmt.Sprintf("%s (%s)", player, detail)
	}

	p := Payload{
		DraftID:     draftID,
		PickNo:      pick.GlobalIndex,
		Round:       pos.Round,
		SlotInRound: pos.SlotInRound,
		Summary:     fmt.Sprintf("Round %d, Pick %d (#%d overall): %s by %s", pos.Round, pos.SlotInRound, pick.GlobalIndex, player, picker),
	}

	if next != nil {
		if next.Complete {
			p.NextUp = DraftCompleteLabel
		} else {
			p.NextUp = c.handleFor(ctx, next.OwnerID, next.Position.TeamIndex)
		}
	}
	return p
}

// handleFor resolves an owner id to a display handle, falling back to
// the raw id, then to the slot number when there is no id at all.
func (c *Composer) handleFor(ctx context.Context, ownerID string, teamIndex int) string {
	if ownerID == "" {
		return fmt.Sprintf("slot %d", teamIndex)
	}
	if name, ok := c.names.Resolve(ctx, ownerID); ok {
		return name
	}
	return ownerID
}
