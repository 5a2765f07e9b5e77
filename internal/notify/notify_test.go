package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DoyleJ11/draft-notifier/internal/draftorder"
	"github.com/DoyleJ11/draft-notifier/internal/sleeper"
)

type staticNames map[string]string

func (n staticNames) Resolve(_ context.Context, id string) (string, bool) {
	name, ok := n[id]
	return name, ok
}

var jefferson = sleeper.Pick{
	GlobalIndex: 17,
	Round:       2,
	DraftSlot:   8,
	PickedBy:    "u1",
	Player:      sleeper.Player{FirstName: "Justin", LastName: "Jefferson", Position: "WR", Team: "MIN"},
}

func TestComposeSummary(t *testing.T) {
	c := NewComposer(staticNames{"u1": "Jay"})
	pos := draftorder.Position{Round: 2, SlotInRound: 5, TeamIndex: 8, Reversed: true}

	p := c.Compose(context.Background(), "d1", jefferson, pos, nil)

	assert.Equal(t, "d1", p.DraftID)
	assert.Equal(t, 17, p.PickNo)
	assert.Equal(t, 2, p.Round)
	assert.Equal(t, 5, p.SlotInRound)
	assert.Equal(t, "Round 2, Pick 5 (#17 overall): Justin Jefferson (WR - MIN) by Jay", p.Summary)
	assert.Empty(t, p.NextUp)
}

func TestComposeFallsBackToRawID(t *testing.T) {
	c := NewComposer(staticNames{})
	pos := draftorder.Position{Round: 2, SlotInRound: 5, TeamIndex: 8}

	p := c.Compose(context.Background(), "d1", jefferson, pos, nil)
	assert.Contains(t, p.Summary, "by u1")
}

func TestComposeUnownedSlotUsesSlotNumber(t *testing.T) {
	c := NewComposer(staticNames{})
	pick := jefferson
	pick.PickedBy = ""
	pos := draftorder.Position{Round: 2, SlotInRound: 5, TeamIndex: 8}

	p := c.Compose(context.Background(), "d1", pick, pos, nil)
	assert.Contains(t, p.Summary, "by slot 8")
}

func TestComposeNextUp(t *testing.T) {
	c := NewComposer(staticNames{"u2": "Pat"})
	pos := draftorder.Position{Round: 2, SlotInRound: 5, TeamIndex: 8}

	p := c.Compose(context.Background(), "d1", jefferson, pos, &NextPick{
		Position: draftorder.Position{Round: 2, SlotInRound: 6, TeamIndex: 7},
		OwnerID:  "u2",
	})
	assert.Equal(t, "Pat", p.NextUp)
}

func TestComposeDraftComplete(t *testing.T) {
	c := NewComposer(staticNames{})
	pos := draftorder.Position{Round: 15, SlotInRound: 12, TeamIndex: 1}

	p := c.Compose(context.Background(), "d1", jefferson, pos, &NextPick{Complete: true})
	assert.Equal(t, DraftCompleteLabel, p.NextUp)
}

func TestComposePlayerWithoutTeamDetail(t *testing.T) {
	c := NewComposer(staticNames{"u1": "Jay"})
	pick := jefferson
	pick.Player = sleeper.Player{FirstName: "Travis", LastName: "Hunter", Position: "WR"}
	pos := draftorder.Position{Round: 1, SlotInRound: 2, TeamIndex: 2}

	p := c.Compose(context.Background(), "d1", pick, pos, nil)
	assert.Contains(t, p.Summary, "Travis Hunter (WR)")
}
