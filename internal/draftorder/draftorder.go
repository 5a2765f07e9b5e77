// Package draftorder maps global pick indices to board positions for
// snake drafts, including Sleeper's "3rd Round Reversal" variant.
package draftorder

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("pick index out of range")
var ErrBadSettings = errors.New("invalid draft settings")

// Settings describes the shape of a draft. ReversalRound is 0 when the
// draft has no reversal configured; otherwise picks from that round on
// run in the opposite direction of plain snake alternation.
type Settings struct {
	TeamCount     int
	TotalRounds   int
	ReversalRound int
}

func (s Settings) Validate() error {
	if s.TeamCount <= 0 {
		return fmt.Errorf("%w: team count %d", ErrBadSettings, s.TeamCount)
	}
	if s.TotalRounds <= 0 {
		return fmt.Errorf("%w: total rounds %d", ErrBadSettings, s.TotalRounds)
	}
	if s.ReversalRound < 0 {
		return fmt.Errorf("%w: reversal round %d", ErrBadSettings, s.ReversalRound)
	}
	return nil
}

// TotalPicks is the number of picks in a full draft.
func (s Settings) TotalPicks() int { return s.TeamCount * s.TotalRounds }

// Position is where a global pick index lands on the draft board.
// SlotInRound counts 1..TeamCount left to right in pick order;
// TeamIndex is the draft slot that owns the pick. They differ exactly
// when the round runs in reverse.
type Position struct {
	Round       int
	SlotInRound int
	TeamIndex   int
	Reversed    bool
}

// Resolve maps a 1-based global pick index to its Position.
//
// A plain snake draft alternates direction every round: odd rounds run
// forward, even rounds backward. With a reversal round R, every round
// from R onward has its expected direction flipped once — the
// alternation continues, permanently offset, rather than re-flipping
// each round. For R=3 that yields F,B,B,F,B,F,...: rounds 2 and 3
// both run backward, and the slot at the far end of the board opens
// both of them.
func Resolve(s Settings, globalIndex int) (Position, error) {
	if err := s.Validate(); err != nil {
		return Position{}, err
	}
	if globalIndex < 1 || globalIndex > s.TotalPicks() {
		return Position{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, globalIndex, s.TotalPicks())
	}

	round := (globalIndex-1)/s.TeamCount + 1
	slot := globalIndex - (round-1)*s.TeamCount

	reversed := round%2 == 0 // snake baseline: even rounds run backward
	if s.ReversalRound > 0 && round >= s.ReversalRound {
		reversed = !reversed
	}

	team := slot
	if reversed {
		team = s.TeamCount - slot + 1
	}

	return Position{Round: round, SlotInRound: slot, TeamIndex: team, Reversed: reversed}, nil
}
