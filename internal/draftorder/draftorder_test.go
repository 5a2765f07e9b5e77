package draftorder

import (
	"errors"
	"testing"
)

func mustResolve(t *testing.T, s Settings, index int) Position {
	t.Helper()
	pos, err := Resolve(s, index)
	if err != nil {
		t.Fatalf("Resolve(%d): %v", index, err)
	}
	return pos
}

// directionSeq reads the direction of each round off the first pick of
// that round. "F" means slot 1 picks first, "B" means slot N does.
func directionSeq(t *testing.T, s Settings, rounds int) string {
	t.Helper()
	seq := ""
	for r := 1; r <= rounds; r++ {
		pos := mustResolve(t, s, (r-1)*s.TeamCount+1)
		if pos.Reversed {
			seq += "B"
		} else {
			seq += "F"
		}
	}
	return seq
}

func TestResolveOutOfRange(t *testing.T) {
	s := Settings{TeamCount: 10, TotalRounds: 15}
	for _, idx := range []int{0, -1, 151, 1000} {
		if _, err := Resolve(s, idx); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Resolve(%d): want ErrOutOfRange, got %v", idx, err)
		}
	}
	// Both ends of the valid range resolve.
	mustResolve(t, s, 1)
	mustResolve(t, s, 150)
}

func TestResolveBadSettings(t *testing.T) {
	cases := []Settings{
		{TeamCount: 0, TotalRounds: 15},
		{TeamCount: 10, TotalRounds: 0},
		{TeamCount: -2, TotalRounds: 3},
		{TeamCount: 10, TotalRounds: 15, ReversalRound: -1},
	}
	for _, s := range cases {
		if _, err := Resolve(s, 1); !errors.Is(err, ErrBadSettings) {
			t.Fatalf("Resolve with %+v: want ErrBadSettings, got %v", s, err)
		}
	}
}

func TestTeamIndexAlwaysInRange(t *testing.T) {
	settingsCases := []Settings{
		{TeamCount: 1, TotalRounds: 5},
		{TeamCount: 2, TotalRounds: 3},
		{TeamCount: 10, TotalRounds: 15},
		{TeamCount: 12, TotalRounds: 15, ReversalRound: 3},
		{TeamCount: 8, TotalRounds: 16, ReversalRound: 1},
		{TeamCount: 14, TotalRounds: 4, ReversalRound: 4},
	}
	for _, s := range settingsCases {
		for idx := 1; idx <= s.TotalPicks(); idx++ {
			pos := mustResolve(t, s, idx)
			if pos.TeamIndex < 1 || pos.TeamIndex > s.TeamCount {
				t.Fatalf("settings %+v index %d: team %d out of [1,%d]", s, idx, pos.TeamIndex, s.TeamCount)
			}
			if pos.SlotInRound < 1 || pos.SlotInRound > s.TeamCount {
				t.Fatalf("settings %+v index %d: slot %d out of [1,%d]", s, idx, pos.SlotInRound, s.TeamCount)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []Settings{
		{TeamCount: 10, TotalRounds: 15},
		{TeamCount: 12, TotalRounds: 15, ReversalRound: 3},
	} {
		for round := 1; round <= s.TotalRounds; round++ {
			for slot := 1; slot <= s.TeamCount; slot++ {
				index := (round-1)*s.TeamCount + slot
				pos := mustResolve(t, s, index)
				if pos.Round != round || pos.SlotInRound != slot {
					t.Fatalf("index %d: got round %d slot %d, want %d/%d",
						index, pos.Round, pos.SlotInRound, round, slot)
				}
			}
		}
	}
}

func TestPlainSnakeDirections(t *testing.T) {
	s := Settings{TeamCount: 10, TotalRounds: 4}
	if seq := directionSeq(t, s, 4); seq != "FBFB" {
		t.Fatalf("plain snake rounds 1-4: got %s, want FBFB", seq)
	}
	// Round 1 forward: pick 1 is slot 1's.
	if pos := mustResolve(t, s, 1); pos.TeamIndex != 1 {
		t.Fatalf("pick 1: team %d, want 1", pos.TeamIndex)
	}
	// Round 2 backward: pick 11 is slot 10's.
	if pos := mustResolve(t, s, 11); pos.TeamIndex != 10 {
		t.Fatalf("pick 11: team %d, want 10", pos.TeamIndex)
	}
}

func TestThirdRoundReversal(t *testing.T) {
	s := Settings{TeamCount: 10, TotalRounds: 6, ReversalRound: 3}
	if seq := directionSeq(t, s, 6); seq != "FBBFBF" {
		t.Fatalf("3RR rounds 1-6: got %s, want FBBFBF", seq)
	}

	// Rounds 2 and 3 both run backward, so the team in slot 10 opens
	// both of them: picks 11 and 21 are its. Pick 20 closes round 2
	// at the other end of the board.
	p11 := mustResolve(t, s, 11)
	p20 := mustResolve(t, s, 20)
	p21 := mustResolve(t, s, 21)
	if p11.TeamIndex != 10 || p21.TeamIndex != 10 {
		t.Fatalf("picks 11/21: teams %d/%d, want 10/10", p11.TeamIndex, p21.TeamIndex)
	}
	if p20.TeamIndex != 1 {
		t.Fatalf("pick 20: team %d, want 1", p20.TeamIndex)
	}
	if p21.Round != 3 || p21.SlotInRound != 1 {
		t.Fatalf("pick 21: round %d slot %d, want round 3 slot 1", p21.Round, p21.SlotInRound)
	}
}

func TestReversalFromRoundOne(t *testing.T) {
	// Reversal at round 1 inverts every round: B,F,B,...
	s := Settings{TeamCount: 4, TotalRounds: 3, ReversalRound: 1}
	if seq := directionSeq(t, s, 3); seq != "BFB" {
		t.Fatalf("reversal@1 rounds 1-3: got %s, want BFB", seq)
	}
	if pos := mustResolve(t, s, 1); pos.TeamIndex != 4 {
		t.Fatalf("pick 1: team %d, want 4", pos.TeamIndex)
	}
}

func TestEachRoundCoversEveryTeamOnce(t *testing.T) {
	s := Settings{TeamCount: 12, TotalRounds: 15, ReversalRound: 3}
	for round := 1; round <= s.TotalRounds; round++ {
		seen := map[int]bool{}
		for slot := 1; slot <= s.TeamCount; slot++ {
			pos := mustResolve(t, s, (round-1)*s.TeamCount+slot)
			if seen[pos.TeamIndex] {
				t.Fatalf("round %d: team %d picked twice", round, pos.TeamIndex)
			}
			seen[pos.TeamIndex] = true
		}
	}
}
