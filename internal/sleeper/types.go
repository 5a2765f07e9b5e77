package sleeper

import (
	"fmt"
	"strconv"
	"time"

	"github.com/DoyleJ11/draft-notifier/internal/draftorder"
)

// MalformedError means the feed answered but the payload cannot be
// trusted: a pick is missing required fields or the settings are
// unusable. Callers treat it as a data-integrity problem, not a
// transient one.
type MalformedError struct {
	DraftID string
	Reason  string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed feed for draft %s: %s", e.DraftID, e.Reason)
}

// Draft is the validated view of a Sleeper draft resource.
// SlotOwners maps a draft slot (1..TeamCount) to the Sleeper user id
// that owns it; slots without a human owner are absent.
type Draft struct {
	ID         string
	Settings   draftorder.Settings
	SlotOwners map[int]string
}

// Player is the subset of pick metadata needed to describe who was
// taken.
type Player struct {
	FirstName string
	LastName  string
	Position  string
	Team      string
}

func (p Player) Name() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.LastName != "":
		return p.LastName
	default:
		return p.FirstName
	}
}

// Pick is one validated entry of the append-only pick feed.
// GlobalIndex is Sleeper's pick_no, 1-based across the whole draft.
// PickedBy may be empty for autodrafted slots with no user attached;
// DraftSlot is always set.
type Pick struct {
	GlobalIndex int
	Round       int
	DraftSlot   int
	PickedBy    string
	PlayerID    string
	Player      Player
	PickedAt    time.Time
}

// Wire shapes, decoded as-is and converted to the validated types
// above at the boundary.

type draftResponse struct {
	DraftID  string `json:"draft_id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Settings struct {
		Teams         int `json:"teams"`
		Rounds        int `json:"rounds"`
		ReversalRound int `json:"reversal_round"`
	} `json:"settings"`
	DraftOrder map[string]int `json:"draft_order"`
}

type pickResponse struct {
	PickNo    int    `json:"pick_no"`
	Round     int    `json:"round"`
	DraftSlot int    `json:"draft_slot"`
	PickedBy  string `json:"picked_by"`
	PlayerID  string `json:"player_id"`
	Created   int64  `json:"created"`
	Metadata  struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Position  string `json:"position"`
		Team      string `json:"team"`
	} `json:"metadata"`
}

type userResponse struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

func (r draftResponse) toDraft(draftID string) (Draft, error) {
	settings := draftorder.Settings{
		TeamCount:     r.Settings.Teams,
		TotalRounds:   r.Settings.Rounds,
		ReversalRound: r.Settings.ReversalRound,
	}
	if err := settings.Validate(); err != nil {
		return Draft{}, &MalformedError{DraftID: draftID, Reason: err.Error()}
	}

	owners := make(map[int]string, len(r.DraftOrder))
	for userID, slot := range r.DraftOrder {
		owners[slot] = userID
	}

	return Draft{ID: draftID, Settings: settings, SlotOwners: owners}, nil
}

func (r pickResponse) toPick(draftID string) (Pick, error) {
	if r.PickNo < 1 {
		return Pick{}, &MalformedError{DraftID: draftID, Reason: "pick missing pick_no"}
	}
	if r.Round < 1 {
		return Pick{}, &MalformedError{DraftID: draftID, Reason: "pick " + strconv.Itoa(r.PickNo) + " missing round"}
	}
	if r.DraftSlot < 1 {
		return Pick{}, &MalformedError{DraftID: draftID, Reason: "pick " + strconv.Itoa(r.PickNo) + " missing draft_slot"}
	}
	p := Player{
		FirstName: r.Metadata.FirstName,
		LastName:  r.Metadata.LastName,
		Position:  r.Metadata.Position,
		Team:      r.Metadata.Team,
	}
	if p.Name() == "" {
		return Pick{}, &MalformedError{DraftID: draftID, Reason: "pick " + strconv.Itoa(r.PickNo) + " missing player metadata"}
	}

	pick := Pick{
		GlobalIndex: r.PickNo,
		Round:       r.Round,
		DraftSlot:   r.DraftSlot,
		PickedBy:    r.PickedBy,
		PlayerID:    r.PlayerID,
		Player:      p,
	}
	if r.Created > 0 {
		pick.PickedAt = time.UnixMilli(r.Created)
	}
	return pick, nil
}
