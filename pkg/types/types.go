// Package types holds the wire shapes of the public surface: the
// registration REST API and the websocket notification stream.
package types

// PickNotification mirrors one outbound notification.
// NextUp is only present on the newest pick of a polling cycle; it is
// either the on-the-clock display handle or "draft complete".
type PickNotification struct {
	DraftID     string `json:"draft_id"`
	PickNo      int    `json:"pick_no"`
	Round       int    `json:"round"`
	SlotInRound int    `json:"slot_in_round"`
	Summary     string `json:"summary"`
	NextUp      string `json:"next_up,omitempty"`
}

// ServerMessage is what a websocket subscriber receives.
type ServerMessage struct {
	Type         string            `json:"type"` // "PickNotification" | "Error"
	Channel      string            `json:"channel,omitempty"`
	Notification *PickNotification `json:"notification,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// RegisterDraftRequest binds a Sleeper draft to a notification
// channel. FromStart replays the whole draft instead of starting from
// the feed's current pick count.
type RegisterDraftRequest struct {
	DraftID   string `json:"draft_id"`
	ChannelID string `json:"channel_id"`
	FromStart bool   `json:"from_start,omitempty"`
}

type RegistrationResponse struct {
	DraftID            string `json:"draft_id"`
	ChannelID          string `json:"channel_id"`
	LastKnownPickCount int    `json:"last_known_pick_count"`
}

// CycleResponse reports the outcome of a manually triggered cycle.
type CycleResponse struct {
	Registered bool `json:"registered"`
	NewPicks   int  `json:"new_picks"`
	PickCount  int  `json:"pick_count"`
}
