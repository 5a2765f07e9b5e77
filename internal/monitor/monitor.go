// Package monitor reconciles one draft against its remote feed: fetch,
// validate, diff against the last known pick count, notify each new
// pick in order, then persist the new count.
package monitor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/draft-notifier/internal/draftorder"
	"github.com/DoyleJ11/draft-notifier/internal/notify"
	"github.com/DoyleJ11/draft-notifier/internal/sleeper"
	"github.com/DoyleJ11/draft-notifier/internal/store"
)

// Feed supplies the current settings and full ordered pick list for a
// draft.
type Feed interface {
	Fetch(ctx context.Context, draftID string) (sleeper.Draft, []sleeper.Pick, error)
}

// Store is the slice of the registration store a cycle needs: one read
// at the start, one conditional write at the end.
type Store interface {
	Get(ctx context.Context, draftID string) (store.Registration, error)
	SetLastKnownCount(ctx context.Context, draftID string, count int) error
}

// TransientError wraps failures the next scheduled cycle will retry on
// its own: feed unavailability and persistence hiccups. Nothing was
// lost; state is untouched.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IntegrityError means the feed contradicts what we already committed
// to: fewer picks than last known, gapped or out-of-order indices, or
// picks beyond the board. The cycle freezes rather than absorb it; an
// operator has to look.
type IntegrityError struct {
	DraftID string
	Reason  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("feed integrity violation for draft %s: %s", e.DraftID, e.Reason)
}

// DeliveryError means a notification could not be sent. Persistence is
// skipped so the whole range is redelivered next cycle; duplicates are
// the accepted failure mode, dropped picks are not.
type DeliveryError struct {
	ChannelID string
	PickNo    int
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver pick %d to channel %s: %v", e.PickNo, e.ChannelID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// CycleResult reports what a cycle did. Registered is false for the
// benign not-monitored no-op.
type CycleResult struct {
	Registered bool `json:"registered"`
	NewPicks   int  `json:"new_picks"`
	PickCount  int  `json:"pick_count"`
}

type Monitor struct {
	feed     Feed
	store    Store
	notifier notify.Notifier
	composer *notify.Composer
	log      *zap.Logger
}

func New(feed Feed, st Store, notifier notify.Notifier, composer *notify.Composer, log *zap.Logger) *Monitor {
	return &Monitor{feed: feed, store: st, notifier: notifier, composer: composer, log: log}
}

// RunCycle runs one reconciliation pass for draftID. It assumes the
// caller never runs two cycles for the same draft concurrently; there
// is deliberately no lock here.
func (m *Monitor) RunCycle(ctx context.Context, draftID string) (CycleResult, error) {
	reg, err := m.store.Get(ctx, draftID)
	if errors.Is(err, store.ErrNotRegistered) {
		m.log.Debug("draft not registered, skipping", zap.String("draft_id", draftID))
		return CycleResult{}, nil
	}
	if err != nil {
		return CycleResult{}, &TransientError{Err: err}
	}
	res := CycleResult{Registered: true, PickCount: reg.LastKnownPickCount}

	draft, picks, err := m.feed.Fetch(ctx, draftID)
	if err != nil {
		var mal *sleeper.MalformedError
		if errors.As(err, &mal) {
			return res, &IntegrityError{DraftID: draftID, Reason: mal.Reason}
		}
		return res, &TransientError{Err: err}
	}

	if err := validatePicks(draftID, picks, reg.LastKnownPickCount); err != nil {
		return res, err
	}
	res.PickCount = len(picks)

	newPicks := picks[reg.LastKnownPickCount:]
	if len(newPicks) == 0 {
		return res, nil
	}

	for _, pick := range newPicks {
		pos, err := draftorder.Resolve(draft.Settings, pick.GlobalIndex)
		if err != nil {
			return res, &IntegrityError{DraftID: draftID, Reason: err.Error()}
		}

		var next *notify.NextPick
		if pick.GlobalIndex == len(picks) {
			next, err = m.project(draft, len(picks)+1)
			if err != nil {
				return res, &IntegrityError{DraftID: draftID, Reason: err.Error()}
			}
		}

		payload := m.composer.Compose(ctx, draftID, pick, pos, next)
		if err := m.notifier.Send(ctx, reg.ChannelID, payload); err != nil {
			return res, &DeliveryError{ChannelID: reg.ChannelID, PickNo: pick.GlobalIndex, Err: err}
		}
		res.NewPicks++
		m.log.Info("pick notified",
			zap.String("draft_id", draftID),
			zap.Int("pick_no", pick.GlobalIndex),
			zap.Int("round", pos.Round),
		)
	}

	// Persist only after every notification went out. A crash before
	// this line redelivers the same range next cycle.
	if err := m.store.SetLastKnownCount(ctx, draftID, len(picks)); err != nil {
		return res, &TransientError{Err: err}
	}
	return res, nil
}

// project resolves the successor index into a next-picker projection,
// or reports the draft complete when the board is full.
func (m *Monitor) project(draft sleeper.Draft, nextIndex int) (*notify.NextPick, error) {
	if nextIndex > draft.Settings.TotalPicks() {
		return &notify.NextPick{Complete: true}, nil
	}
	pos, err := draftorder.Resolve(draft.Settings, nextIndex)
	if err != nil {
		return nil, err
	}
	return &notify.NextPick{Position: pos, OwnerID: draft.SlotOwners[pos.TeamIndex]}, nil
}

// validatePicks enforces the feed contract: no regression below the
// committed count, and indices strictly increasing from 1 with no
// gaps.
func validatePicks(draftID string, picks []sleeper.Pick, lastKnown int) error {
	if len(picks) < lastKnown {
		return &IntegrityError{
			DraftID: draftID,
			Reason:  fmt.Sprintf("feed regressed to %d picks, %d already seen", len(picks), lastKnown),
		}
	}
	for i, pick := range picks {
		if pick.GlobalIndex != i+1 {
			return &IntegrityError{
				DraftID: draftID,
				Reason:  fmt.Sprintf("pick at position %d has index %d", i+1, pick.GlobalIndex),
			}
		}
	}
	return nil
}
