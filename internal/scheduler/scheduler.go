// Package scheduler drives the monitor: one cycle per registered
// draft per tick. A tick waits for all of its cycles before the next
// tick starts, which is what keeps the one-cycle-per-draft invariant
// without any locking in the monitor itself.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/draft-notifier/internal/monitor"
	"github.com/DoyleJ11/draft-notifier/internal/notify"
	"github.com/DoyleJ11/draft-notifier/internal/store"
)

// maxConcurrentCycles bounds how many different drafts reconcile at
// once within a tick. Cycles for different drafts share no state.
const maxConcurrentCycles = 8

type Lister interface {
	List(ctx context.Context) ([]store.Registration, error)
}

type Runner interface {
	RunCycle(ctx context.Context, draftID string) (monitor.CycleResult, error)
}

type Scheduler struct {
	interval   time.Duration
	regs       Lister
	runner     Runner
	notifier   notify.Notifier
	opsChannel string
	log        *zap.Logger
}

// New builds a scheduler. opsChannel may be empty; integrity errors
// are then only logged.
func New(interval time.Duration, regs Lister, runner Runner, notifier notify.Notifier, opsChannel string, log *zap.Logger) *Scheduler {
	return &Scheduler{
		interval:   interval,
		regs:       regs,
		runner:     runner,
		notifier:   notifier,
		opsChannel: opsChannel,
		log:        log,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one cycle for every registered draft and waits for all of
// them. Exported so tests and operator tooling can drive it directly.
func (s *Scheduler) Tick(ctx context.Context) {
	regs, err := s.regs.List(ctx)
	if err != nil {
		s.log.Warn("list registrations", zap.Error(err))
		return
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentCycles)
	for _, reg := range regs {
		draftID := reg.DraftID
		g.Go(func() error {
			s.runOne(ctx, draftID)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Scheduler) runOne(ctx context.Context, draftID string) {
	res, err := s.runner.RunCycle(ctx, draftID)
	if err == nil {
		if res.NewPicks > 0 {
			s.log.Info("cycle complete",
				zap.String("draft_id", draftID),
				zap.Int("new_picks", res.NewPicks),
				zap.Int("pick_count", res.PickCount),
			)
		}
		return
	}

	var ie *monitor.IntegrityError
	var de *monitor.DeliveryError
	var te *monitor.TransientError
	switch {
	case errors.As(err, &ie):
		// Frozen until an operator looks at the feed; advancing past
		// a gap would corrupt the last-known invariant for good.
		s.log.Error("cycle frozen on integrity violation",
			zap.String("draft_id", draftID),
			zap.String("reason", ie.Reason),
		)
		s.alertOps(ctx, draftID, ie)
	case errors.As(err, &de):
		s.log.Warn("notification delivery failed, will redeliver",
			zap.String("draft_id", draftID),
			zap.Int("pick_no", de.PickNo),
			zap.Error(de.Err),
		)
	case errors.As(err, &te):
		s.log.Warn("transient cycle failure, next tick retries",
			zap.String("draft_id", draftID),
			zap.Error(te.Err),
		)
	default:
		s.log.Error("cycle failed", zap.String("draft_id", draftID), zap.Error(err))
	}
}

func (s *Scheduler) alertOps(ctx context.Context, draftID string, ie *monitor.IntegrityError) {
	if s.opsChannel == "" {
		return
	}
	payload := notify.Payload{
		DraftID: draftID,
		Summary: "monitoring frozen: " + ie.Error(),
	}
	if err := s.notifier.Send(ctx, s.opsChannel, payload); err != nil {
		s.log.Warn("ops alert failed", zap.String("draft_id", draftID), zap.Error(err))
	}
}
