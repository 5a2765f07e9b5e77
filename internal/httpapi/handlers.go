package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/draft-notifier/internal/monitor"
	"github.com/DoyleJ11/draft-notifier/internal/sleeper"
	"github.com/DoyleJ11/draft-notifier/internal/store"
	"github.com/DoyleJ11/draft-notifier/pkg/types"
)

// Registry is the registration store surface the API needs.
type Registry interface {
	Get(ctx context.Context, draftID string) (store.Registration, error)
	List(ctx context.Context) ([]store.Registration, error)
	Upsert(ctx context.Context, reg store.Registration) error
	Delete(ctx context.Context, draftID string) error
}

// Feed validates a draft id against the remote feed at registration
// time and supplies its current pick count.
type Feed interface {
	Fetch(ctx context.Context, draftID string) (sleeper.Draft, []sleeper.Pick, error)
}

// CycleRunner triggers one reconciliation cycle on demand.
type CycleRunner interface {
	RunCycle(ctx context.Context, draftID string) (monitor.CycleResult, error)
}

type API struct {
	regs   Registry
	feed   Feed
	runner CycleRunner
	log    *zap.Logger
}

func New(regs Registry, feed Feed, runner CycleRunner, log *zap.Logger) *API {
	return &API{regs: regs, feed: feed, runner: runner, log: log}
}

func (a *API) RegisterDraft(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.DraftID == "" || req.ChannelID == "" {
		http.Error(w, "draft_id and channel_id are required", http.StatusBadRequest)
		return
	}

	// Validate the draft against the feed before registering, and use
	// its current length as the starting point so a mid-draft
	// registration doesn't replay every past pick.
	_, picks, err := a.feed.Fetch(r.Context(), req.DraftID)
	if errors.Is(err, sleeper.ErrNotFound) {
		http.Error(w, "draft not found", http.StatusNotFound)
		return
	}
	if err != nil {
		a.log.Warn("feed lookup failed during registration", zap.String("draft_id", req.DraftID), zap.Error(err))
		http.Error(w, "draft feed unavailable", http.StatusBadGateway)
		return
	}

	count := len(picks)
	if req.FromStart {
		count = 0
	}

	reg := store.Registration{DraftID: req.DraftID, ChannelID: req.ChannelID, LastKnownPickCount: count}
	if err := a.regs.Upsert(r.Context(), reg); err != nil {
		a.log.Error("register draft", zap.String("draft_id", req.DraftID), zap.Error(err))
		http.Error(w, "failed to register draft", http.StatusInternalServerError)
		return
	}

	a.log.Info("draft registered",
		zap.String("draft_id", req.DraftID),
		zap.String("channel_id", req.ChannelID),
		zap.Int("starting_count", count),
	)
	writeJSON(w, http.StatusCreated, types.RegistrationResponse{
		DraftID:            reg.DraftID,
		ChannelID:          reg.ChannelID,
		LastKnownPickCount: reg.LastKnownPickCount,
	})
}

func (a *API) ListDrafts(w http.ResponseWriter, r *http.Request) {
	regs, err := a.regs.List(r.Context())
	if err != nil {
		a.log.Error("list drafts", zap.Error(err))
		http.Error(w, "failed to list drafts", http.StatusInternalServerError)
		return
	}

	out := make([]types.RegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, types.RegistrationResponse{
			DraftID:            reg.DraftID,
			ChannelID:          reg.ChannelID,
			LastKnownPickCount: reg.LastKnownPickCount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) UnregisterDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	err := a.regs.Delete(r.Context(), draftID)
	if errors.Is(err, store.ErrNotRegistered) {
		http.Error(w, "draft not registered", http.StatusNotFound)
		return
	}
	if err != nil {
		a.log.Error("unregister draft", zap.String("draft_id", draftID), zap.Error(err))
		http.Error(w, "failed to unregister draft", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunCycle triggers one cycle outside the scheduler, for operators
// poking at a draft. The same per-draft serialization caveat applies:
// don't hammer this while the scheduler is running a tick.
func (a *API) RunCycle(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")

	res, err := a.runner.RunCycle(r.Context(), draftID)
	if err != nil {
		var ie *monitor.IntegrityError
		if errors.As(err, &ie) {
			http.Error(w, ie.Error(), http.StatusConflict)
			return
		}
		a.log.Warn("manual cycle failed", zap.String("draft_id", draftID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if !res.Registered {
		http.Error(w, "draft not registered", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, types.CycleResponse{
		Registered: res.Registered,
		NewPicks:   res.NewPicks,
		PickCount:  res.PickCount,
	})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
