package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/draft-notifier/internal/hub"
	"github.com/DoyleJ11/draft-notifier/internal/ws"
)

func SetupRoutes(api *API, h *hub.Hub) http.Handler {
	r := chi.NewRouter()

	r.Post("/drafts", api.RegisterDraft)
	r.Get("/drafts", api.ListDrafts)
	r.Delete("/drafts/{draftID}", api.UnregisterDraft)
	r.Post("/drafts/{draftID}/cycle", api.RunCycle)
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h))
	return r
}
