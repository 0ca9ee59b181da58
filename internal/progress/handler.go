package progress

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/onboarding-tracker/internal/transport"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

type ServiceAPI interface {
	SummaryForUser(ctx context.Context, userID int64) (*Summary, error)
	SummaryForAll(ctx context.Context) ([]*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Dashboard handles GET /progress
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Service.SummaryForAll(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	completed := 0
	for _, s := range summaries {
		if s.IsComplete() {
			completed++
		}
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": summaries,
		"total":     len(summaries),
		"completed": completed,
	})
}

// ForUser handles GET /progress/{userId}
func (h *Handler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.PathID(w, r, "userId")
	if !ok {
		return
	}

	summary, err := h.Service.SummaryForUser(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

// Mine handles GET /me/progress
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.SummaryForUser(r.Context(), identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
