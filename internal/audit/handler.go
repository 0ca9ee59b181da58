package audit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/onboarding-tracker/internal/core/events"
	"github.com/frahmantamala/onboarding-tracker/internal/transport"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

type HistoryReader interface {
	History(ctx context.Context, eventType string, entityID int64) ([]*Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Reader HistoryReader
}

func NewHandler(reader HistoryReader) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Reader:      reader,
	}
}

// DocumentHistory handles GET /documents/{id}/history
func (h *Handler) DocumentHistory(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.Reader.History(r.Context(), events.EventTypeDocumentReviewed, docID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": entries,
	})
}
