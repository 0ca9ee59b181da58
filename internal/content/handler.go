package content

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/onboarding-tracker/internal/transport"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

type ServiceAPI interface {
	CreateAnnouncement(ctx context.Context, authorID int64, dto AnnouncementDTO) (*Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error
	ListAnnouncements(ctx context.Context) ([]*Announcement, error)
	CreateFAQ(ctx context.Context, dto FAQDTO) (*FAQ, error)
	DeleteFAQ(ctx context.Context, id int64) error
	ListFAQs(ctx context.Context) ([]*FAQ, error)
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

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	var dto AnnouncementDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	a, err := h.Service.CreateAnnouncement(r.Context(), identity.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteAnnouncement(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListAnnouncements(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"announcements": items,
	})
}

func (h *Handler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	var dto FAQDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	f, err := h.Service.CreateFAQ(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteFAQ(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListFAQs(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"faqs": items,
	})
}
