package checklist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/onboarding-tracker/internal/transport"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

type ServiceAPI interface {
	CreateItem(ctx context.Context, dto ItemDTO) (*Item, error)
	UpdateItem(ctx context.Context, id int64, dto ItemDTO) (*Item, error)
	DeactivateItem(ctx context.Context, id int64) error
	ListItems(ctx context.Context, includeInactive bool) ([]*Item, error)
	InstantiateForUser(ctx context.Context, userID int64) (int64, error)
	SetStatus(ctx context.Context, userID, itemID int64, dto SetStatusDTO) (*Entry, error)
	ListForUser(ctx context.Context, userID int64) ([]*Entry, error)
	GetProgress(ctx context.Context, userID int64) (Progress, error)
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

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var dto ItemDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	item, err := h.Service.CreateItem(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto ItemDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeactivateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeactivateItem(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	items, err := h.Service.ListItems(r.Context(), includeInactive)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// Instantiate handles POST /users/{id}/checklist/init
func (h *Handler) Instantiate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	created, err := h.Service.InstantiateForUser(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, InstantiateResponse{UserID: userID, Created: created})
}

// ListMine handles GET /me/checklist
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// SetStatus handles PATCH /me/checklist/{itemId}. The path is scoped to the
// caller, so an employee can only ever touch their own entries.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	itemID, ok := h.PathID(w, r, "itemId")
	if !ok {
		return
	}

	var dto SetStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	entry, err := h.Service.SetStatus(r.Context(), identity.UserID, itemID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entry)
}

// Progress handles GET /me/checklist/progress
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	progress, err := h.Service.GetProgress(r.Context(), identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, progress)
}
