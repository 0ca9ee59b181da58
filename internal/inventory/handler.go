package inventory

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/onboarding-tracker/internal/transport"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

type ServiceAPI interface {
	CreateEquipment(ctx context.Context, dto CreateEquipmentDTO) (*Equipment, error)
	ListEquipment(ctx context.Context, status string) ([]*Equipment, error)
	Assign(ctx context.Context, actorID int64, dto AssignDTO) (*Assignment, error)
	Acknowledge(ctx context.Context, assignmentID, requestingUserID int64) (*Assignment, error)
	MarkReturned(ctx context.Context, assignmentID, actorID int64) (*Assignment, error)
	ListMine(ctx context.Context, userID int64) ([]*LedgerEntry, error)
	ListLedger(ctx context.Context, openOnly bool) ([]*LedgerEntry, error)
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

func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var dto CreateEquipmentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	item, err := h.Service.CreateEquipment(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListEquipment(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"equipment": items,
	})
}

// Assign handles POST /assignments
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	var dto AssignDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	assignment, err := h.Service.Assign(r.Context(), identity.UserID, dto)
	if err != nil {
		h.Logger.Warn("Assign: service error", "error", err,
			"equipment_id", dto.EquipmentID, "user_id", dto.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, AssignResponse{ID: assignment.ID})
}

// Acknowledge handles PATCH /assignments/{id}/ack
func (h *Handler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	assignmentID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	assignment, err := h.Service.Acknowledge(r.Context(), assignmentID, identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, assignment)
}

// MarkReturned handles PATCH /assignments/{id}/return
func (h *Handler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	assignmentID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	assignment, err := h.Service.MarkReturned(r.Context(), assignmentID, identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, assignment)
}

// ListMine handles GET /me/equipment
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": entries,
	})
}

// ListLedger handles GET /assignments?open=true
func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	openOnly := r.URL.Query().Get("open") == "true"

	entries, err := h.Service.ListLedger(r.Context(), openOnly)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": entries,
	})
}
