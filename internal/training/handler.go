package training

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/onboarding-tracker/internal/transport"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

type ServiceAPI interface {
	CreateTraining(ctx context.Context, dto CreateTrainingDTO) (*Training, error)
	ListTrainings(ctx context.Context) ([]*Training, error)
	SetAttendance(ctx context.Context, trainingID, userID int64, dto SetAttendanceDTO) (*Attendance, error)
	ListMine(ctx context.Context, userID int64) ([]*MyTraining, error)
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

// Create handles POST /trainings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateTrainingDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	t, err := h.Service.CreateTraining(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t)
}

// List handles GET /trainings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.Service.ListTrainings(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trainings": trainings,
	})
}

// ListMine handles GET /me/trainings
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	trainings, err := h.Service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trainings": trainings,
	})
}

// SetAttendance handles PATCH /trainings/{id}/attendance
func (h *Handler) SetAttendance(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	trainingID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto SetAttendanceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	attendance, err := h.Service.SetAttendance(r.Context(), trainingID, identity.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, attendance)
}
