package training

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	trainingDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/training"
)

type Repository interface {
	Create(ctx context.Context, t *trainingDatamodel.Training) error
	List(ctx context.Context) ([]*trainingDatamodel.Training, error)
	// UpsertAttendance returns internal.ErrTrainingNotFound when the training does not exist.
	UpsertAttendance(ctx context.Context, a *trainingDatamodel.TrainingAttendance) error
	ListForUser(ctx context.Context, userID int64) ([]*trainingDatamodel.AttendanceRow, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) CreateTraining(ctx context.Context, dto CreateTrainingDTO) (*Training, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t := &trainingDatamodel.Training{
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		StartsAt:    dto.StartsAt,
		Location:    dto.Location,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create training", "error", err)
		return nil, internal.AsAppError(err, "failed to create training")
	}

	s.logger.Info("training scheduled", "training_id", t.ID, "starts_at", t.StartsAt)
	return FromDataModel(t), nil
}

// ListTrainings returns every training ordered by start time.
func (s *Service) ListTrainings(ctx context.Context) ([]*Training, error) {
	trainings, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list trainings", "error", err)
		return nil, internal.AsAppError(err, "failed to list trainings")
	}
	return FromDataModelSlice(trainings), nil
}

func (s *Service) SetAttendance(ctx context.Context, trainingID, userID int64, dto SetAttendanceDTO) (*Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a := &trainingDatamodel.TrainingAttendance{
		UserID:     userID,
		TrainingID: trainingID,
		Attendance: dto.Attendance,
		UpdatedAt:  s.now(),
	}
	if err := s.repo.UpsertAttendance(ctx, a); err != nil {
		if !internal.IsKind(err, internal.ErrorTypeNotFound) {
			s.logger.Error("failed to record attendance", "error", err, "training_id", trainingID, "user_id", userID)
		}
		return nil, internal.AsAppError(err, "failed to record attendance")
	}

	return &Attendance{
		TrainingID: a.TrainingID,
		UserID:     a.UserID,
		Attendance: a.Attendance,
		UpdatedAt:  a.UpdatedAt,
	}, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]*MyTraining, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list trainings for user", "error", err, "user_id", userID)
		return nil, internal.AsAppError(err, "failed to list trainings")
	}
	return MineFromDataModelSlice(rows), nil
}
