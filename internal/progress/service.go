package progress

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/onboarding-tracker/internal"
)

// Repository reads across checklist, document and assignment tables. It never writes.
type Repository interface {
	SummaryForUser(ctx context.Context, userID int64) (*Summary, error)
	SummaryForAll(ctx context.Context) ([]*Summary, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) SummaryForUser(ctx context.Context, userID int64) (*Summary, error) {
	summary, err := s.repo.SummaryForUser(ctx, userID)
	if err != nil {
		if !internal.IsKind(err, internal.ErrorTypeNotFound) {
			s.logger.Error("failed to aggregate progress", "error", err, "user_id", userID)
		}
		return nil, internal.AsAppError(err, "failed to aggregate progress")
	}
	return summary, nil
}

// SummaryForAll returns one summary per active employee, ordered by name.
func (s *Service) SummaryForAll(ctx context.Context) ([]*Summary, error) {
	summaries, err := s.repo.SummaryForAll(ctx)
	if err != nil {
		s.logger.Error("failed to aggregate dashboard", "error", err)
		return nil, internal.AsAppError(err, "failed to aggregate dashboard")
	}

	s.logger.Debug("dashboard aggregated", "employees", len(summaries))
	return summaries, nil
}
