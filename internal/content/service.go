package content

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	contentDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/content"
)

// Repository stores announcements and FAQs. Deletes of missing rows return the
// matching NotFound sentinel.
type Repository interface {
	CreateAnnouncement(ctx context.Context, a *contentDatamodel.Announcement) error
	DeleteAnnouncement(ctx context.Context, id int64) error
	ListAnnouncements(ctx context.Context) ([]*contentDatamodel.Announcement, error)

	CreateFAQ(ctx context.Context, f *contentDatamodel.FAQ) error
	DeleteFAQ(ctx context.Context, id int64) error
	ListFAQs(ctx context.Context) ([]*contentDatamodel.FAQ, error)
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

func (s *Service) CreateAnnouncement(ctx context.Context, authorID int64, dto AnnouncementDTO) (*Announcement, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a := &contentDatamodel.Announcement{
		Title:     dto.Title,
		Body:      dto.Body,
		CreatedBy: authorID,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateAnnouncement(ctx, a); err != nil {
		s.logger.Error("failed to create announcement", "error", err, "user_id", authorID)
		return nil, internal.AsAppError(err, "failed to create announcement")
	}
	return AnnouncementFromDataModel(a), nil
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id int64) error {
	if err := s.repo.DeleteAnnouncement(ctx, id); err != nil {
		return internal.AsAppError(err, "failed to delete announcement")
	}
	s.logger.Info("announcement deleted", "announcement_id", id)
	return nil
}

// ListAnnouncements returns newest first.
func (s *Service) ListAnnouncements(ctx context.Context) ([]*Announcement, error) {
	rows, err := s.repo.ListAnnouncements(ctx)
	if err != nil {
		s.logger.Error("failed to list announcements", "error", err)
		return nil, internal.AsAppError(err, "failed to list announcements")
	}

	result := make([]*Announcement, len(rows))
	for i, a := range rows {
		result[i] = AnnouncementFromDataModel(a)
	}
	return result, nil
}

func (s *Service) CreateFAQ(ctx context.Context, dto FAQDTO) (*FAQ, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	f := &contentDatamodel.FAQ{
		Question:  dto.Question,
		Answer:    dto.Answer,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateFAQ(ctx, f); err != nil {
		s.logger.Error("failed to create faq", "error", err)
		return nil, internal.AsAppError(err, "failed to create faq")
	}
	return FAQFromDataModel(f), nil
}

func (s *Service) DeleteFAQ(ctx context.Context, id int64) error {
	if err := s.repo.DeleteFAQ(ctx, id); err != nil {
		return internal.AsAppError(err, "failed to delete faq")
	}
	s.logger.Info("faq deleted", "faq_id", id)
	return nil
}

// ListFAQs returns oldest first.
func (s *Service) ListFAQs(ctx context.Context) ([]*FAQ, error) {
	rows, err := s.repo.ListFAQs(ctx)
	if err != nil {
		s.logger.Error("failed to list faqs", "error", err)
		return nil, internal.AsAppError(err, "failed to list faqs")
	}

	result := make([]*FAQ, len(rows))
	for i, f := range rows {
		result[i] = FAQFromDataModel(f)
	}
	return result, nil
}
