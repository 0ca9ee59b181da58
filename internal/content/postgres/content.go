package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/content"
	contentDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/content"
)

// ContentRepository implements the content.Repository interface using GORM
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) content.Repository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) CreateAnnouncement(ctx context.Context, a *contentDatamodel.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ContentRepository) DeleteAnnouncement(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&contentDatamodel.Announcement{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAnnouncementNotFound
	}
	return nil
}

func (r *ContentRepository) ListAnnouncements(ctx context.Context) ([]*contentDatamodel.Announcement, error) {
	var rows []*contentDatamodel.Announcement
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (r *ContentRepository) CreateFAQ(ctx context.Context, f *contentDatamodel.FAQ) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *ContentRepository) DeleteFAQ(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&contentDatamodel.FAQ{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrFAQNotFound
	}
	return nil
}

func (r *ContentRepository) ListFAQs(ctx context.Context) ([]*contentDatamodel.FAQ, error) {
	var rows []*contentDatamodel.FAQ
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error
	return rows, err
}
