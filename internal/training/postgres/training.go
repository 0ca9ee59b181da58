package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/onboarding-tracker/internal"
	trainingDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/training"
	"github.com/frahmantamala/onboarding-tracker/internal/training"
)

// TrainingRepository implements the training.Repository interface using GORM
type TrainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) training.Repository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) Create(ctx context.Context, t *trainingDatamodel.Training) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TrainingRepository) List(ctx context.Context) ([]*trainingDatamodel.Training, error) {
	var trainings []*trainingDatamodel.Training
	err := r.db.WithContext(ctx).Order("starts_at ASC, id ASC").Find(&trainings).Error
	return trainings, err
}

func (r *TrainingRepository) UpsertAttendance(ctx context.Context, a *trainingDatamodel.TrainingAttendance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&trainingDatamodel.Training{}).Where("id = ?", a.TrainingID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return internal.ErrTrainingNotFound
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "training_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"attendance", "updated_at"}),
		}).Create(a).Error
	})
}

// ListForUser returns every training, answered or not, with the user's attendance.
func (r *TrainingRepository) ListForUser(ctx context.Context, userID int64) ([]*trainingDatamodel.AttendanceRow, error) {
	var rows []*trainingDatamodel.AttendanceRow
	err := r.db.WithContext(ctx).
		Table("trainings AS t").
		Select(`t.id, t.title, t.description, t.starts_at, t.location, t.created_at,
			COALESCE(ta.attendance, ?) AS attendance`, trainingDatamodel.AttendanceUpcoming).
		Joins("LEFT JOIN training_attendances AS ta ON ta.training_id = t.id AND ta.user_id = ?", userID).
		Order("t.starts_at ASC, t.id ASC").
		Scan(&rows).Error
	return rows, err
}
