package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/onboarding-tracker/internal"
	documentDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/document"
	"github.com/frahmantamala/onboarding-tracker/internal/document"
	"gorm.io/gorm"
)

// DocumentRepository implements the document.Repository interface using GORM
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *documentDatamodel.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*documentDatamodel.Document, error) {
	var doc documentDatamodel.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Review updates the row only if its status is still the one just read, so two
// reviewers racing on the same document cannot both win.
func (r *DocumentRepository) Review(ctx context.Context, id int64, decision document.ReviewRecord, requirePending bool) (*documentDatamodel.Document, string, error) {
	var (
		doc      documentDatamodel.Document
		previous string
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&doc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrDocumentNotFound
			}
			return err
		}

		previous = doc.Status
		if requirePending && previous != documentDatamodel.StatusPending {
			return internal.ErrDocumentAlreadyReview
		}

		res := tx.Model(&documentDatamodel.Document{}).
			Where("id = ? AND status = ?", id, previous).
			Updates(map[string]interface{}{
				"status":      decision.Status,
				"hr_comment":  decision.Comment,
				"reviewed_at": decision.ReviewedAt,
				"reviewed_by": decision.ReviewerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrDocumentAlreadyReview
		}

		reviewedAt := decision.ReviewedAt
		reviewerID := decision.ReviewerID
		doc.Status = decision.Status
		doc.HRComment = decision.Comment
		doc.ReviewedAt = &reviewedAt
		doc.ReviewedBy = &reviewerID
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &doc, previous, nil
}

func (r *DocumentRepository) ListByUser(ctx context.Context, userID int64) ([]*documentDatamodel.Document, error) {
	var docs []*documentDatamodel.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC, id DESC").
		Find(&docs).Error
	return docs, err
}

// ListPending resolves each owner's name and email in the same query.
func (r *DocumentRepository) ListPending(ctx context.Context) ([]*documentDatamodel.PendingRow, error) {
	var rows []*documentDatamodel.PendingRow
	err := r.db.WithContext(ctx).
		Table("documents AS d").
		Select(`d.id, d.user_id, d.doc_type, d.file_ref, d.status, d.hr_comment,
			d.uploaded_at, d.reviewed_at, d.reviewed_by,
			u.name AS user_name, u.email AS user_email`).
		Joins("JOIN users AS u ON u.id = d.user_id").
		Where("d.status = ?", documentDatamodel.StatusPending).
		Order("d.uploaded_at ASC, d.id ASC").
		Scan(&rows).Error
	return rows, err
}
