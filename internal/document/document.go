package document

import (
	"time"

	documentDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/document"
)

const (
	StatusPending  = documentDatamodel.StatusPending
	StatusApproved = documentDatamodel.StatusApproved
	StatusRejected = documentDatamodel.StatusRejected

	MaxDocTypeLength = 64
)

type Document struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	DocType    string     `json:"doc_type"`
	FileRef    string     `json:"file_ref"`
	Status     string     `json:"status"`
	HRComment  *string    `json:"hr_comment,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy *int64     `json:"reviewed_by,omitempty"`
}

// PendingDocument is a review queue row with its owner resolved.
type PendingDocument struct {
	Document
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// Decision is the outcome of a review, including the status it replaced.
type Decision struct {
	Document       *Document `json:"document"`
	PreviousStatus string    `json:"previous_status"`
}

func FromDataModel(d *documentDatamodel.Document) *Document {
	return &Document{
		ID:         d.ID,
		UserID:     d.UserID,
		DocType:    d.DocType,
		FileRef:    d.FileRef,
		Status:     d.Status,
		HRComment:  d.HRComment,
		UploadedAt: d.UploadedAt,
		ReviewedAt: d.ReviewedAt,
		ReviewedBy: d.ReviewedBy,
	}
}

func FromDataModelSlice(docs []*documentDatamodel.Document) []*Document {
	result := make([]*Document, len(docs))
	for i, d := range docs {
		result[i] = FromDataModel(d)
	}
	return result
}

func PendingFromDataModelSlice(rows []*documentDatamodel.PendingRow) []*PendingDocument {
	result := make([]*PendingDocument, len(rows))
	for i, r := range rows {
		result[i] = &PendingDocument{
			Document:  *FromDataModel(&r.Document),
			UserName:  r.UserName,
			UserEmail: r.UserEmail,
		}
	}
	return result
}
