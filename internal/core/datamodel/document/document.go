package document

import "time"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Document struct {
	ID         int64      `gorm:"primaryKey"`
	UserID     int64      `gorm:"column:user_id;not null;index"`
	DocType    string     `gorm:"column:doc_type;not null"`
	FileRef    string     `gorm:"column:file_ref;not null"`
	Status     string     `gorm:"column:status;not null;default:PENDING;index"`
	HRComment  *string    `gorm:"column:hr_comment"`
	UploadedAt time.Time  `gorm:"column:uploaded_at;not null"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at"`
	ReviewedBy *int64     `gorm:"column:reviewed_by"`
}

func (Document) TableName() string {
	return "documents"
}

// PendingRow carries the owner's identity for the HR review queue.
type PendingRow struct {
	Document
	UserName  string `gorm:"column:user_name"`
	UserEmail string `gorm:"column:user_email"`
}
