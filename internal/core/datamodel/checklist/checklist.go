package checklist

import "time"

const (
	StageDay1   = "DAY1"
	StageWeek1  = "WEEK1"
	StageMonth1 = "MONTH1"

	StatusPending = "PENDING"
	StatusDone    = "DONE"
)

type ChecklistItem struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Stage       string    `gorm:"column:stage;not null"`
	Description *string   `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (ChecklistItem) TableName() string {
	return "checklist_items"
}

type UserChecklistEntry struct {
	UserID    int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	ItemID    int64     `gorm:"column:item_id;primaryKey;autoIncrement:false"`
	Status    string    `gorm:"column:status;not null;default:PENDING"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (UserChecklistEntry) TableName() string {
	return "user_checklist_entries"
}

// EntryRow is a user entry joined with its template item.
type EntryRow struct {
	ItemID      int64     `gorm:"column:item_id"`
	Title       string    `gorm:"column:title"`
	Stage       string    `gorm:"column:stage"`
	Description *string   `gorm:"column:description"`
	Status      string    `gorm:"column:status"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}
