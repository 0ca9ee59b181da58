package content

import "time"

type Announcement struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedBy int64     `gorm:"column:created_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}

type FAQ struct {
	ID        int64     `gorm:"primaryKey"`
	Question  string    `gorm:"column:question;not null"`
	Answer    string    `gorm:"column:answer;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (FAQ) TableName() string {
	return "faqs"
}
