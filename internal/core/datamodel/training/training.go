package training

import "time"

const (
	AttendanceUpcoming = "UPCOMING"
	AttendanceGoing    = "GOING"
	AttendanceNotGoing = "NOT_GOING"
)

type Training struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description *string   `gorm:"column:description"`
	StartsAt    time.Time `gorm:"column:starts_at;not null"`
	Location    *string   `gorm:"column:location"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Training) TableName() string {
	return "trainings"
}

type TrainingAttendance struct {
	UserID     int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	TrainingID int64     `gorm:"column:training_id;primaryKey;autoIncrement:false"`
	Attendance string    `gorm:"column:attendance;not null;default:UPCOMING"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (TrainingAttendance) TableName() string {
	return "training_attendances"
}

// AttendanceRow is a training with one user's answer; Attendance is UPCOMING when never answered.
type AttendanceRow struct {
	Training
	Attendance string `gorm:"column:attendance"`
}
