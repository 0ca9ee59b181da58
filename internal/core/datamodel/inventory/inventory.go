package inventory

import "time"

const (
	StatusAvailable = "AVAILABLE"
	StatusAssigned  = "ASSIGNED"
)

type EquipmentItem struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	SerialNumber *string   `gorm:"column:serial_number"`
	Category     *string   `gorm:"column:category"`
	Status       string    `gorm:"column:status;not null;default:AVAILABLE;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (EquipmentItem) TableName() string {
	return "equipment_items"
}

// Assignment is open while ReturnedAt is nil.
type Assignment struct {
	ID          int64      `gorm:"primaryKey"`
	EquipmentID int64      `gorm:"column:equipment_id;not null;index"`
	UserID      int64      `gorm:"column:user_id;not null;index"`
	AssignedAt  time.Time  `gorm:"column:assigned_at;not null"`
	DueBackAt   *time.Time `gorm:"column:due_back_at"`
	Notes       *string    `gorm:"column:notes"`
	EmployeeAck bool       `gorm:"column:employee_ack;not null;default:false"`
	ReturnedAt  *time.Time `gorm:"column:returned_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}

func (a *Assignment) IsOpen() bool {
	return a.ReturnedAt == nil
}

// LedgerRow is an assignment joined with its equipment and employee.
type LedgerRow struct {
	Assignment
	EquipmentName string  `gorm:"column:equipment_name"`
	SerialNumber  *string `gorm:"column:serial_number"`
	UserName      string  `gorm:"column:user_name"`
	UserEmail     string  `gorm:"column:user_email"`
}
