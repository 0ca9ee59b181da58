package inventory

import (
	"time"

	inventoryDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/inventory"
)

const (
	StatusAvailable = inventoryDatamodel.StatusAvailable
	StatusAssigned  = inventoryDatamodel.StatusAssigned
)

type Equipment struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	SerialNumber *string   `json:"serial_number,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type Assignment struct {
	ID          int64      `json:"id"`
	EquipmentID int64      `json:"equipment_id"`
	UserID      int64      `json:"user_id"`
	AssignedAt  time.Time  `json:"assigned_at"`
	DueBackAt   *time.Time `json:"due_back_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	EmployeeAck bool       `json:"employee_ack"`
	ReturnedAt  *time.Time `json:"returned_at"`
}

func (a *Assignment) IsOpen() bool {
	return a.ReturnedAt == nil
}

// LedgerEntry is an assignment with the equipment and employee it links.
type LedgerEntry struct {
	Assignment
	EquipmentName string  `json:"equipment_name"`
	SerialNumber  *string `json:"serial_number,omitempty"`
	UserName      string  `json:"user_name"`
	UserEmail     string  `json:"user_email"`
}

type ReconcileReport struct {
	MarkedAssigned  []int64 `json:"marked_assigned"`
	MarkedAvailable []int64 `json:"marked_available"`
	DuplicateOpen   []int64 `json:"duplicate_open"`
}

func (r *ReconcileReport) Changed() bool {
	return len(r.MarkedAssigned) > 0 || len(r.MarkedAvailable) > 0
}

func NewAssignment(dto AssignDTO, now time.Time) *inventoryDatamodel.Assignment {
	return &inventoryDatamodel.Assignment{
		EquipmentID: dto.EquipmentID,
		UserID:      dto.UserID,
		AssignedAt:  now,
		DueBackAt:   dto.DueBackAt,
		Notes:       dto.Notes,
		EmployeeAck: false,
		ReturnedAt:  nil,
	}
}

func EquipmentFromDataModel(e *inventoryDatamodel.EquipmentItem) *Equipment {
	return &Equipment{
		ID:           e.ID,
		Name:         e.Name,
		SerialNumber: e.SerialNumber,
		Category:     e.Category,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
	}
}

func EquipmentFromDataModelSlice(items []*inventoryDatamodel.EquipmentItem) []*Equipment {
	result := make([]*Equipment, len(items))
	for i, e := range items {
		result[i] = EquipmentFromDataModel(e)
	}
	return result
}

func AssignmentFromDataModel(a *inventoryDatamodel.Assignment) *Assignment {
	return &Assignment{
		ID:          a.ID,
		EquipmentID: a.EquipmentID,
		UserID:      a.UserID,
		AssignedAt:  a.AssignedAt,
		DueBackAt:   a.DueBackAt,
		Notes:       a.Notes,
		EmployeeAck: a.EmployeeAck,
		ReturnedAt:  a.ReturnedAt,
	}
}

func LedgerFromDataModelSlice(rows []*inventoryDatamodel.LedgerRow) []*LedgerEntry {
	result := make([]*LedgerEntry, len(rows))
	for i, r := range rows {
		result[i] = &LedgerEntry{
			Assignment:    *AssignmentFromDataModel(&r.Assignment),
			EquipmentName: r.EquipmentName,
			SerialNumber:  r.SerialNumber,
			UserName:      r.UserName,
			UserEmail:     r.UserEmail,
		}
	}
	return result
}
