package progress

import (
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal/checklist"
)

// Snapshot describes an employee's most recent assignment, returned or not.
type Snapshot struct {
	AssignmentID  int64      `json:"assignment_id"`
	EquipmentName string     `json:"equipment_name"`
	SerialNumber  *string    `json:"serial_number,omitempty"`
	AssignedAt    time.Time  `json:"assigned_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	EmployeeAck   bool       `json:"employee_ack"`
}

// Summary is the per-employee onboarding view shown on the HR dashboard.
type Summary struct {
	UserID            int64              `json:"user_id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Department        *string            `json:"department,omitempty"`
	Checklist         checklist.Progress `json:"checklist"`
	PendingDocuments  int64              `json:"pending_documents"`
	BorrowedEquipment int64              `json:"borrowed_equipment"`
	LatestEquipment   *Snapshot          `json:"latest_equipment"`
}

// IsComplete reports whether the checklist is fully done and nothing awaits review.
func (s *Summary) IsComplete() bool {
	return s.Checklist.Total > 0 && s.Checklist.Done == s.Checklist.Total && s.PendingDocuments == 0
}
