package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/checklist"
	checklistDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/checklist"
	documentDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/document"
	"github.com/frahmantamala/onboarding-tracker/internal/progress"
)

// summarySelect computes every counter with correlated subqueries so one row
// per user comes back regardless of how much history exists. The latest
// assignment is picked by assigned_at, ties going to the highest id.
const summarySelect = `
SELECT
	u.id AS user_id,
	u.name,
	u.email,
	u.department,
	(SELECT COUNT(*) FROM user_checklist_entries e
		JOIN checklist_items ci ON ci.id = e.item_id
		WHERE e.user_id = u.id AND ci.is_active = ?) AS checklist_total,
	(SELECT COUNT(*) FROM user_checklist_entries e
		JOIN checklist_items ci ON ci.id = e.item_id
		WHERE e.user_id = u.id AND ci.is_active = ? AND e.status = ?) AS checklist_done,
	(SELECT COUNT(*) FROM documents d
		WHERE d.user_id = u.id AND d.status = ?) AS pending_documents,
	(SELECT COUNT(*) FROM assignments a
		WHERE a.user_id = u.id AND a.returned_at IS NULL) AS borrowed_equipment,
	la.id AS latest_assignment_id,
	eq.name AS latest_equipment_name,
	eq.serial_number AS latest_serial_number,
	la.assigned_at AS latest_assigned_at,
	la.returned_at AS latest_returned_at,
	la.employee_ack AS latest_employee_ack
FROM users u
LEFT JOIN assignments la ON la.id = (
	SELECT a2.id FROM assignments a2
	WHERE a2.user_id = u.id
	ORDER BY a2.assigned_at DESC, a2.id DESC
	LIMIT 1
)
LEFT JOIN equipment_items eq ON eq.id = la.equipment_id
`

type summaryRow struct {
	UserID             int64          `db:"user_id"`
	Name               string         `db:"name"`
	Email              string         `db:"email"`
	Department         sql.NullString `db:"department"`
	ChecklistTotal     int64          `db:"checklist_total"`
	ChecklistDone      int64          `db:"checklist_done"`
	PendingDocuments   int64          `db:"pending_documents"`
	BorrowedEquipment  int64          `db:"borrowed_equipment"`
	LatestAssignmentID sql.NullInt64  `db:"latest_assignment_id"`
	LatestName         sql.NullString `db:"latest_equipment_name"`
	LatestSerial       sql.NullString `db:"latest_serial_number"`
	LatestAssignedAt   sql.NullTime   `db:"latest_assigned_at"`
	LatestReturnedAt   sql.NullTime   `db:"latest_returned_at"`
	LatestEmployeeAck  sql.NullBool   `db:"latest_employee_ack"`
}

func (r summaryRow) toSummary() *progress.Summary {
	s := &progress.Summary{
		UserID:            r.UserID,
		Name:              r.Name,
		Email:             r.Email,
		Checklist:         checklist.NewProgress(r.ChecklistTotal, r.ChecklistDone),
		PendingDocuments:  r.PendingDocuments,
		BorrowedEquipment: r.BorrowedEquipment,
	}
	if r.Department.Valid {
		dept := r.Department.String
		s.Department = &dept
	}
	if r.LatestAssignmentID.Valid {
		snap := &progress.Snapshot{
			AssignmentID:  r.LatestAssignmentID.Int64,
			EquipmentName: r.LatestName.String,
			AssignedAt:    r.LatestAssignedAt.Time,
			EmployeeAck:   r.LatestEmployeeAck.Valid && r.LatestEmployeeAck.Bool,
		}
		if r.LatestSerial.Valid {
			serial := r.LatestSerial.String
			snap.SerialNumber = &serial
		}
		if r.LatestReturnedAt.Valid {
			returned := r.LatestReturnedAt.Time
			snap.ReturnedAt = &returned
		}
		s.LatestEquipment = snap
	}
	return s
}

// ProgressRepository implements progress.Repository with hand-written SQL over sqlx.
type ProgressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) progress.Repository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) counterArgs() []interface{} {
	return []interface{}{
		true,
		true, checklistDatamodel.StatusDone,
		documentDatamodel.StatusPending,
	}
}

func (r *ProgressRepository) SummaryForUser(ctx context.Context, userID int64) (*progress.Summary, error) {
	query := r.db.Rebind(summarySelect + "WHERE u.id = ?")
	args := append(r.counterArgs(), userID)

	var row summaryRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("summary for user %d: %w", userID, err)
	}
	return row.toSummary(), nil
}

func (r *ProgressRepository) SummaryForAll(ctx context.Context) ([]*progress.Summary, error) {
	query := r.db.Rebind(summarySelect + "WHERE u.role = ? AND u.is_active = ? ORDER BY u.name, u.id")
	args := append(r.counterArgs(), internal.RoleEmployee, true)

	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("summary for all employees: %w", err)
	}

	summaries := make([]*progress.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toSummary())
	}
	return summaries, nil
}
