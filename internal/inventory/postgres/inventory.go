package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	inventoryDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/inventory"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-tracker/internal/inventory"
	"gorm.io/gorm"
)

// InventoryRepository implements the inventory.Repository interface using GORM
type InventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) CreateEquipment(ctx context.Context, item *inventoryDatamodel.EquipmentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryRepository) GetEquipment(ctx context.Context, id int64) (*inventoryDatamodel.EquipmentItem, error) {
	var item inventoryDatamodel.EquipmentItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) ListEquipment(ctx context.Context, status string) ([]*inventoryDatamodel.EquipmentItem, error) {
	var items []*inventoryDatamodel.EquipmentItem
	query := r.db.WithContext(ctx).Order("id ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&items).Error
	return items, err
}

// Assign flips the equipment from AVAILABLE to ASSIGNED with a conditional
// update and inserts the ledger row in the same transaction. The status
// predicate in the update is what serializes concurrent assigners.
func (r *InventoryRepository) Assign(ctx context.Context, assignment *inventoryDatamodel.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&userDatamodel.User{}).Where("id = ?", assignment.UserID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return internal.ErrUserNotFound
		}

		res := tx.Model(&inventoryDatamodel.EquipmentItem{}).
			Where("id = ? AND status = ?", assignment.EquipmentID, inventoryDatamodel.StatusAvailable).
			Update("status", inventoryDatamodel.StatusAssigned)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			exists, err := rowExists(tx, &inventoryDatamodel.EquipmentItem{}, assignment.EquipmentID)
			if err != nil {
				return err
			}
			if !exists {
				return internal.ErrEquipmentNotFound
			}
			return internal.ErrEquipmentNotAvailable
		}

		if err := tx.Create(assignment).Error; err != nil {
			// the partial unique index on open assignments backs up the status check
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return internal.ErrEquipmentNotAvailable
			}
			return err
		}
		return nil
	})
}

func (r *InventoryRepository) GetAssignment(ctx context.Context, id int64) (*inventoryDatamodel.Assignment, error) {
	var assignment inventoryDatamodel.Assignment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// Acknowledge sets employee_ack on an open assignment and reports whether a row matched.
func (r *InventoryRepository) Acknowledge(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&inventoryDatamodel.Assignment{}).
		Where("id = ? AND returned_at IS NULL", id).
		Update("employee_ack", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkReturned closes the assignment and releases its equipment atomically.
func (r *InventoryRepository) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (*inventoryDatamodel.Assignment, error) {
	var assignment inventoryDatamodel.Assignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&inventoryDatamodel.Assignment{}).
			Where("id = ? AND returned_at IS NULL", id).
			Update("returned_at", returnedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			exists, err := rowExists(tx, &inventoryDatamodel.Assignment{}, id)
			if err != nil {
				return err
			}
			if !exists {
				return internal.ErrAssignmentNotFound
			}
			return internal.ErrAssignmentReturned
		}

		if err := tx.Where("id = ?", id).First(&assignment).Error; err != nil {
			return err
		}

		res = tx.Model(&inventoryDatamodel.EquipmentItem{}).
			Where("id = ?", assignment.EquipmentID).
			Update("status", inventoryDatamodel.StatusAvailable)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("equipment %d of assignment %d is missing", assignment.EquipmentID, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *InventoryRepository) ListByUser(ctx context.Context, userID int64) ([]*inventoryDatamodel.LedgerRow, error) {
	var rows []*inventoryDatamodel.LedgerRow
	err := r.ledgerQuery(ctx).
		Where("a.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}

func (r *InventoryRepository) ListLedger(ctx context.Context, openOnly bool) ([]*inventoryDatamodel.LedgerRow, error) {
	var rows []*inventoryDatamodel.LedgerRow
	query := r.ledgerQuery(ctx)
	if openOnly {
		query = query.Where("a.returned_at IS NULL")
	}
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *InventoryRepository) ledgerQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("assignments AS a").
		Select(`a.id, a.equipment_id, a.user_id, a.assigned_at, a.due_back_at, a.notes,
			a.employee_ack, a.returned_at,
			e.name AS equipment_name, e.serial_number AS serial_number,
			u.name AS user_name, u.email AS user_email`).
		Joins("JOIN equipment_items AS e ON e.id = a.equipment_id").
		Joins("JOIN users AS u ON u.id = a.user_id").
		Order("a.assigned_at DESC, a.id DESC")
}

// Reconcile rewrites equipment status to match the open assignments. Items
// with more than one open assignment are reported, not repaired.
func (r *InventoryRepository) Reconcile(ctx context.Context) (*inventory.ReconcileReport, error) {
	report := &inventory.ReconcileReport{
		MarkedAssigned:  []int64{},
		MarkedAvailable: []int64{},
		DuplicateOpen:   []int64{},
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		openEquipment := tx.Model(&inventoryDatamodel.Assignment{}).
			Select("equipment_id").
			Where("returned_at IS NULL")

		if err := tx.Model(&inventoryDatamodel.Assignment{}).
			Where("returned_at IS NULL").
			Group("equipment_id").
			Having("COUNT(*) > 1").
			Pluck("equipment_id", &report.DuplicateOpen).Error; err != nil {
			return err
		}

		if err := tx.Model(&inventoryDatamodel.EquipmentItem{}).
			Where("status = ? AND id IN (?)", inventoryDatamodel.StatusAvailable, openEquipment).
			Pluck("id", &report.MarkedAssigned).Error; err != nil {
			return err
		}

		if err := tx.Model(&inventoryDatamodel.EquipmentItem{}).
			Where("status = ? AND id NOT IN (?)", inventoryDatamodel.StatusAssigned, openEquipment).
			Pluck("id", &report.MarkedAvailable).Error; err != nil {
			return err
		}

		if len(report.MarkedAssigned) > 0 {
			if err := tx.Model(&inventoryDatamodel.EquipmentItem{}).
				Where("id IN ?", report.MarkedAssigned).
				Update("status", inventoryDatamodel.StatusAssigned).Error; err != nil {
				return err
			}
		}

		if len(report.MarkedAvailable) > 0 {
			if err := tx.Model(&inventoryDatamodel.EquipmentItem{}).
				Where("id IN ?", report.MarkedAvailable).
				Update("status", inventoryDatamodel.StatusAvailable).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func rowExists(tx *gorm.DB, model interface{}, id int64) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
