package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/checklist"
	checklistDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/checklist"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChecklistRepository implements the checklist.Repository interface using GORM
type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) checklist.Repository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) CreateItem(ctx context.Context, item *checklistDatamodel.ChecklistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ChecklistRepository) GetItem(ctx context.Context, id int64) (*checklistDatamodel.ChecklistItem, error) {
	var item checklistDatamodel.ChecklistItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrChecklistItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ChecklistRepository) UpdateItem(ctx context.Context, item *checklistDatamodel.ChecklistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ChecklistRepository) ListItems(ctx context.Context, includeInactive bool) ([]*checklistDatamodel.ChecklistItem, error) {
	var items []*checklistDatamodel.ChecklistItem
	query := r.db.WithContext(ctx)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("id ASC").Find(&items).Error
	return items, err
}

func (r *ChecklistRepository) InstantiateForUser(ctx context.Context, userID int64, now time.Time) (int64, error) {
	db := r.db.WithContext(ctx)

	var users int64
	if err := db.Model(&userDatamodel.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
		return 0, err
	}
	if users == 0 {
		return 0, internal.ErrUserNotFound
	}

	var itemIDs []int64
	if err := db.Model(&checklistDatamodel.ChecklistItem{}).
		Where("is_active = ?", true).
		Pluck("id", &itemIDs).Error; err != nil {
		return 0, err
	}

	entries := make([]checklistDatamodel.UserChecklistEntry, len(itemIDs))
	for i, itemID := range itemIDs {
		entries[i] = newEntry(userID, itemID, now)
	}
	return r.insertEntries(db, entries)
}

func (r *ChecklistRepository) InstantiateItemForEmployees(ctx context.Context, itemID int64, now time.Time) (int64, error) {
	db := r.db.WithContext(ctx)

	var userIDs []int64
	if err := db.Model(&userDatamodel.User{}).
		Where("role = ? AND is_active = ?", internal.RoleEmployee, true).
		Pluck("id", &userIDs).Error; err != nil {
		return 0, err
	}

	entries := make([]checklistDatamodel.UserChecklistEntry, len(userIDs))
	for i, userID := range userIDs {
		entries[i] = newEntry(userID, itemID, now)
	}
	return r.insertEntries(db, entries)
}

// insertEntries skips rows whose (user_id, item_id) key already exists.
func (r *ChecklistRepository) insertEntries(db *gorm.DB, entries []checklistDatamodel.UserChecklistEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&entries, 200)
	return res.RowsAffected, res.Error
}

func (r *ChecklistRepository) UpdateEntryStatus(ctx context.Context, userID, itemID int64, status string, now time.Time) error {
	db := r.db.WithContext(ctx)
	activeItems := db.Model(&checklistDatamodel.ChecklistItem{}).Select("id").Where("is_active = ?", true)

	res := db.Model(&checklistDatamodel.UserChecklistEntry{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Where("item_id IN (?)", activeItems).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrChecklistEntryNotFound
	}
	return nil
}

func (r *ChecklistRepository) GetEntry(ctx context.Context, userID, itemID int64) (*checklistDatamodel.EntryRow, error) {
	var rows []*checklistDatamodel.EntryRow
	err := r.entryQuery(ctx, userID).
		Where("e.item_id = ?", itemID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal.ErrChecklistEntryNotFound
	}
	return rows[0], nil
}

func (r *ChecklistRepository) ListEntries(ctx context.Context, userID int64) ([]*checklistDatamodel.EntryRow, error) {
	var rows []*checklistDatamodel.EntryRow
	err := r.entryQuery(ctx, userID).
		Order("ci.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ChecklistRepository) CountProgress(ctx context.Context, userID int64) (int64, int64, error) {
	var counts struct {
		Total int64
		Done  int64
	}
	err := r.db.WithContext(ctx).
		Table("user_checklist_entries AS e").
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN e.status = ? THEN 1 ELSE 0 END), 0) AS done", checklistDatamodel.StatusDone).
		Joins("JOIN checklist_items AS ci ON ci.id = e.item_id").
		Where("e.user_id = ? AND ci.is_active = ?", userID, true).
		Scan(&counts).Error
	return counts.Total, counts.Done, err
}

func (r *ChecklistRepository) entryQuery(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("user_checklist_entries AS e").
		Select("e.item_id, ci.title, ci.stage, ci.description, e.status, e.updated_at").
		Joins("JOIN checklist_items AS ci ON ci.id = e.item_id").
		Where("e.user_id = ? AND ci.is_active = ?", userID, true)
}

func newEntry(userID, itemID int64, now time.Time) checklistDatamodel.UserChecklistEntry {
	return checklistDatamodel.UserChecklistEntry{
		UserID:    userID,
		ItemID:    itemID,
		Status:    checklistDatamodel.StatusPending,
		UpdatedAt: now,
	}
}
