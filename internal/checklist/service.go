package checklist

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	checklistDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/checklist"
)

// Repository defines the data access methods for checklist templates and
// per-employee entries. Entry reads and writes only see active template items.
type Repository interface {
	CreateItem(ctx context.Context, item *checklistDatamodel.ChecklistItem) error
	GetItem(ctx context.Context, id int64) (*checklistDatamodel.ChecklistItem, error)
	UpdateItem(ctx context.Context, item *checklistDatamodel.ChecklistItem) error
	ListItems(ctx context.Context, includeInactive bool) ([]*checklistDatamodel.ChecklistItem, error)

	// InstantiateForUser inserts a PENDING entry for every active item the
	// user lacks and returns how many were inserted.
	InstantiateForUser(ctx context.Context, userID int64, now time.Time) (int64, error)
	// InstantiateItemForEmployees adds the item to every active employee.
	InstantiateItemForEmployees(ctx context.Context, itemID int64, now time.Time) (int64, error)

	UpdateEntryStatus(ctx context.Context, userID, itemID int64, status string, now time.Time) error
	GetEntry(ctx context.Context, userID, itemID int64) (*checklistDatamodel.EntryRow, error)
	ListEntries(ctx context.Context, userID int64) ([]*checklistDatamodel.EntryRow, error)
	CountProgress(ctx context.Context, userID int64) (total int64, done int64, err error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateItem adds a template item and hands it to every current employee.
func (s *Service) CreateItem(ctx context.Context, dto ItemDTO) (*Item, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("checklist item validation failed", "error", err)
		return nil, err
	}

	now := s.now()
	item := NewItem(dto, now)
	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.logger.Error("failed to create checklist item", "error", err, "title", dto.Title)
		return nil, internal.AsAppError(err, "failed to create checklist item")
	}

	created, err := s.repo.InstantiateItemForEmployees(ctx, item.ID, now)
	if err != nil {
		// the item exists; missing entries are filled by the next instantiate call
		s.logger.Error("failed to add checklist item to employees", "error", err, "item_id", item.ID)
	} else {
		s.logger.Info("checklist item created", "item_id", item.ID, "stage", item.Stage, "entries_created", created)
	}

	return ItemFromDataModel(item), nil
}

func (s *Service) UpdateItem(ctx context.Context, id int64, dto ItemDTO) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		s.logger.Warn("checklist item lookup failed", "error", err, "item_id", id)
		return nil, internal.AsAppError(err, "failed to load checklist item")
	}

	item.Title = dto.Title
	item.Stage = dto.Stage
	item.Description = dto.Description
	item.UpdatedAt = s.now()

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		s.logger.Error("failed to update checklist item", "error", err, "item_id", id)
		return nil, internal.AsAppError(err, "failed to update checklist item")
	}
	return ItemFromDataModel(item), nil
}

// DeactivateItem soft-deletes a template item. Existing entries are kept but
// drop out of listings and progress.
func (s *Service) DeactivateItem(ctx context.Context, id int64) error {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return internal.AsAppError(err, "failed to load checklist item")
	}
	if !item.IsActive {
		return nil
	}

	item.IsActive = false
	item.UpdatedAt = s.now()
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		s.logger.Error("failed to deactivate checklist item", "error", err, "item_id", id)
		return internal.AsAppError(err, "failed to deactivate checklist item")
	}

	s.logger.Info("checklist item deactivated", "item_id", id)
	return nil
}

func (s *Service) ListItems(ctx context.Context, includeInactive bool) ([]*Item, error) {
	items, err := s.repo.ListItems(ctx, includeInactive)
	if err != nil {
		s.logger.Error("failed to list checklist items", "error", err)
		return nil, internal.AsAppError(err, "failed to list checklist items")
	}
	return ItemsFromDataModelSlice(items), nil
}

// InstantiateForUser is idempotent: a second call inserts only items created since.
func (s *Service) InstantiateForUser(ctx context.Context, userID int64) (int64, error) {
	created, err := s.repo.InstantiateForUser(ctx, userID, s.now())
	if err != nil {
		s.logger.Error("failed to instantiate checklist", "error", err, "user_id", userID)
		return 0, internal.AsAppError(err, "failed to instantiate checklist")
	}

	s.logger.Info("checklist instantiated", "user_id", userID, "entries_created", created)
	return created, nil
}

// SetStatus moves the caller's own entry between PENDING and DONE in either direction.
func (s *Service) SetStatus(ctx context.Context, userID, itemID int64, dto SetStatusDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateEntryStatus(ctx, userID, itemID, dto.Status, s.now()); err != nil {
		s.logger.Warn("checklist status update failed", "error", err, "user_id", userID, "item_id", itemID)
		return nil, internal.AsAppError(err, "failed to update checklist entry")
	}

	row, err := s.repo.GetEntry(ctx, userID, itemID)
	if err != nil {
		return nil, internal.AsAppError(err, "failed to load checklist entry")
	}

	s.logger.Info("checklist entry updated", "user_id", userID, "item_id", itemID, "status", dto.Status)
	return EntryFromDataModel(row), nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Entry, error) {
	rows, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list checklist entries", "error", err, "user_id", userID)
		return nil, internal.AsAppError(err, "failed to list checklist")
	}

	entries := make([]*Entry, len(rows))
	for i, r := range rows {
		entries[i] = EntryFromDataModel(r)
	}
	SortEntries(entries)
	return entries, nil
}

func (s *Service) GetProgress(ctx context.Context, userID int64) (Progress, error) {
	total, done, err := s.repo.CountProgress(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count checklist progress", "error", err, "user_id", userID)
		return Progress{}, internal.AsAppError(err, "failed to compute checklist progress")
	}
	return NewProgress(total, done), nil
}
