package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	inventoryDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/inventory"
	"github.com/frahmantamala/onboarding-tracker/internal/core/events"
)

// Repository defines the data access methods for equipment and assignments.
// Assign and MarkReturned must move the equipment status and the ledger row
// in one transaction.
type Repository interface {
	CreateEquipment(ctx context.Context, item *inventoryDatamodel.EquipmentItem) error
	GetEquipment(ctx context.Context, id int64) (*inventoryDatamodel.EquipmentItem, error)
	ListEquipment(ctx context.Context, status string) ([]*inventoryDatamodel.EquipmentItem, error)

	Assign(ctx context.Context, assignment *inventoryDatamodel.Assignment) error
	GetAssignment(ctx context.Context, id int64) (*inventoryDatamodel.Assignment, error)
	Acknowledge(ctx context.Context, id int64) (bool, error)
	MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (*inventoryDatamodel.Assignment, error)

	ListByUser(ctx context.Context, userID int64) ([]*inventoryDatamodel.LedgerRow, error)
	ListLedger(ctx context.Context, openOnly bool) ([]*inventoryDatamodel.LedgerRow, error)
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

// Service handles the equipment assignment lifecycle
type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new inventory service. publisher may be nil.
func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) CreateEquipment(ctx context.Context, dto CreateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("equipment validation failed", "error", err)
		return nil, err
	}

	item := &inventoryDatamodel.EquipmentItem{
		Name:         dto.Name,
		SerialNumber: dto.SerialNumber,
		Category:     dto.Category,
		Status:       StatusAvailable,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateEquipment(ctx, item); err != nil {
		s.logger.Error("failed to create equipment", "error", err, "name", dto.Name)
		return nil, internal.AsAppError(err, "failed to create equipment")
	}

	s.logger.Info("equipment registered", "equipment_id", item.ID, "name", item.Name)
	return EquipmentFromDataModel(item), nil
}

// ListEquipment returns the catalogue, optionally filtered by status.
func (s *Service) ListEquipment(ctx context.Context, status string) ([]*Equipment, error) {
	if status != "" && status != StatusAvailable && status != StatusAssigned {
		return nil, internal.NewValidationFieldError("status", "status must be AVAILABLE or ASSIGNED", internal.ErrCodeInvalidStatus)
	}

	items, err := s.repo.ListEquipment(ctx, status)
	if err != nil {
		s.logger.Error("failed to list equipment", "error", err, "status", status)
		return nil, internal.AsAppError(err, "failed to list equipment")
	}
	return EquipmentFromDataModelSlice(items), nil
}

// Assign hands an AVAILABLE item to an employee. Concurrent calls for the same
// item yield exactly one success; the rest fail with ErrEquipmentNotAvailable.
func (s *Service) Assign(ctx context.Context, actorID int64, dto AssignDTO) (*Assignment, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("assignment validation failed", "error", err, "actor_id", actorID)
		return nil, err
	}

	record := NewAssignment(dto, s.now())
	if err := s.repo.Assign(ctx, record); err != nil {
		if _, ok := internal.IsAppError(err); !ok {
			s.logger.Error("failed to assign equipment", "error", err,
				"equipment_id", dto.EquipmentID, "user_id", dto.UserID)
		} else {
			s.logger.Warn("equipment assignment rejected", "error", err,
				"equipment_id", dto.EquipmentID, "user_id", dto.UserID)
		}
		return nil, internal.AsAppError(err, "failed to assign equipment")
	}

	s.logger.Info("equipment assigned",
		"assignment_id", record.ID,
		"equipment_id", record.EquipmentID,
		"user_id", record.UserID,
		"actor_id", actorID)

	s.publish(ctx, events.NewEquipmentAssignedEvent(record.ID, record.EquipmentID, record.UserID, actorID))
	return AssignmentFromDataModel(record), nil
}

// Acknowledge records that the assignee received the item. Repeating it on an
// acknowledged assignment is a no-op.
func (s *Service) Acknowledge(ctx context.Context, assignmentID, requestingUserID int64) (*Assignment, error) {
	record, err := s.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		s.logger.Warn("assignment lookup failed", "error", err, "assignment_id", assignmentID)
		return nil, internal.AsAppError(err, "failed to load assignment")
	}

	if record.UserID != requestingUserID {
		s.logger.Warn("acknowledge denied: not the assignee",
			"assignment_id", assignmentID,
			"user_id", requestingUserID,
			"assignee_id", record.UserID)
		return nil, internal.ErrNotAssignmentOwner
	}

	if !record.IsOpen() {
		return nil, internal.ErrAssignmentReturned
	}

	if record.EmployeeAck {
		return AssignmentFromDataModel(record), nil
	}

	updated, err := s.repo.Acknowledge(ctx, assignmentID)
	if err != nil {
		s.logger.Error("failed to acknowledge assignment", "error", err, "assignment_id", assignmentID)
		return nil, internal.AsAppError(err, "failed to acknowledge assignment")
	}
	if !updated {
		// returned between the read and the write
		return nil, internal.ErrAssignmentReturned
	}

	record.EmployeeAck = true
	s.logger.Info("assignment acknowledged", "assignment_id", assignmentID, "user_id", requestingUserID)
	s.publish(ctx, events.NewEquipmentAcknowledgedEvent(assignmentID, requestingUserID))
	return AssignmentFromDataModel(record), nil
}

// MarkReturned closes an open assignment and frees its equipment.
func (s *Service) MarkReturned(ctx context.Context, assignmentID, actorID int64) (*Assignment, error) {
	returnedAt := s.now()
	record, err := s.repo.MarkReturned(ctx, assignmentID, returnedAt)
	if err != nil {
		s.logger.Warn("mark returned failed", "error", err, "assignment_id", assignmentID, "actor_id", actorID)
		return nil, internal.AsAppError(err, "failed to mark assignment returned")
	}

	s.logger.Info("equipment returned",
		"assignment_id", record.ID,
		"equipment_id", record.EquipmentID,
		"actor_id", actorID)

	s.publish(ctx, events.NewEquipmentReturnedEvent(record.ID, record.EquipmentID, actorID, returnedAt))
	return AssignmentFromDataModel(record), nil
}

// ListMine returns every assignment of the user, open and returned, newest first.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]*LedgerEntry, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user assignments", "error", err, "user_id", userID)
		return nil, internal.AsAppError(err, "failed to list assignments")
	}
	return LedgerFromDataModelSlice(rows), nil
}

func (s *Service) ListLedger(ctx context.Context, openOnly bool) ([]*LedgerEntry, error) {
	rows, err := s.repo.ListLedger(ctx, openOnly)
	if err != nil {
		s.logger.Error("failed to list assignment ledger", "error", err, "open_only", openOnly)
		return nil, internal.AsAppError(err, "failed to list assignments")
	}
	return LedgerFromDataModelSlice(rows), nil
}

// Reconcile recomputes equipment status from the open assignments in the ledger.
func (s *Service) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	report, err := s.repo.Reconcile(ctx)
	if err != nil {
		s.logger.Error("inventory reconcile failed", "error", err)
		return nil, internal.AsAppError(err, "failed to reconcile inventory")
	}

	if len(report.DuplicateOpen) > 0 {
		s.logger.Error("equipment with more than one open assignment", "equipment_ids", report.DuplicateOpen)
	}
	if report.Changed() {
		s.logger.Warn("inventory status corrected",
			"marked_assigned", report.MarkedAssigned,
			"marked_available", report.MarkedAvailable)
	} else {
		s.logger.Info("inventory consistent")
	}
	return report, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Error("event subscribers failed", "error", err, "event_type", event.EventType())
	}
}
