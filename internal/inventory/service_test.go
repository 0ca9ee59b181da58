package inventory_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/onboarding-tracker/internal"
	inventoryDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/inventory"
	"github.com/frahmantamala/onboarding-tracker/internal/core/events"
	"github.com/frahmantamala/onboarding-tracker/internal/inventory"
)

func TestInventoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Service Suite")
}

// Mock repository for testing
type mockInventoryRepository struct {
	equipment   map[int64]*inventoryDatamodel.EquipmentItem
	assignments map[int64]*inventoryDatamodel.Assignment
	nextID      int64
	storageErr  error
	reconcile   *inventory.ReconcileReport
}

func newMockInventoryRepository() *mockInventoryRepository {
	return &mockInventoryRepository{
		equipment:   make(map[int64]*inventoryDatamodel.EquipmentItem),
		assignments: make(map[int64]*inventoryDatamodel.Assignment),
		nextID:      1,
	}
}

func (m *mockInventoryRepository) CreateEquipment(_ context.Context, item *inventoryDatamodel.EquipmentItem) error {
	if m.storageErr != nil {
		return m.storageErr
	}
	item.ID = m.nextID
	m.nextID++
	m.equipment[item.ID] = item
	return nil
}

func (m *mockInventoryRepository) GetEquipment(_ context.Context, id int64) (*inventoryDatamodel.EquipmentItem, error) {
	item, ok := m.equipment[id]
	if !ok {
		return nil, internal.ErrEquipmentNotFound
	}
	return item, nil
}

func (m *mockInventoryRepository) ListEquipment(_ context.Context, status string) ([]*inventoryDatamodel.EquipmentItem, error) {
	var items []*inventoryDatamodel.EquipmentItem
	for _, item := range m.equipment {
		if status == "" || item.Status == status {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *mockInventoryRepository) Assign(_ context.Context, a *inventoryDatamodel.Assignment) error {
	if m.storageErr != nil {
		return m.storageErr
	}
	item, ok := m.equipment[a.EquipmentID]
	if !ok {
		return internal.ErrEquipmentNotFound
	}
	if item.Status != inventoryDatamodel.StatusAvailable {
		return internal.ErrEquipmentNotAvailable
	}
	item.Status = inventoryDatamodel.StatusAssigned
	a.ID = m.nextID
	m.nextID++
	m.assignments[a.ID] = a
	return nil
}

func (m *mockInventoryRepository) GetAssignment(_ context.Context, id int64) (*inventoryDatamodel.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, internal.ErrAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockInventoryRepository) Acknowledge(_ context.Context, id int64) (bool, error) {
	a, ok := m.assignments[id]
	if !ok || a.ReturnedAt != nil {
		return false, nil
	}
	a.EmployeeAck = true
	return true, nil
}

func (m *mockInventoryRepository) MarkReturned(_ context.Context, id int64, returnedAt time.Time) (*inventoryDatamodel.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, internal.ErrAssignmentNotFound
	}
	if a.ReturnedAt != nil {
		return nil, internal.ErrAssignmentReturned
	}
	a.ReturnedAt = &returnedAt
	m.equipment[a.EquipmentID].Status = inventoryDatamodel.StatusAvailable
	return a, nil
}

func (m *mockInventoryRepository) ListByUser(_ context.Context, userID int64) ([]*inventoryDatamodel.LedgerRow, error) {
	var rows []*inventoryDatamodel.LedgerRow
	for _, a := range m.assignments {
		if a.UserID == userID {
			rows = append(rows, &inventoryDatamodel.LedgerRow{Assignment: *a, EquipmentName: m.equipment[a.EquipmentID].Name})
		}
	}
	return rows, nil
}

func (m *mockInventoryRepository) ListLedger(_ context.Context, openOnly bool) ([]*inventoryDatamodel.LedgerRow, error) {
	var rows []*inventoryDatamodel.LedgerRow
	for _, a := range m.assignments {
		if !openOnly || a.ReturnedAt == nil {
			rows = append(rows, &inventoryDatamodel.LedgerRow{Assignment: *a})
		}
	}
	return rows, nil
}

func (m *mockInventoryRepository) Reconcile(_ context.Context) (*inventory.ReconcileReport, error) {
	if m.storageErr != nil {
		return nil, m.storageErr
	}
	return m.reconcile, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) PublishSync(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

var _ = Describe("Inventory Service", func() {
	const (
		hrID int64 = 100
		u1   int64 = 1
		u2   int64 = 2
	)

	var (
		repo      *mockInventoryRepository
		publisher *recordingPublisher
		service   *inventory.Service
		ctx       context.Context
		e1        *inventory.Equipment
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockInventoryRepository()
		publisher = &recordingPublisher{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = inventory.NewService(repo, publisher, lg)

		var err error
		e1, err = service.CreateEquipment(ctx, inventory.CreateEquipmentDTO{Name: "ThinkPad X1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(e1.Status).To(Equal(inventory.StatusAvailable))
	})

	Describe("CreateEquipment", func() {
		It("rejects a blank name", func() {
			_, err := service.CreateEquipment(ctx, inventory.CreateEquipmentDTO{Name: "  "})
			Expect(internal.IsKind(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("wraps storage failures as internal errors", func() {
			repo.storageErr = errors.New("disk full")
			_, err := service.CreateEquipment(ctx, inventory.CreateEquipmentDTO{Name: "Mouse"})
			Expect(internal.IsKind(err, internal.ErrorTypeInternal)).To(BeTrue())
			Expect(errors.Is(err, repo.storageErr)).To(BeTrue())
		})
	})

	Describe("ListEquipment", func() {
		It("rejects unknown status filters", func() {
			_, err := service.ListEquipment(ctx, "BROKEN")
			Expect(internal.IsKind(err, internal.ErrorTypeValidation)).To(BeTrue())
		})
	})

	Describe("Assign", func() {
		It("requires user and equipment ids", func() {
			_, err := service.Assign(ctx, hrID, inventory.AssignDTO{})
			Expect(internal.IsKind(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("rejects a due date in the past", func() {
			past := time.Now().Add(-time.Hour)
			_, err := service.Assign(ctx, hrID, inventory.AssignDTO{UserID: u1, EquipmentID: e1.ID, DueBackAt: &past})
			Expect(internal.IsKind(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("creates an unacknowledged open assignment and publishes equipment.assigned", func() {
			a, err := service.Assign(ctx, hrID, inventory.AssignDTO{UserID: u1, EquipmentID: e1.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.EmployeeAck).To(BeFalse())
			Expect(a.IsOpen()).To(BeTrue())
			Expect(publisher.types()).To(Equal([]string{events.EventTypeEquipmentAssigned}))
		})

		It("does not fail when a subscriber fails", func() {
			publisher.err = errors.New("audit down")
			_, err := service.Assign(ctx, hrID, inventory.AssignDTO{UserID: u1, EquipmentID: e1.ID})
			Expect(err).NotTo(HaveOccurred())
		})

		It("works without a publisher", func() {
			lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			bare := inventory.NewService(repo, nil, lg)
			_, err := bare.Assign(ctx, hrID, inventory.AssignDTO{UserID: u1, EquipmentID: e1.ID})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Acknowledge", func() {
		var assignment *inventory.Assignment

		BeforeEach(func() {
			var err error
			assignment, err = service.Assign(ctx, hrID, inventory.AssignDTO{UserID: u1, EquipmentID: e1.ID})
			Expect(err).NotTo(HaveOccurred())
		})

		It("is idempotent for the assignee", func() {
			first, err := service.Acknowledge(ctx, assignment.ID, u1)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.EmployeeAck).To(BeTrue())

			second, err := service.Acknowledge(ctx, assignment.ID, u1)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.EmployeeAck).To(BeTrue())

			Expect(publisher.types()).To(Equal([]string{
				events.EventTypeEquipmentAssigned,
				events.EventTypeEquipmentAcknowledged,
			}))
		})

		It("forbids other employees", func() {
			_, err := service.Acknowledge(ctx, assignment.ID, u2)
			Expect(err).To(Equal(internal.ErrNotAssignmentOwner))
		})

		It("returns NotFound for unknown assignments", func() {
			_, err := service.Acknowledge(ctx, 999, u1)
			Expect(err).To(Equal(internal.ErrAssignmentNotFound))
		})

		It("returns Conflict once returned", func() {
			_, err := service.MarkReturned(ctx, assignment.ID, hrID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Acknowledge(ctx, assignment.ID, u1)
			Expect(err).To(Equal(internal.ErrAssignmentReturned))
		})
	})

	// E1 assigned to U1; U2 cannot take it until U1's assignment is returned.
	Describe("equipment lifecycle scenario", func() {
		It("walks assign, conflict, forbidden, acknowledge, return and reassign", func() {
			a1, err := service.Assign(ctx, hrID, inventory.AssignDTO{UserID: u1, EquipmentID: e1.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.equipment[e1.ID].Status).To(Equal(inventory.StatusAssigned))

			_, err = service.Assign(ctx, hrID, inventory.AssignDTO{UserID: u2, EquipmentID: e1.ID})
			Expect(err).To(Equal(internal.ErrEquipmentNotAvailable))

			_, err = service.Acknowledge(ctx, a1.ID, u2)
			Expect(internal.IsKind(err, internal.ErrorTypeForbidden)).To(BeTrue())

			acked, err := service.Acknowledge(ctx, a1.ID, u1)
			Expect(err).NotTo(HaveOccurred())
			Expect(acked.EmployeeAck).To(BeTrue())

			returned, err := service.MarkReturned(ctx, a1.ID, hrID)
			Expect(err).NotTo(HaveOccurred())
			Expect(returned.ReturnedAt).NotTo(BeNil())
			Expect(repo.equipment[e1.ID].Status).To(Equal(inventory.StatusAvailable))

			_, err = service.MarkReturned(ctx, a1.ID, hrID)
			Expect(internal.IsKind(err, internal.ErrorTypeConflict)).To(BeTrue())

			_, err = service.Assign(ctx, hrID, inventory.AssignDTO{UserID: u2, EquipmentID: e1.ID})
			Expect(err).NotTo(HaveOccurred())

			mine, err := service.ListMine(ctx, u1)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].EquipmentName).To(Equal("ThinkPad X1"))
		})
	})

	Describe("Reconcile", func() {
		It("passes the repository report through", func() {
			repo.reconcile = &inventory.ReconcileReport{MarkedAvailable: []int64{e1.ID}}
			report, err := service.Reconcile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Changed()).To(BeTrue())
		})

		It("wraps storage failures", func() {
			repo.storageErr = errors.New("connection reset")
			_, err := service.Reconcile(ctx)
			Expect(internal.IsKind(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})
})
