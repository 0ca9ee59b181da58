package postgres

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel"
	inventoryDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/inventory"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-tracker/internal/inventory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestInventoryRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Repository Suite")
}

var _ = Describe("InventoryRepository", func() {
	var (
		db   *gorm.DB
		repo inventory.Repository
		ctx  context.Context

		employee *userDatamodel.User
		other    *userDatamodel.User
		laptop   *inventoryDatamodel.EquipmentItem
	)

	createUser := func(email string) *userDatamodel.User {
		u := &userDatamodel.User{Email: email, Name: email, PasswordHash: "x", Role: internal.RoleEmployee, IsActive: true}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		return u
	}

	createEquipment := func(name string) *inventoryDatamodel.EquipmentItem {
		item := &inventoryDatamodel.EquipmentItem{Name: name, Status: inventoryDatamodel.StatusAvailable, CreatedAt: time.Now()}
		Expect(repo.CreateEquipment(ctx, item)).To(Succeed())
		return item
	}

	newAssignment := func(equipmentID, userID int64) *inventoryDatamodel.Assignment {
		return &inventoryDatamodel.Assignment{EquipmentID: equipmentID, UserID: userID, AssignedAt: time.Now()}
	}

	// ASSIGNED exactly when one open assignment exists
	expectStatusMatchesLedger := func() {
		var items []inventoryDatamodel.EquipmentItem
		Expect(db.Find(&items).Error).NotTo(HaveOccurred())
		for _, item := range items {
			var open int64
			Expect(db.Model(&inventoryDatamodel.Assignment{}).
				Where("equipment_id = ? AND returned_at IS NULL", item.ID).
				Count(&open).Error).NotTo(HaveOccurred())
			Expect(open).To(BeNumerically("<=", 1), "equipment %d", item.ID)
			if item.Status == inventoryDatamodel.StatusAssigned {
				Expect(open).To(Equal(int64(1)), "equipment %d", item.ID)
			} else {
				Expect(open).To(BeZero(), "equipment %d", item.ID)
			}
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(datamodel.All()...)).To(Succeed())

		repo = NewInventoryRepository(db)
		employee = createUser("u1@example.com")
		other = createUser("u2@example.com")
		laptop = createEquipment("MacBook Pro 14")
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Assign", func() {
		It("flips the equipment to ASSIGNED and inserts an open assignment", func() {
			a := newAssignment(laptop.ID, employee.ID)
			Expect(repo.Assign(ctx, a)).To(Succeed())
			Expect(a.ID).To(BeNumerically(">", 0))

			item, err := repo.GetEquipment(ctx, laptop.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Status).To(Equal(inventoryDatamodel.StatusAssigned))

			stored, err := repo.GetAssignment(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.EmployeeAck).To(BeFalse())
			Expect(stored.ReturnedAt).To(BeNil())
			expectStatusMatchesLedger()
		})

		It("returns Conflict when the equipment is already assigned", func() {
			Expect(repo.Assign(ctx, newAssignment(laptop.ID, employee.ID))).To(Succeed())

			err := repo.Assign(ctx, newAssignment(laptop.ID, other.ID))
			Expect(err).To(Equal(internal.ErrEquipmentNotAvailable))

			var count int64
			Expect(db.Model(&inventoryDatamodel.Assignment{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
			expectStatusMatchesLedger()
		})

		It("returns NotFound for unknown equipment", func() {
			err := repo.Assign(ctx, newAssignment(9999, employee.ID))
			Expect(err).To(Equal(internal.ErrEquipmentNotFound))
		})

		It("returns NotFound for unknown users and leaves the equipment available", func() {
			err := repo.Assign(ctx, newAssignment(laptop.ID, 9999))
			Expect(err).To(Equal(internal.ErrUserNotFound))

			item, err := repo.GetEquipment(ctx, laptop.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Status).To(Equal(inventoryDatamodel.StatusAvailable))
		})

		It("maps a duplicate open assignment to Conflict and rolls the status back", func() {
			Expect(db.Exec("CREATE UNIQUE INDEX uq_assignments_open_equipment ON assignments (equipment_id) WHERE returned_at IS NULL").Error).To(Succeed())

			// drifted state: an open assignment while the item still reads AVAILABLE
			Expect(db.Create(newAssignment(laptop.ID, other.ID)).Error).To(Succeed())

			err := repo.Assign(ctx, newAssignment(laptop.ID, employee.ID))
			Expect(err).To(Equal(internal.ErrEquipmentNotAvailable))

			item, err := repo.GetEquipment(ctx, laptop.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Status).To(Equal(inventoryDatamodel.StatusAvailable))

			var open int64
			Expect(db.Model(&inventoryDatamodel.Assignment{}).
				Where("equipment_id = ? AND returned_at IS NULL", laptop.ID).
				Count(&open).Error).To(Succeed())
			Expect(open).To(Equal(int64(1)))
		})

		It("lets exactly one of several queued assigners win", func() {
			const workers = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
			)

			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(userID int64) {
					defer GinkgoRecover()
					defer wg.Done()
					err := repo.Assign(ctx, newAssignment(laptop.ID, userID))
					mu.Lock()
					defer mu.Unlock()
					switch err {
					case nil:
						successes++
					case internal.ErrEquipmentNotAvailable:
						conflicts++
					default:
						Fail("unexpected error: " + err.Error())
					}
				}([]int64{employee.ID, other.ID}[i%2])
			}
			wg.Wait()

			Expect(successes).To(Equal(1))
			Expect(conflicts).To(Equal(workers - 1))
			expectStatusMatchesLedger()
		})
	})

	Describe("Acknowledge", func() {
		It("sets the flag on open assignments only", func() {
			a := newAssignment(laptop.ID, employee.ID)
			Expect(repo.Assign(ctx, a)).To(Succeed())

			updated, err := repo.Acknowledge(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(BeTrue())

			_, err = repo.MarkReturned(ctx, a.ID, time.Now())
			Expect(err).NotTo(HaveOccurred())

			updated, err = repo.Acknowledge(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(BeFalse())
		})
	})

	Describe("MarkReturned", func() {
		It("closes the assignment and frees the equipment for the next assignee", func() {
			first := newAssignment(laptop.ID, employee.ID)
			Expect(repo.Assign(ctx, first)).To(Succeed())

			returned, err := repo.MarkReturned(ctx, first.ID, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(returned.ReturnedAt).NotTo(BeNil())
			expectStatusMatchesLedger()

			Expect(repo.Assign(ctx, newAssignment(laptop.ID, other.ID))).To(Succeed())
			expectStatusMatchesLedger()
		})

		It("returns Conflict when already returned", func() {
			a := newAssignment(laptop.ID, employee.ID)
			Expect(repo.Assign(ctx, a)).To(Succeed())
			_, err := repo.MarkReturned(ctx, a.ID, time.Now())
			Expect(err).NotTo(HaveOccurred())

			_, err = repo.MarkReturned(ctx, a.ID, time.Now())
			Expect(err).To(Equal(internal.ErrAssignmentReturned))
			expectStatusMatchesLedger()
		})

		It("returns NotFound for unknown assignments", func() {
			_, err := repo.MarkReturned(ctx, 4242, time.Now())
			Expect(err).To(Equal(internal.ErrAssignmentNotFound))
		})
	})

	Describe("ledger listings", func() {
		It("joins equipment and employee details, newest first", func() {
			monitor := createEquipment("Dell U2720Q")

			older := newAssignment(laptop.ID, employee.ID)
			older.AssignedAt = time.Now().Add(-48 * time.Hour)
			Expect(repo.Assign(ctx, older)).To(Succeed())
			_, err := repo.MarkReturned(ctx, older.ID, time.Now().Add(-24*time.Hour))
			Expect(err).NotTo(HaveOccurred())

			newer := newAssignment(monitor.ID, employee.ID)
			Expect(repo.Assign(ctx, newer)).To(Succeed())

			rows, err := repo.ListByUser(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].ID).To(Equal(newer.ID))
			Expect(rows[0].EquipmentName).To(Equal("Dell U2720Q"))
			Expect(rows[0].UserEmail).To(Equal("u1@example.com"))
			Expect(rows[1].ReturnedAt).NotTo(BeNil())

			open, err := repo.ListLedger(ctx, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(open).To(HaveLen(1))
			Expect(open[0].ID).To(Equal(newer.ID))

			all, err := repo.ListLedger(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			none, err := repo.ListByUser(ctx, other.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(none).To(BeEmpty())
		})
	})

	Describe("ListEquipment", func() {
		It("filters by status", func() {
			createEquipment("Keyboard")
			Expect(repo.Assign(ctx, newAssignment(laptop.ID, employee.ID))).To(Succeed())

			assigned, err := repo.ListEquipment(ctx, inventoryDatamodel.StatusAssigned)
			Expect(err).NotTo(HaveOccurred())
			Expect(assigned).To(HaveLen(1))
			Expect(assigned[0].ID).To(Equal(laptop.ID))

			all, err := repo.ListEquipment(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("Reconcile", func() {
		It("repairs drifted statuses from the ledger", func() {
			headset := createEquipment("Headset")
			Expect(repo.Assign(ctx, newAssignment(laptop.ID, employee.ID))).To(Succeed())

			// simulate drift
			Expect(db.Model(&inventoryDatamodel.EquipmentItem{}).Where("id = ?", laptop.ID).
				Update("status", inventoryDatamodel.StatusAvailable).Error).To(Succeed())
			Expect(db.Model(&inventoryDatamodel.EquipmentItem{}).Where("id = ?", headset.ID).
				Update("status", inventoryDatamodel.StatusAssigned).Error).To(Succeed())

			report, err := repo.Reconcile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.MarkedAssigned).To(ConsistOf(laptop.ID))
			Expect(report.MarkedAvailable).To(ConsistOf(headset.ID))
			Expect(report.DuplicateOpen).To(BeEmpty())
			expectStatusMatchesLedger()

			again, err := repo.Reconcile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Changed()).To(BeFalse())
		})

		It("reports equipment with more than one open assignment", func() {
			Expect(repo.Assign(ctx, newAssignment(laptop.ID, employee.ID))).To(Succeed())
			Expect(db.Create(newAssignment(laptop.ID, other.ID)).Error).To(Succeed())

			report, err := repo.Reconcile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.DuplicateOpen).To(ConsistOf(laptop.ID))
		})
	})
})

var _ = Describe("InventoryRepository with several connections", func() {
	var (
		db   *gorm.DB
		repo inventory.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		// a file database lets each goroutine hold its own connection; BEGIN IMMEDIATE
		// makes writers queue on the database lock instead of failing
		dsn := "file:" + filepath.Join(GinkgoT().TempDir(), "inventory.db") + "?_txlock=immediate&_busy_timeout=10000"
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(8)

		Expect(db.AutoMigrate(datamodel.All()...)).To(Succeed())
		Expect(db.Exec("CREATE UNIQUE INDEX uq_assignments_open_equipment ON assignments (equipment_id) WHERE returned_at IS NULL").Error).To(Succeed())
		repo = NewInventoryRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("lets exactly one of several concurrent assigners win", func() {
		const workers = 8

		userIDs := make([]int64, workers)
		for i := range userIDs {
			u := &userDatamodel.User{
				Email: fmt.Sprintf("w%d@example.com", i), Name: "worker", PasswordHash: "x",
				Role: internal.RoleEmployee, IsActive: true,
			}
			Expect(db.Create(u).Error).To(Succeed())
			userIDs[i] = u.ID
		}
		item := &inventoryDatamodel.EquipmentItem{Name: "Monitor", Status: inventoryDatamodel.StatusAvailable, CreatedAt: time.Now()}
		Expect(repo.CreateEquipment(ctx, item)).To(Succeed())

		start := make(chan struct{})
		results := make(chan error, workers)
		var wg sync.WaitGroup
		for _, userID := range userIDs {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				<-start
				results <- repo.Assign(ctx, &inventoryDatamodel.Assignment{
					EquipmentID: item.ID, UserID: userID, AssignedAt: time.Now(),
				})
			}(userID)
		}
		close(start)
		wg.Wait()
		close(results)

		successes, conflicts := 0, 0
		for err := range results {
			switch err {
			case nil:
				successes++
			case internal.ErrEquipmentNotAvailable:
				conflicts++
			default:
				Fail("unexpected error: " + err.Error())
			}
		}
		Expect(successes).To(Equal(1))
		Expect(conflicts).To(Equal(workers - 1))

		var open int64
		Expect(db.Model(&inventoryDatamodel.Assignment{}).
			Where("equipment_id = ? AND returned_at IS NULL", item.ID).
			Count(&open).Error).To(Succeed())
		Expect(open).To(Equal(int64(1)))

		stored, err := repo.GetEquipment(ctx, item.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Status).To(Equal(inventoryDatamodel.StatusAssigned))
	})
})
