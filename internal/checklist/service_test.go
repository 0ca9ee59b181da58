package checklist_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/checklist"
	checklistPostgres "github.com/frahmantamala/onboarding-tracker/internal/checklist/postgres"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
)

func TestChecklistService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Checklist Service Suite")
}

var _ = Describe("Progress", func() {
	It("is zero when there are no entries", func() {
		Expect(checklist.NewProgress(0, 0)).To(Equal(checklist.Progress{}))
	})

	It("rounds to the nearest percent", func() {
		Expect(checklist.NewProgress(3, 1).Percentage).To(Equal(33))
		Expect(checklist.NewProgress(3, 2).Percentage).To(Equal(67))
		Expect(checklist.NewProgress(4, 4).Percentage).To(Equal(100))
	})
})

var _ = Describe("SortEntries", func() {
	It("orders by stage rank then item id", func() {
		entries := []*checklist.Entry{
			{ItemID: 5, Stage: checklist.StageMonth1},
			{ItemID: 9, Stage: checklist.StageDay1},
			{ItemID: 2, Stage: checklist.StageWeek1},
			{ItemID: 3, Stage: checklist.StageDay1},
		}
		checklist.SortEntries(entries)

		var ids []int64
		for _, e := range entries {
			ids = append(ids, e.ItemID)
		}
		Expect(ids).To(Equal([]int64{3, 9, 2, 5}))
	})
})

var _ = Describe("Checklist Service", func() {
	var (
		db       *gorm.DB
		service  *checklist.Service
		ctx      context.Context
		employee *userDatamodel.User
	)

	createItem := func(title, stage string) *checklist.Item {
		item, err := service.CreateItem(ctx, checklist.ItemDTO{Title: title, Stage: stage})
		Expect(err).NotTo(HaveOccurred())
		return item
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(datamodel.All()...)).To(Succeed())

		service = checklist.NewService(checklistPostgres.NewChecklistRepository(db), slogger)

		employee = &userDatamodel.User{Email: "new@example.com", Name: "New Hire", PasswordHash: "x", Role: internal.RoleEmployee, IsActive: true}
		Expect(db.Create(employee).Error).To(Succeed())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("CreateItem", func() {
		It("rejects unknown stages", func() {
			_, err := service.CreateItem(ctx, checklist.ItemDTO{Title: "Lunch", Stage: "YEAR1"})
			Expect(internal.IsKind(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("adds the new item to existing employees", func() {
			createItem("Sign contract", checklist.StageDay1)

			entries, err := service.ListForUser(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Status).To(Equal(checklist.StatusPending))
		})
	})

	Describe("InstantiateForUser", func() {
		It("is idempotent and picks up new template items", func() {
			var later *userDatamodel.User
			createItem("Meet the team", checklist.StageWeek1)

			later = &userDatamodel.User{Email: "later@example.com", Name: "Later", PasswordHash: "x", Role: internal.RoleEmployee, IsActive: true}
			Expect(db.Create(later).Error).To(Succeed())

			created, err := service.InstantiateForUser(ctx, later.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(Equal(int64(1)))

			created, err = service.InstantiateForUser(ctx, later.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeZero())

			// inserted directly so the automatic fan-out does not run
			Expect(db.Create(checklist.NewItem(checklist.ItemDTO{Title: "Security training", Stage: checklist.StageMonth1}, later.CreatedAt)).Error).To(Succeed())

			created, err = service.InstantiateForUser(ctx, later.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(Equal(int64(1)))

			entries, err := service.ListForUser(ctx, later.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
		})

		It("returns NotFound for unknown users", func() {
			_, err := service.InstantiateForUser(ctx, 9999)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("listing and progress", func() {
		var day1, week1, month1 *checklist.Item

		BeforeEach(func() {
			month1 = createItem("30 day review", checklist.StageMonth1)
			day1 = createItem("Collect badge", checklist.StageDay1)
			week1 = createItem("Set up laptop", checklist.StageWeek1)
		})

		It("lists entries DAY1, WEEK1, MONTH1", func() {
			entries, err := service.ListForUser(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
			Expect(entries[0].ItemID).To(Equal(day1.ID))
			Expect(entries[1].ItemID).To(Equal(week1.ID))
			Expect(entries[2].ItemID).To(Equal(month1.ID))
		})

		It("tracks progress through DONE and back to PENDING", func() {
			progress, err := service.GetProgress(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress).To(Equal(checklist.Progress{Total: 3, Done: 0, Percentage: 0}))

			for _, item := range []*checklist.Item{day1, week1, month1} {
				entry, err := service.SetStatus(ctx, employee.ID, item.ID, checklist.SetStatusDTO{Status: checklist.StatusDone})
				Expect(err).NotTo(HaveOccurred())
				Expect(entry.IsDone()).To(BeTrue())
			}

			progress, err = service.GetProgress(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress.Percentage).To(Equal(100))

			entry, err := service.SetStatus(ctx, employee.ID, week1.ID, checklist.SetStatusDTO{Status: checklist.StatusPending})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Status).To(Equal(checklist.StatusPending))

			progress, err = service.GetProgress(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress).To(Equal(checklist.Progress{Total: 3, Done: 2, Percentage: 67}))
		})

		It("rejects statuses other than PENDING and DONE", func() {
			_, err := service.SetStatus(ctx, employee.ID, day1.ID, checklist.SetStatusDTO{Status: "SKIPPED"})
			Expect(err).To(Equal(internal.ErrInvalidChecklistStatus))
		})

		It("returns NotFound for entries the user does not have", func() {
			_, err := service.SetStatus(ctx, employee.ID, 9999, checklist.SetStatusDTO{Status: checklist.StatusDone})
			Expect(err).To(Equal(internal.ErrChecklistEntryNotFound))
		})

		It("hides deactivated items from listings and progress", func() {
			_, err := service.SetStatus(ctx, employee.ID, month1.ID, checklist.SetStatusDTO{Status: checklist.StatusDone})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeactivateItem(ctx, month1.ID)).To(Succeed())
			Expect(service.DeactivateItem(ctx, month1.ID)).To(Succeed())

			entries, err := service.ListForUser(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))

			progress, err := service.GetProgress(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress).To(Equal(checklist.Progress{Total: 2, Done: 0, Percentage: 0}))

			_, err = service.SetStatus(ctx, employee.ID, month1.ID, checklist.SetStatusDTO{Status: checklist.StatusPending})
			Expect(err).To(Equal(internal.ErrChecklistEntryNotFound))

			active, err := service.ListItems(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(HaveLen(2))

			all, err := service.ListItems(ctx, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
		})

		It("updates template items in place", func() {
			updated, err := service.UpdateItem(ctx, week1.ID, checklist.ItemDTO{Title: "Laptop and VPN", Stage: checklist.StageDay1})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Stage).To(Equal(checklist.StageDay1))

			entries, err := service.ListForUser(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries[0].ItemID).To(Equal(day1.ID))
			Expect(entries[1].ItemID).To(Equal(week1.ID))
			Expect(entries[1].Title).To(Equal("Laptop and VPN"))

			_, err = service.UpdateItem(ctx, 9999, checklist.ItemDTO{Title: "x", Stage: checklist.StageDay1})
			Expect(err).To(Equal(internal.ErrChecklistItemNotFound))
		})
	})
})
