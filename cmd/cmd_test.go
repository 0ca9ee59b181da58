package cmd

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel"
	checklistDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/checklist"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("loadConfig", func() {
	It("reads and validates the repository config.yml", func() {
		cfg, err := loadConfig("..")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(15 * time.Minute))
		Expect(cfg.Documents.AllowReReview).To(BeTrue())
		Expect(cfg.Storage.MaxUploadSize).To(Equal(int64(10 << 20)))
		Expect(cfg.Database.GetDSN()).To(HavePrefix("postgres://onboarding:"))
	})

	It("fails when no config file exists", func() {
		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("seed", func() {
	var (
		db  *gorm.DB
		ctx context.Context
		lg  *slog.Logger
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(datamodel.All()...)).To(Succeed())
		lg = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("loads the sample file and instantiates every employee checklist", func() {
		data, err := readSeedFile("../db/seed.yml")
		Expect(err).NotTo(HaveOccurred())

		report, err := seed(ctx, db, data, bcrypt.MinCost, lg)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Users).To(Equal(len(data.Users)))
		Expect(report.ChecklistItems).To(Equal(len(data.Checklist)))
		Expect(report.Entries).To(Equal(int64(2 * len(data.Checklist))))

		var rows int64
		Expect(db.Model(&checklistDatamodel.UserChecklistEntry{}).Count(&rows).Error).To(Succeed())
		Expect(report.Entries).To(Equal(rows))

		var hr userDatamodel.User
		Expect(db.Where("role = ?", internal.RoleHR).First(&hr).Error).To(Succeed())
		Expect(bcrypt.CompareHashAndPassword([]byte(hr.PasswordHash), []byte("change-me-hr"))).To(Succeed())
	})

	It("is idempotent", func() {
		data, err := readSeedFile("../db/seed.yml")
		Expect(err).NotTo(HaveOccurred())

		_, err = seed(ctx, db, data, bcrypt.MinCost, lg)
		Expect(err).NotTo(HaveOccurred())
		again, err := seed(ctx, db, data, bcrypt.MinCost, lg)
		Expect(err).NotTo(HaveOccurred())
		Expect(*again).To(Equal(seedReport{}))

		var items int64
		Expect(db.Model(&checklistDatamodel.ChecklistItem{}).Count(&items).Error).To(Succeed())
		Expect(items).To(Equal(int64(len(data.Checklist))))
	})

	It("rejects unknown roles", func() {
		data := &seedData{Users: []seedUser{{Email: "x@example.com", Name: "X", Password: "password", Role: "ADMIN"}}}

		_, err := seed(ctx, db, data, bcrypt.MinCost, lg)
		Expect(err).To(MatchError(ContainSubstring("unknown role")))
	})

	It("clears seeded tables", func() {
		data, err := readSeedFile("../db/seed.yml")
		Expect(err).NotTo(HaveOccurred())
		_, err = seed(ctx, db, data, bcrypt.MinCost, lg)
		Expect(err).NotTo(HaveOccurred())

		Expect(clearSeedData(db)).To(Succeed())
		var users int64
		Expect(db.Model(&userDatamodel.User{}).Count(&users).Error).To(Succeed())
		Expect(users).To(BeZero())
	})
})
