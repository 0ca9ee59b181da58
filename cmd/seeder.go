package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/auth"
	"github.com/frahmantamala/onboarding-tracker/internal/checklist"
	checklistPostgres "github.com/frahmantamala/onboarding-tracker/internal/checklist/postgres"
	checklistDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/checklist"
	contentDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/content"
	inventoryDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/inventory"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

var (
	clearData bool
	seedFile  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed accounts, equipment, the checklist template and FAQs from a YAML file. Existing rows are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		data, err := readSeedFile(seedFile)
		if err != nil {
			return err
		}

		dbs, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer dbs.Close()

		if clearData {
			if err := clearSeedData(dbs.Gorm); err != nil {
				return err
			}
		}

		report, err := seed(cmd.Context(), dbs.Gorm, data, cfg.Security.BCryptCost, logger.L())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "users: %d, equipment: %d, checklist items: %d, faqs: %d, checklist entries: %d\n",
			report.Users, report.Equipment, report.ChecklistItems, report.FAQs, report.Entries)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "db/seed.yml", "YAML seed file")
}

type seedUser struct {
	Email      string  `yaml:"email"`
	Name       string  `yaml:"name"`
	Password   string  `yaml:"password"`
	Role       string  `yaml:"role"`
	Department *string `yaml:"department"`
}

type seedData struct {
	Users     []seedUser `yaml:"users"`
	Equipment []struct {
		Name         string  `yaml:"name"`
		SerialNumber *string `yaml:"serial_number"`
		Category     *string `yaml:"category"`
	} `yaml:"equipment"`
	Checklist []checklist.ItemDTO `yaml:"checklist"`
	FAQs      []struct {
		Question string `yaml:"question"`
		Answer   string `yaml:"answer"`
	} `yaml:"faqs"`
}

// seedReport counts rows created by this run.
type seedReport struct {
	Users          int
	Equipment      int
	ChecklistItems int
	FAQs           int
	Entries        int64
}

func readSeedFile(path string) (*seedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &data, nil
}

func seed(ctx context.Context, db *gorm.DB, data *seedData, bcryptCost int, lg *slog.Logger) (*seedReport, error) {
	report := &seedReport{}
	tx := db.WithContext(ctx)

	// new template items fan out to employees as they are created, so entries
	// are counted on the table rather than summed per call
	var entriesBefore int64
	if err := tx.Model(&checklistDatamodel.UserChecklistEntry{}).Count(&entriesBefore).Error; err != nil {
		return nil, err
	}

	for _, u := range data.Users {
		role := u.Role
		if role == "" {
			role = internal.RoleEmployee
		}
		if role != internal.RoleHR && role != internal.RoleEmployee {
			return nil, fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
		}

		email := auth.NormalizeEmail(u.Email)
		created, err := firstOrCreate(tx, &userDatamodel.User{}, "email = ?", email, func() (interface{}, error) {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
			if err != nil {
				return nil, err
			}
			return &userDatamodel.User{
				Email:        email,
				Name:         u.Name,
				PasswordHash: string(hash),
				Role:         role,
				Department:   u.Department,
				IsActive:     true,
			}, nil
		})
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", email, err)
		}
		if created {
			report.Users++
			lg.Info("seeded user", "email", email, "role", role)
		}
	}

	for _, e := range data.Equipment {
		created, err := firstOrCreate(tx, &inventoryDatamodel.EquipmentItem{}, "name = ?", e.Name, func() (interface{}, error) {
			return &inventoryDatamodel.EquipmentItem{
				Name:         e.Name,
				SerialNumber: e.SerialNumber,
				Category:     e.Category,
				Status:       inventoryDatamodel.StatusAvailable,
			}, nil
		})
		if err != nil {
			return nil, fmt.Errorf("seed equipment %s: %w", e.Name, err)
		}
		if created {
			report.Equipment++
		}
	}

	checklistService := checklist.NewService(checklistPostgres.NewChecklistRepository(db), lg)
	for _, item := range data.Checklist {
		var existing int64
		if err := tx.Model(&checklistDatamodel.ChecklistItem{}).Where("title = ?", item.Title).Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			continue
		}
		if _, err := checklistService.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("seed checklist item %q: %w", item.Title, err)
		}
		report.ChecklistItems++
	}

	for _, f := range data.FAQs {
		created, err := firstOrCreate(tx, &contentDatamodel.FAQ{}, "question = ?", f.Question, func() (interface{}, error) {
			return &contentDatamodel.FAQ{Question: f.Question, Answer: f.Answer}, nil
		})
		if err != nil {
			return nil, fmt.Errorf("seed faq: %w", err)
		}
		if created {
			report.FAQs++
		}
	}

	// bring every employee's checklist up to date with the template
	var employeeIDs []int64
	if err := tx.Model(&userDatamodel.User{}).Where("role = ?", internal.RoleEmployee).Pluck("id", &employeeIDs).Error; err != nil {
		return nil, err
	}
	for _, id := range employeeIDs {
		if _, err := checklistService.InstantiateForUser(ctx, id); err != nil {
			return nil, fmt.Errorf("instantiate checklist for user %d: %w", id, err)
		}
	}

	var entriesAfter int64
	if err := tx.Model(&checklistDatamodel.UserChecklistEntry{}).Count(&entriesAfter).Error; err != nil {
		return nil, err
	}
	report.Entries = entriesAfter - entriesBefore

	return report, nil
}

// firstOrCreate inserts the row built by build when no row matches the query.
func firstOrCreate(tx *gorm.DB, model interface{}, query string, arg interface{}, build func() (interface{}, error)) (bool, error) {
	err := tx.Where(query, arg).First(model).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	row, err := build()
	if err != nil {
		return false, err
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}

func clearSeedData(db *gorm.DB) error {
	tables := []string{
		"audit_events",
		"training_attendances",
		"trainings",
		"announcements",
		"faqs",
		"documents",
		"user_checklist_entries",
		"checklist_items",
		"assignments",
		"equipment_items",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
