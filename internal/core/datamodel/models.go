package datamodel

import (
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/audit"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/checklist"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/content"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/document"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/inventory"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/training"
	"github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
)

// All returns every persisted model in dependency order. Production schemas
// come from the goose migrations; this list feeds AutoMigrate in SQLite suites.
func All() []interface{} {
	return []interface{}{
		&user.User{},
		&inventory.EquipmentItem{},
		&inventory.Assignment{},
		&checklist.ChecklistItem{},
		&checklist.UserChecklistEntry{},
		&document.Document{},
		&training.Training{},
		&training.TrainingAttendance{},
		&content.Announcement{},
		&content.FAQ{},
		&audit.Event{},
	}
}
