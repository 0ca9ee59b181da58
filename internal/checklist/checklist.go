package checklist

import (
	"math"
	"sort"
	"time"

	checklistDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/checklist"
)

const (
	StageDay1   = checklistDatamodel.StageDay1
	StageWeek1  = checklistDatamodel.StageWeek1
	StageMonth1 = checklistDatamodel.StageMonth1

	StatusPending = checklistDatamodel.StatusPending
	StatusDone    = checklistDatamodel.StatusDone
)

var Stages = []string{StageDay1, StageWeek1, StageMonth1}

// StageRank orders stages DAY1 < WEEK1 < MONTH1; unknown stages sort last.
func StageRank(stage string) int {
	for i, s := range Stages {
		if s == stage {
			return i
		}
	}
	return len(Stages)
}

type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Stage       string    `json:"stage"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Entry is one employee's progress on one template item.
type Entry struct {
	ItemID      int64     `json:"item_id"`
	Title       string    `json:"title"`
	Stage       string    `json:"stage"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *Entry) IsDone() bool {
	return e.Status == StatusDone
}

type Progress struct {
	Total      int64 `json:"total"`
	Done       int64 `json:"done"`
	Percentage int   `json:"percentage"`
}

func NewProgress(total, done int64) Progress {
	p := Progress{Total: total, Done: done}
	if total > 0 {
		p.Percentage = int(math.Round(float64(done) / float64(total) * 100))
	}
	return p
}

// SortEntries orders entries by stage rank, then by item id.
func SortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := StageRank(entries[i].Stage), StageRank(entries[j].Stage)
		if ri != rj {
			return ri < rj
		}
		return entries[i].ItemID < entries[j].ItemID
	})
}

func NewItem(dto ItemDTO, now time.Time) *checklistDatamodel.ChecklistItem {
	return &checklistDatamodel.ChecklistItem{
		Title:       dto.Title,
		Stage:       dto.Stage,
		Description: dto.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ItemFromDataModel(i *checklistDatamodel.ChecklistItem) *Item {
	return &Item{
		ID:          i.ID,
		Title:       i.Title,
		Stage:       i.Stage,
		Description: i.Description,
		IsActive:    i.IsActive,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func ItemsFromDataModelSlice(items []*checklistDatamodel.ChecklistItem) []*Item {
	result := make([]*Item, len(items))
	for i, item := range items {
		result[i] = ItemFromDataModel(item)
	}
	return result
}

func EntryFromDataModel(r *checklistDatamodel.EntryRow) *Entry {
	return &Entry{
		ItemID:      r.ItemID,
		Title:       r.Title,
		Stage:       r.Stage,
		Description: r.Description,
		Status:      r.Status,
		UpdatedAt:   r.UpdatedAt,
	}
}
