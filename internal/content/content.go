package content

import (
	"time"

	contentDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/content"
)

type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type FAQ struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

func AnnouncementFromDataModel(a *contentDatamodel.Announcement) *Announcement {
	return &Announcement{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}

func FAQFromDataModel(f *contentDatamodel.FAQ) *FAQ {
	return &FAQ{
		ID:        f.ID,
		Question:  f.Question,
		Answer:    f.Answer,
		CreatedAt: f.CreatedAt,
	}
}
