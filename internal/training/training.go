package training

import (
	"time"

	trainingDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/training"
)

const (
	AttendanceUpcoming = trainingDatamodel.AttendanceUpcoming
	AttendanceGoing    = trainingDatamodel.AttendanceGoing
	AttendanceNotGoing = trainingDatamodel.AttendanceNotGoing
)

var Attendances = []string{AttendanceUpcoming, AttendanceGoing, AttendanceNotGoing}

type Training struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Location    *string   `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MyTraining is a training as seen by one employee.
type MyTraining struct {
	Training
	Attendance string `json:"attendance"`
}

type Attendance struct {
	TrainingID int64     `json:"training_id"`
	UserID     int64     `json:"user_id"`
	Attendance string    `json:"attendance"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromDataModel(t *trainingDatamodel.Training) *Training {
	return &Training{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		StartsAt:    t.StartsAt,
		Location:    t.Location,
		CreatedAt:   t.CreatedAt,
	}
}

func FromDataModelSlice(trainings []*trainingDatamodel.Training) []*Training {
	result := make([]*Training, len(trainings))
	for i, t := range trainings {
		result[i] = FromDataModel(t)
	}
	return result
}

func MineFromDataModelSlice(rows []*trainingDatamodel.AttendanceRow) []*MyTraining {
	result := make([]*MyTraining, len(rows))
	for i, r := range rows {
		attendance := r.Attendance
		if attendance == "" {
			attendance = AttendanceUpcoming
		}
		result[i] = &MyTraining{
			Training:   *FromDataModel(&r.Training),
			Attendance: attendance,
		}
	}
	return result
}
