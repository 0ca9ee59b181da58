package training

import (
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/core/common/validation"
)

type CreateTrainingDTO struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Location    *string   `json:"location,omitempty"`
}

func (dto CreateTrainingDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("description", dto.Description).MaxLength(2000)
	v.Field("starts_at", dto.StartsAt).Required()
	v.Field("location", dto.Location).MaxLength(200)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SetAttendanceDTO struct {
	Attendance string `json:"attendance"`
}

func (dto SetAttendanceDTO) Validate() error {
	for _, a := range Attendances {
		if dto.Attendance == a {
			return nil
		}
	}
	return internal.ErrInvalidAttendance
}
