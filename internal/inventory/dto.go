package inventory

import (
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/core/common/validation"
)

// CreateEquipmentDTO represents the request payload for registering equipment
type CreateEquipmentDTO struct {
	Name         string  `json:"name"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Category     *string `json:"category,omitempty"`
}

func (dto CreateEquipmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("serial_number", dto.SerialNumber).MaxLength(120)
	v.Field("category", dto.Category).MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// AssignDTO represents the request payload for handing equipment to an employee
type AssignDTO struct {
	UserID      int64      `json:"userId"`
	EquipmentID int64      `json:"equipmentId"`
	DueBackAt   *time.Time `json:"dueBackAt,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

func (dto AssignDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", dto.UserID).Required().MinInt(1, internal.ErrCodeValidationFailed)
	v.Field("equipmentId", dto.EquipmentID).Required().MinInt(1, internal.ErrCodeValidationFailed)
	v.Field("dueBackAt", dto.DueBackAt).NotPast()
	v.Field("notes", dto.Notes).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AssignResponse struct {
	ID int64 `json:"id"`
}
