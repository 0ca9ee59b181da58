package user

import (
	"net/mail"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/core/common/validation"
)

const minPasswordLength = 8

type CreateEmployeeDTO struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Password   string  `json:"password"`
	Department *string `json:"department,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().MaxLength(254).Custom(func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if addr, err := mail.ParseAddress(s); err != nil || addr.Address != s {
			return internal.NewValidationFieldError("email", "email is not a valid address", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("password", dto.Password).Required().MinLength(minPasswordLength).MaxLength(72)
	v.Field("department", dto.Department).MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
