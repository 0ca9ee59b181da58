package checklist

import (
	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/core/common/validation"
)

// ItemDTO is the payload for creating or replacing a template item
type ItemDTO struct {
	Title       string  `json:"title"`
	Stage       string  `json:"stage"`
	Description *string `json:"description,omitempty"`
}

func (dto ItemDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("stage", dto.Stage).Required().OneOf(internal.ErrCodeInvalidStage, Stages...)
	v.Field("description", dto.Description).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SetStatusDTO struct {
	Status string `json:"status"`
}

func (dto SetStatusDTO) Validate() error {
	if dto.Status != StatusPending && dto.Status != StatusDone {
		return internal.ErrInvalidChecklistStatus
	}
	return nil
}

type InstantiateResponse struct {
	UserID  int64 `json:"user_id"`
	Created int64 `json:"created"`
}
