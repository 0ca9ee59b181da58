package document

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/core/common/validation"
)

type UploadDTO struct {
	DocType string
	FileRef string
}

func (dto UploadDTO) Validate() error {
	if err := ValidateDocType(dto.DocType); err != nil {
		return err
	}
	if strings.TrimSpace(dto.FileRef) == "" {
		return internal.ErrMissingFile
	}
	return nil
}

// ValidateDocType accepts any non-blank type up to MaxDocTypeLength characters.
func ValidateDocType(docType string) error {
	if strings.TrimSpace(docType) == "" {
		return internal.ErrMissingDocType
	}
	if len(docType) > MaxDocTypeLength {
		return internal.NewValidationFieldError("docType",
			fmt.Sprintf("docType must not exceed %d characters", MaxDocTypeLength), internal.ErrCodeValidationFailed)
	}
	return nil
}

type ReviewDTO struct {
	Status  string  `json:"status"`
	Comment *string `json:"comment,omitempty"`
}

func (dto ReviewDTO) Validate() error {
	if dto.Status != StatusApproved && dto.Status != StatusRejected {
		return internal.ErrInvalidReviewStatus
	}
	v := validation.NewValidator()
	v.Field("comment", dto.Comment).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UploadResponse struct {
	ID      int64  `json:"id"`
	FileRef string `json:"file_ref"`
}
