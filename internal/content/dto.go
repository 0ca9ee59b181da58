package content

import "github.com/frahmantamala/onboarding-tracker/internal/core/common/validation"

type AnnouncementDTO struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (dto AnnouncementDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("body", dto.Body).Required().MaxLength(10000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type FAQDTO struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (dto FAQDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("question", dto.Question).Required().MaxLength(500)
	v.Field("answer", dto.Answer).Required().MaxLength(5000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
