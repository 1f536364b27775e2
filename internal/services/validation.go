package services

import (
	"github.com/go-playground/validator/v10"

	"github.com/P3chys/studyshare-api/internal/models"
)

// newValidator registers the catalog-backed rules used by service payloads.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("branch", func(fl validator.FieldLevel) bool {
		return models.IsValidBranch(fl.Field().String())
	})
	_ = v.RegisterValidation("rtype", func(fl validator.FieldLevel) bool {
		return models.ResourceType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("examtype", func(fl validator.FieldLevel) bool {
		return models.ExamType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("rstatus", func(fl validator.FieldLevel) bool {
		return models.RequestStatus(fl.Field().String()).Valid()
	})
	return v
}
