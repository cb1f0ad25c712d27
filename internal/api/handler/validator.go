package handler

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"college-erp/internal/model"
	"college-erp/internal/service"
)

// RegisterValidators installs the custom binding tags used by the request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.IsRegistrableRole(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("dropdown_field", func(fl validator.FieldLevel) bool {
		return service.IsDropdownField(fl.Field().String())
	})
}
