// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("not_blank", validateNotBlank)
		_ = v.RegisterValidation("cents", validateCents)
	}
}

// validateNotBlank rejects strings that are empty or all whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateCents rejects non-positive monetary amounts.
func validateCents(fl validator.FieldLevel) bool {
	return fl.Field().Int() > 0
}
