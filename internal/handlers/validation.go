package handlers

import (
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validDecision backs the `decision` binding tag.
var validDecision validator.Func = func(fl validator.FieldLevel) bool {
	return domain.Decision(fl.Field().String()).IsValid()
}

// RegisterValidators adds the custom tags used by the request DTOs to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("decision", validDecision); err != nil {
		return fmt.Errorf("failed to register decision validator: %w", err)
	}
	return nil
}
