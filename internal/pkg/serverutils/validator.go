package serverutils

import (
	"fmt"

	"demarches-be/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and wraps
// failures in the domain validation error so the error middleware maps them
// to a 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrValidationFailed, err.Error())
	}
	return nil
}
