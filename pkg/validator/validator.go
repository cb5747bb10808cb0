package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrValidation marks request-shape failures so the transport can map
// them apart from business-rule and infrastructure errors.
var ErrValidation = errors.New("validation failed")

var validate = validator.New()

func init() {
	// uuid.UUID fields cannot use the builtin "required" tag (zero UUID is
	// not Go's zero struct for it), so register a dedicated check.
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

// ValidateStruct runs tag validation and reports the first failure as a
// single caller-facing error.
func ValidateStruct(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}
	first := errs[0]
	return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, first.StructNamespace(), first.Tag())
}
