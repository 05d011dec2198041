package middleware

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the validate tags of a request struct and returns a
// field -> message map, empty when the struct is valid.
func ValidateStruct(s interface{}) map[string]string {
	errs := make(map[string]string)
	if err := validate.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			errs["request"] = "Invalid request data!"
			return errs
		}
		for _, fieldErr := range validationErrors {
			field := strings.ToLower(fieldErr.Field())
			errs[field] = validationMessage(fieldErr)
		}
	}
	return errs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "min":
		return fmt.Sprintf("Must be at least %s!", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s!", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s!", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s!", fe.Param())
	default:
		return "Invalid value!"
	}
}
