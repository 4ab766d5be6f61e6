package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront-api/internal/apperr"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError turns the first failed rule into a client-facing message.
func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return apperr.Validation("Invalid input")
	}

	fe := ves[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperr.Validation(fmt.Sprintf("%s is required", field))
	case "gt":
		return apperr.Validation(fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
	case "gte":
		return apperr.Validation(fmt.Sprintf("%s must not be negative", field))
	case "min":
		return apperr.Validation(fmt.Sprintf("%s must have at least %s entries", field, fe.Param()))
	case "email":
		return apperr.Validation("Please enter a valid email")
	default:
		return apperr.Validation(fmt.Sprintf("%s is invalid", field))
	}
}
