package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// Report JSON field names so clients can match errors to their payload
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// notblank rejects strings made only of whitespace
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				return true
			}
			field = field.Elem()
		}
		return field.Kind() != reflect.String || strings.TrimSpace(field.String()) != ""
	})
}

// ValidateStruct validates data and returns one FieldError per failed rule
func ValidateStruct(data interface{}) []apperror.FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []apperror.FieldError{{Field: "", Message: err.Error()}}
	}

	fieldErrors := make([]apperror.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return fieldErrors
}

// Validate wraps ValidateStruct into an AppError, or returns nil
func Validate(data interface{}) error {
	if fieldErrors := ValidateStruct(data); len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "failed on " + fe.Tag()
	}
}
