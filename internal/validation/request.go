package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// A `label` tag overrides the field name used in messages.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
			return f.Name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Struct validates a request DTO using its `validate` tags and returns the
// first failure as a readable message.
func Struct(req any) error {
	err := instance().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Errorf("%s is required.", field)
	case "max":
		return fmt.Errorf("%s must be at most %s characters.", field, fe.Param())
	case "min":
		return fmt.Errorf("%s must be at least %s characters.", field, fe.Param())
	default:
		return fmt.Errorf("%s is not valid.", field)
	}
}
