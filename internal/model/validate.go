package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every model validation failure.
var ErrInvalid = errors.New("validation failed")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report column names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("db"); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate checks the struct tags of a model before it is written.
func Validate(m any) error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, ", "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

// ErrCrossRestaurantLink is returned when a menu and a menu item owned by
// different restaurants are about to be linked.
var ErrCrossRestaurantLink = errors.New("menu and menu item belong to different restaurants")

// ErrConflict is returned when a write collides with an existing row on a
// unique key.
var ErrConflict = errors.New("conflict")

// ValidatePriceCents checks a price that is written on its own, as in a
// price update.
func ValidatePriceCents(cents int64) error {
	if cents < 0 {
		return fmt.Errorf("%w: price_cents must be greater than or equal to 0", ErrInvalid)
	}
	if cents > MaxPriceCents {
		return fmt.Errorf("%w: price_cents must be less than or equal to %d", ErrInvalid, MaxPriceCents)
	}
	return nil
}
