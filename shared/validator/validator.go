package validator

import (
	"encoding/json"
	"fmt"
	"homefix/shared/constant"
	"homefix/shared/failure"
	"io"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// MaxTimeSlotLength matches the time slot columns.
const MaxTimeSlotLength = 50

// validateTimeSlot accepts any free-text window ("10:00-12:00", "morning", "after 5pm") that
// is not blank, fits the column and carries no control characters.
func validateTimeSlot(field val.FieldLevel) bool {
	slot := field.Field().String()
	if strings.TrimSpace(slot) == constant.Empty || utf8.RuneCountInString(slot) > MaxTimeSlotLength {
		return false
	}

	return !strings.ContainsFunc(slot, unicode.IsControl)
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return constant.Empty
	}

	if name == constant.Empty {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		empty := fl.Field().IsZero()

		return empty
	})

	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("timeslot", validateTimeSlot)
	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
