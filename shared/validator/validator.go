package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"

	"croisiere/shared/failure"
	"croisiere/shared/timezone"
)

var validate *val.Validate

// French subscriber numbers: optional +33 / 0033 country prefix or a leading 0,
// a first digit 1-9, then four groups of two digits with optional separators.
var phonePattern = regexp.MustCompile(`^(?:(?:\+|00)\s?33[\s.-]?|0)[1-9](?:[\s.-]?\d{2}){4}$`)

// local@domain with a dot-separated domain. Deliberately looser than RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func registerNotBlankValidation(field val.FieldLevel) bool {
	if str, ok := field.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}

	return !field.Field().IsZero()
}

func registerTrimMinValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	minLen, err := strconv.Atoi(field.Param())
	if err != nil {
		return false
	}

	return len([]rune(strings.TrimSpace(str))) >= minLen
}

func registerFrPhoneValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	return phonePattern.MatchString(strings.TrimSpace(str))
}

func registerSimpleEmailValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	return emailPattern.MatchString(strings.TrimSpace(str))
}

// registerDayFutureValidation accepts dates that are today or later. The comparison is
// done at day granularity in the application timezone, the time component is ignored.
func registerDayFutureValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(str), timezone.GetLocation())
	if err != nil {
		return false
	}

	now := timezone.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, timezone.GetLocation())

	return !day.Before(today)
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	for tag, fn := range map[string]val.Func{
		"notblank":    registerNotBlankValidation,
		"trimmin":     registerTrimMinValidation,
		"frphone":     registerFrPhoneValidation,
		"simpleemail": registerSimpleEmailValidation,
		"dayfuture":   registerDayFutureValidation,
	} {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
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

// Check runs the validation rules without folding the result into a single error.
// Every violated field is reported, keyed by its json name.
func Check[T any](data *T) map[string]string {
	return Fields(validate.Struct(data))
}
