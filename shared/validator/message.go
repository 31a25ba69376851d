package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"notblank":    "{field} is required",
		"gte":         "{field} must be greater than or equal to {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"simpleemail": "{field} must be a valid email address",
		"frphone":     "{field} must be a valid French phone number",
		"dayfuture":   "{field} must be today or a future date",
		"trimmin":     "{field} must be at least {param} characters",
	}
)

func render(valErr val.FieldError) string {
	errStr := messages[valErr.Tag()]
	if errStr == "" {
		return valErr.Error()
	}

	errStr = strings.ReplaceAll(errStr, "{field}", valErr.Field())
	errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

	return errStr
}

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			return render(valErr)
		}

		return valErrors.Error()
	}

	return err.Error()
}

// Fields maps every violated field to its message. The validator evaluates all fields,
// so one invalid field never hides another.
func Fields(err error) map[string]string {
	if err == nil {
		return map[string]string{}
	}

	fields := map[string]string{}

	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		fields[""] = err.Error()

		return fields
	}

	for _, valErr := range valErrors {
		if _, taken := fields[valErr.Field()]; taken {
			continue
		}

		fields[valErr.Field()] = render(valErr)
	}

	return fields
}
