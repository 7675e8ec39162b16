package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldErrors flattens validator output into a field -> message map
// keyed by the struct field's snake_case name.
func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}

	for _, fe := range verrs {
		out[snakeCase(fe.Field())] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return "Too short"
	case "nefield":
		return "Must differ from " + snakeCase(fe.Param())
	default:
		return "Invalid value"
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
