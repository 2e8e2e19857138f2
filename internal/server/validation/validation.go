// Package validation checks request payloads with go-playground/validator
// and reports failures as field-level errors addressed by location, e.g.
// ["body", "email"].
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one invalid input value.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Errors is a non-empty list of field errors.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, strings.Join(fe.Loc, ".")+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

// maxBytes limits the encoded length of a string, unlike max which counts
// runes. bcrypt rejects passwords longer than 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// Struct validates v against its `validate` tags. It returns nil or Errors
// located under "body".
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, translate(fe))
	}
	return out
}

func translate(fe validator.FieldError) FieldError {
	loc := append([]string{"body"}, fieldPath(fe.Namespace())...)

	switch fe.Tag() {
	case "required":
		return FieldError{Loc: loc, Msg: "field required", Type: "value_error.missing"}
	case "email":
		return FieldError{Loc: loc, Msg: "value is not a valid email address", Type: "value_error.email"}
	case "max":
		return FieldError{
			Loc:  loc,
			Msg:  fmt.Sprintf("ensure this value has at most %s characters", fe.Param()),
			Type: "value_error.any_str.max_length",
		}
	case "maxbytes":
		return FieldError{
			Loc:  loc,
			Msg:  fmt.Sprintf("ensure this value has at most %s bytes", fe.Param()),
			Type: "value_error.any_str.max_length",
		}
	case "min":
		return FieldError{
			Loc:  loc,
			Msg:  fmt.Sprintf("ensure this value has at least %s characters", fe.Param()),
			Type: "value_error.any_str.min_length",
		}
	default:
		return FieldError{Loc: loc, Msg: fmt.Sprintf("failed on the %q rule", fe.Tag()), Type: "value_error"}
	}
}

// fieldPath drops the top-level struct name from a validator namespace.
func fieldPath(ns string) []string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		return parts[1:]
	}
	return parts
}

// DecodeError converts a request body decoding failure into Errors.
func DecodeError(err error) Errors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		loc := append([]string{"body"}, strings.Split(typeErr.Field, ".")...)
		return Errors{{
			Loc:  loc,
			Msg:  fmt.Sprintf("value is not a valid %s", typeErr.Type.Kind()),
			Type: "type_error." + typeErr.Type.Kind().String(),
		}}
	}

	return Errors{{Loc: []string{"body"}, Msg: "could not parse request body", Type: "value_error.jsondecode"}}
}

// PathInt reports a path parameter that is not a valid integer.
func PathInt(name string) Errors {
	return Errors{{Loc: []string{"path", name}, Msg: "value is not a valid integer", Type: "type_error.integer"}}
}
