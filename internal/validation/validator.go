package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phonePattern matches E.164-style phone numbers, optionally prefixed with '+'.
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names instead of struct field names in messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		jsonTag := fld.Tag.Get("json")
		name := strings.Split(jsonTag, ",")[0]
		if name == "" || name == "-" {
			return lowerFirst(fld.Name)
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return v
}

// FieldErrors maps JSON field names to validation error messages.
type FieldErrors map[string][]string

// ValidationError satisfies httpx.DomainProblem structurally, without
// importing it, so httpx.ToProblem can format it as a 400 problem.
type ValidationError struct {
	summary string
	fields  FieldErrors
}

func (e *ValidationError) Error() string { return e.summary }

func (e *ValidationError) ProblemCode() string    { return "ErrValidation" }
func (e *ValidationError) ProblemStatus() int     { return 400 }
func (e *ValidationError) ProblemTitle() string   { return "Validation error" }
func (e *ValidationError) ProblemDetail() string  { return e.summary }
func (e *ValidationError) ProblemTypeURI() string { return "urn:problem:validation-error" }
func (e *ValidationError) ProblemContext() any    { return map[string]any{"fields": e.fields} }

// NewError builds a ValidationError for rules the tag language can't express
// (e.g. "either email or phone is required").
func NewError(summary string, fields FieldErrors) *ValidationError {
	if fields == nil {
		fields = FieldErrors{}
	}
	return &ValidationError{summary: summary, fields: fields}
}

// ValidateStruct validates a struct according to its `validate` tags.
// On failure it returns a *ValidationError with a field-keyed message map.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &ValidationError{summary: "validation failed", fields: FieldErrors{}}
		}
		fields := make(FieldErrors)
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], messageForTag(fe))
		}
		return &ValidationError{summary: summarize(fields), fields: fields}
	}
	return nil
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "phone":
		return "must be a valid phone number"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "numeric":
		return "must contain only digits"
	default:
		return "is invalid"
	}
}

func summarize(fields FieldErrors) string {
	firstField, firstMsg := "", ""
	total := 0
	for field, msgs := range fields {
		if firstField == "" && len(msgs) > 0 {
			firstField, firstMsg = field, msgs[0]
		}
		total += len(msgs)
	}
	if firstField == "" {
		return "validation failed"
	}
	if others := total - 1; others > 0 {
		plural := ""
		if others > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%s %s, and %d other error%s", firstField, firstMsg, others, plural)
	}
	return fmt.Sprintf("%s %s", firstField, firstMsg)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}
