package profile

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

// FieldError describes one offending profile column.
type FieldError struct {
	Column string `json:"field"`
	Rule   string `json:"rule"`
	Param  string `json:"param,omitempty"`
}

func (e FieldError) message() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s is required", e.Column)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Column, e.Param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Column, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Column, e.Param)
	default:
		return fmt.Sprintf("%s failed %s validation", e.Column, e.Rule)
	}
}

// InvalidInputError is returned when a profile cannot be constructed.
type InvalidInputError struct {
	Fields []FieldError
}

func (e *InvalidInputError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.message()
	}
	return "invalid profile: " + strings.Join(msgs, "; ")
}

// Missing reports whether any field failed because it was absent.
func (e *InvalidInputError) Missing() bool {
	for _, f := range e.Fields {
		if f.Rule == "required" {
			return true
		}
	}
	return false
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report JSON column names rather than Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func validateInput(in *Input) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate profile: %w", err)
	}

	out := &InvalidInputError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Column: fe.Field(),
			Rule:   fe.Tag(),
			Param:  fe.Param(),
		})
	}
	return out
}
