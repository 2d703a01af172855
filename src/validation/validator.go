// Package validation checks models against their `validate` struct tags
// using go-playground/validator, reporting failures per attribute name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ModelField is the attribute name used for failures that are not tied to
// a single field.
const ModelField = "_model"

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Errors is the set of failures for one model.
type Errors []FieldError

func (e Errors) Error() string {
	messages := make([]string, len(e))
	for i, fe := range e {
		messages[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(messages, "; ")
}

// Has reports whether any failure names field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// SelfValidator is implemented by models with rules that tags cannot
// express. A returned Errors value is merged as is; any other error is
// reported under ModelField.
type SelfValidator interface {
	Validate() error
}

// Validator validates struct models.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that names fields after their json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// RegisterRule adds a custom validation tag.
func (v *Validator) RegisterRule(tag string, fn func(value any) bool) error {
	return v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().Interface())
	})
}

// Validate returns nil for a valid model, Errors for an invalid one, or
// another error when the model cannot be validated at all.
func (v *Validator) Validate(model any) error {
	var result Errors

	if err := v.validate.Struct(model); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate %T: %w", model, err)
		}
		for _, fe := range verrs {
			result = append(result, FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: message(fe),
			})
		}
	}

	if sv, ok := model.(SelfValidator); ok {
		if err := sv.Validate(); err != nil {
			var custom Errors
			if errors.As(err, &custom) {
				result = append(result, custom...)
			} else {
				result = append(result, FieldError{Field: ModelField, Rule: "custom", Message: err.Error()})
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// Valid reports whether model passes validation.
func (v *Validator) Valid(model any) bool {
	return v.Validate(model) == nil
}

// Errors returns attribute -> failed rule for model. Validation problems
// that are not field failures are reported under ModelField.
func (v *Validator) Errors(model any) map[string]string {
	err := v.Validate(model)
	if err == nil {
		return map[string]string{}
	}

	var verrs Errors
	if !errors.As(err, &verrs) {
		return map[string]string{ModelField: err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Rule
		}
	}
	return out
}

// Fields returns the sorted attribute names that failed validation.
func Fields(errs map[string]string) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
