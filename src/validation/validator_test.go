package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"oneof=admin editor viewer"`
	Name  string `validate:"max=5"`
}

type slugged struct {
	Slug string `json:"slug" validate:"required"`
}

func (s *slugged) Validate() error {
	if strings.Contains(s.Slug, " ") {
		return Errors{{Field: "slug", Rule: "no_spaces", Message: "must not contain spaces"}}
	}
	if s.Slug == "reserved" {
		return errors.New("slug is reserved")
	}
	return nil
}

func TestValidator_Valid(t *testing.T) {
	v := New()

	assert.True(t, v.Valid(&account{Email: "a@b.co", Role: "admin", Name: "ann"}))
	assert.Empty(t, v.Errors(&account{Email: "a@b.co", Role: "admin"}))
}

func TestValidator_Errors(t *testing.T) {
	v := New()

	errs := v.Errors(&account{Email: "nope", Role: "owner", Name: "toolong"})
	assert.Equal(t, map[string]string{
		"email": "email",
		"role":  "oneof",
		"Name":  "max",
	}, errs)
	assert.Equal(t, []string{"Name", "email", "role"}, Fields(errs))

	err := v.Validate(&account{Role: "admin"})
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("email"))
	assert.False(t, verrs.Has("role"))
	assert.Contains(t, err.Error(), "email: is required")
}

func TestValidator_SelfValidator(t *testing.T) {
	v := New()

	assert.True(t, v.Valid(&slugged{Slug: "ok"}))
	assert.Equal(t, map[string]string{"slug": "no_spaces"}, v.Errors(&slugged{Slug: "a b"}))
	assert.Equal(t, map[string]string{ModelField: "custom"}, v.Errors(&slugged{Slug: "reserved"}))
	assert.Equal(t, map[string]string{"slug": "required"}, v.Errors(&slugged{}))
}

func TestValidator_NotAStruct(t *testing.T) {
	v := New()

	err := v.Validate(42)
	require.Error(t, err)
	var verrs Errors
	assert.False(t, errors.As(err, &verrs))
	assert.Contains(t, v.Errors(42), ModelField)
}

func TestValidator_RegisterRule(t *testing.T) {
	type tagged struct {
		Color string `json:"color" validate:"primary"`
	}

	v := New()
	require.NoError(t, v.RegisterRule("primary", func(value any) bool {
		s, _ := value.(string)
		return s == "red" || s == "green" || s == "blue"
	}))

	assert.True(t, v.Valid(&tagged{Color: "red"}))
	assert.Equal(t, map[string]string{"color": "primary"}, v.Errors(&tagged{Color: "pink"}))
}
