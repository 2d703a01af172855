package testkit

import (
	"testing"

	"github.com/khabaroff/webtestkit/src/factory"
	"github.com/khabaroff/webtestkit/src/validation"
	"github.com/stretchr/testify/assert"
)

type article struct {
	Title  string `json:"title" validate:"required,max=10"`
	Status string `json:"status" validate:"oneof=draft published"`
	Views  int    `json:"views" validate:"gte=0"`
}

type signup struct {
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirm" validate:"eqfield=Password"`
}

func validArticle() *article {
	return &article{Title: "Hello", Status: "draft", Views: 3}
}

func articleFactory() *factory.Registry {
	r := factory.NewRegistry()
	r.Define("article", func() any { return validArticle() })
	return r
}

func TestAssertAttributes(t *testing.T) {
	a := validArticle()

	ft := &fakeT{}
	assert.True(t, AssertAttributes(ft, map[string]any{"title": "Hello", "views": int64(3), "Status": "draft"}, a))
	assert.Empty(t, ft.errors)

	assert.False(t, AssertAttributes(ft, map[string]any{"title": "Bye", "color": "red"}, a))
	assert.Len(t, ft.errors, 2)
	assert.Contains(t, ft.output(), `attribute "title" of *testkit.article: expected "Bye" but was "Hello"`)
	assert.Contains(t, ft.output(), `attribute "color"`)
}

func TestAssertInvalidBecauseOf(t *testing.T) {
	v := validation.New()

	t.Run("invalidating value restores original", func(t *testing.T) {
		a := validArticle()
		ft := &fakeT{}

		assert.True(t, AssertInvalidBecauseOf(ft, v, a, "title", nil))
		assert.True(t, AssertInvalidBecauseOf(ft, v, a, "status", "archived"))
		assert.Empty(t, ft.errors)
		assert.Equal(t, validArticle(), a)
	})

	t.Run("value that keeps model valid", func(t *testing.T) {
		a := validArticle()
		ft := &fakeT{}

		assert.False(t, AssertInvalidBecauseOf(ft, v, a, "views", 10))
		assert.Contains(t, ft.output(), "changing views to 10 did not invalidate model *testkit.article")
		assert.Equal(t, 3, a.Views)
	})

	t.Run("error lands on another attribute", func(t *testing.T) {
		s := &signup{Password: "secret", Confirm: "secret"}
		ft := &fakeT{}

		assert.False(t, AssertInvalidBecauseOf(ft, v, s, "password", "other"))
		assert.Contains(t, ft.output(), "without an error on password")
		assert.Equal(t, "secret", s.Password)
	})

	t.Run("sanity check", func(t *testing.T) {
		ft := &fakeT{}

		assert.False(t, AssertInvalidBecauseOf(ft, v, &article{}, "title", nil))
		assert.Contains(t, ft.output(), "sanity test failed: model *testkit.article invalid")
	})

	t.Run("unknown attribute", func(t *testing.T) {
		ft := &fakeT{}

		assert.False(t, AssertInvalidBecauseOf(ft, v, validArticle(), "colour", nil))
		assert.Contains(t, ft.output(), "unknown attribute")
	})
}

func TestAssertInvalidBecauseOfEach(t *testing.T) {
	v := validation.New()
	a := validArticle()

	ft := &fakeT{}
	assert.True(t, AssertInvalidBecauseOfEach(ft, v, a, []string{"title", "status", "views"}, []any{"far too long title", "gone", -1}))
	assert.Empty(t, ft.errors)

	assert.True(t, AssertInvalidBecauseOfEach(ft, v, a, []string{"title", "status"}, []any{"far too long title"}))
	assert.Empty(t, ft.errors)
}

func TestAssertAllValid(t *testing.T) {
	v := validation.New()
	r := articleFactory()

	ft := &fakeT{}
	assert.True(t, AssertAllValid(ft, v, r, "article", "title", []any{"a", "ten chars!"}))
	assert.Empty(t, ft.errors)

	assert.False(t, AssertAllValid(ft, v, r, "article", "title", []any{"ok", "eleven char"}))
	assert.Contains(t, ft.output(), `article with title="eleven char" should be valid`)

	ft = &fakeT{}
	assert.False(t, AssertAllValid(ft, v, r, "missing", "title", []any{"x"}))
	assert.Contains(t, ft.output(), "unknown factory")
}

func TestAssertAllInvalid(t *testing.T) {
	v := validation.New()
	r := articleFactory()

	ft := &fakeT{}
	assert.True(t, AssertAllInvalid(ft, v, r, "article", "status", []any{"", "deleted", "DRAFT"}))
	assert.Empty(t, ft.errors)

	assert.False(t, AssertAllInvalid(ft, v, r, "article", "status", []any{"published"}))
	assert.Contains(t, ft.output(), "did not invalidate")
}
