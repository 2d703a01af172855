package testkit

import (
	"testing"

	"github.com/khabaroff/webtestkit/src/shape"
	"github.com/stretchr/testify/assert"
)

func TestAssertJSON(t *testing.T) {
	spec := shape.Keys("name", "age")

	t.Run("exact match", func(t *testing.T) {
		ft := &fakeT{}
		assert.True(t, AssertJSON(ft, spec, `{"name": "Alice", "age": 30}`))
		assert.Empty(t, ft.errors)
	})

	t.Run("missing key", func(t *testing.T) {
		ft := &fakeT{}
		assert.False(t, AssertJSON(ft, spec, `{"name": "Alice"}`))
		assert.Contains(t, ft.output(), "JSON shape mismatch")
		assert.Contains(t, ft.output(), `expected element "age" not found`)
		assert.False(t, ft.failed)
	})

	t.Run("unexpected key with custom message", func(t *testing.T) {
		ft := &fakeT{}
		assert.False(t, AssertJSON(ft, spec, map[string]any{"name": "A", "age": 1, "extra": 1}, "user %d payload", 7))
		assert.Contains(t, ft.output(), "user 7 payload")
		assert.Contains(t, ft.output(), `unexpected element "extra"`)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		ft := &fakeT{}
		assert.False(t, AssertJSON(ft, spec, `{"name":`))
		assert.Contains(t, ft.output(), "response is not valid JSON")
	})
}

func TestRequireJSON(t *testing.T) {
	ft := &fakeT{}
	RequireJSON(ft, shape.Keys("id"), `{"id": 1}`)
	assert.False(t, ft.failed)

	RequireJSON(ft, shape.Keys("id"), `{}`)
	assert.True(t, ft.failed)
}

func TestAssertJSONYAML(t *testing.T) {
	const spec = `
- count
- notes:
  - [id, title]
`
	ft := &fakeT{}
	assert.True(t, AssertJSONYAML(ft, spec, `{"count": 1, "notes": [{"id": "n1", "title": "t"}]}`))
	assert.Empty(t, ft.errors)

	assert.False(t, AssertJSONYAML(ft, spec, `{"count": 1, "notes": [{"id": "n1"}]}`))
	assert.Contains(t, ft.output(), "$.notes[0]")

	ft = &fakeT{}
	assert.False(t, AssertJSONYAML(ft, "[a, b", `{}`))
	assert.Contains(t, ft.output(), "invalid shape spec")
}
