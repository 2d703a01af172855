// Package factory builds model fixtures by name with attribute overrides.
package factory

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/khabaroff/webtestkit/src/attrs"
)

// ErrUnknownFactory indicates no factory was defined under the name
var ErrUnknownFactory = errors.New("unknown factory")

// Builder returns a fresh pointer to a model with default attributes.
type Builder func() any

// Registry holds named factories. It is safe for concurrent use so
// parallel tests can share one.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Builder
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Builder)}
}

// Define registers builder under name, replacing any previous definition.
func (r *Registry) Define(name string, builder Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = builder
}

// Build creates a model and applies overrides to it.
func (r *Registry) Build(name string, overrides map[string]any) (any, error) {
	r.mu.RLock()
	builder, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, name)
	}

	model := builder()
	if v := reflect.ValueOf(model); v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, fmt.Errorf("factory %q must return a non-nil pointer, got %T", name, model)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := attrs.Set(model, k, overrides[k]); err != nil {
			return nil, fmt.Errorf("factory %q: %w", name, err)
		}
	}
	return model, nil
}

// Names returns the defined factory names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build is a typed wrapper around Registry.Build.
func Build[T any](r *Registry, name string, overrides map[string]any) (*T, error) {
	model, err := r.Build(name, overrides)
	if err != nil {
		return nil, err
	}
	typed, ok := model.(*T)
	if !ok {
		return nil, fmt.Errorf("factory %q built %T, not %T", name, model, typed)
	}
	return typed, nil
}
