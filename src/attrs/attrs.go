// Package attrs reads and writes struct attributes by name, where a name is
// either the Go field name or its json tag.
package attrs

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

var (
	// ErrUnknownAttribute indicates the model has no field with that name
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrNotAddressable indicates Set was given a value instead of a pointer
	ErrNotAddressable = errors.New("model must be a non-nil pointer to a struct")

	// ErrIncompatibleValue indicates the value cannot be stored in the field
	ErrIncompatibleValue = errors.New("incompatible attribute value")
)

// Get returns the current value of the named attribute.
func Get(model any, name string) (any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil model", ErrUnknownAttribute)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrUnknownAttribute, model)
	}

	field, _, err := lookup(v, name)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set stores value in the named attribute. A nil value stores the zero
// value; convertible values are converted to the field type.
func Set(model any, name string, value any) error {
	v := reflect.ValueOf(model)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotAddressable
	}

	field, sf, err := lookup(v.Elem(), name)
	if err != nil {
		return err
	}

	if value == nil {
		field.Set(reflect.Zero(sf.Type))
		return nil
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(sf.Type):
		field.Set(rv)
	case rv.Type().ConvertibleTo(sf.Type) && sameFamily(rv.Kind(), sf.Type.Kind()):
		if !fits(rv, sf.Type) {
			return fmt.Errorf("%w: %v does not fit %s (%s)", ErrIncompatibleValue, value, sf.Name, sf.Type)
		}
		field.Set(rv.Convert(sf.Type))
	case sf.Type.Kind() == reflect.Pointer && rv.Type().AssignableTo(sf.Type.Elem()):
		ptr := reflect.New(sf.Type.Elem())
		ptr.Elem().Set(rv)
		field.Set(ptr)
	default:
		return fmt.Errorf("%w: cannot store %T in %s (%s)", ErrIncompatibleValue, value, sf.Name, sf.Type)
	}
	return nil
}

// Name returns the canonical attribute name: the json tag when present,
// otherwise the Go field name.
func Name(model any, name string) (string, error) {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "", fmt.Errorf("%w: %T is not a struct", ErrUnknownAttribute, model)
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.IsExported() && matches(sf, name) {
			return canonical(sf), nil
		}
	}
	return "", fmt.Errorf("%w: %q on %s", ErrUnknownAttribute, name, t.Name())
}

func lookup(v reflect.Value, name string) (reflect.Value, reflect.StructField, error) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if matches(sf, name) {
			return v.Field(i), sf, nil
		}
	}
	return reflect.Value{}, reflect.StructField{}, fmt.Errorf("%w: %q on %s", ErrUnknownAttribute, name, t.Name())
}

func matches(sf reflect.StructField, name string) bool {
	if tag := jsonName(sf); tag != "" && tag == name {
		return true
	}
	return strings.EqualFold(sf.Name, name)
}

func canonical(sf reflect.StructField) string {
	if tag := jsonName(sf); tag != "" {
		return tag
	}
	return sf.Name
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// sameFamily keeps reflect conversions within one kind of value, e.g. int
// to string is convertible but yields a rune. fits then rejects numeric
// conversions that change the value.
func sameFamily(from, to reflect.Kind) bool {
	return family(from) != 0 && family(from) == family(to)
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	case reflect.Slice:
		return 4
	}
	return 0
}

// fits reports whether the numeric value rv converts to typ without
// truncation, overflow or a sign change. Float to float only checks range.
// Non-numeric values always fit.
func fits(rv reflect.Value, typ reflect.Type) bool {
	target := reflect.New(typ).Elem()
	switch kindClass(typ.Kind()) {
	case 'i':
		switch kindClass(rv.Kind()) {
		case 'i':
			return !target.OverflowInt(rv.Int())
		case 'u':
			return rv.Uint() <= math.MaxInt64 && !target.OverflowInt(int64(rv.Uint()))
		case 'f':
			f := rv.Float()
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !target.OverflowInt(int64(f))
		}
	case 'u':
		switch kindClass(rv.Kind()) {
		case 'i':
			return rv.Int() >= 0 && !target.OverflowUint(uint64(rv.Int()))
		case 'u':
			return !target.OverflowUint(rv.Uint())
		case 'f':
			f := rv.Float()
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !target.OverflowUint(uint64(f))
		}
	case 'f':
		if kindClass(rv.Kind()) == 'f' {
			return !target.OverflowFloat(rv.Float())
		}
		// Integers above the mantissa lose their low bits
		return rv.Convert(typ).Convert(rv.Type()).Equal(rv)
	}
	return true
}

func kindClass(k reflect.Kind) byte {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return 'i'
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return 'u'
	case reflect.Float32, reflect.Float64:
		return 'f'
	}
	return 0
}
