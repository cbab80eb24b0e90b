// Package safeany provides Value, a type-erased container that remembers the
// static type it was built from and refuses to hand its payload back as
// anything else.
package safeany

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrTypeMismatch is returned when a Value is extracted as a type other
	// than the one it holds.
	ErrTypeMismatch = errors.New("safeany: type mismatch")

	// ErrEmpty is returned when extracting from the zero Value.
	ErrEmpty = errors.New("safeany: empty value")
)

// Value holds exactly one value together with its type identity.
// The zero Value is empty.
type Value struct {
	typ reflect.Type
	val any
}

// New wraps v, recording T as the identity. Interface types are recorded as
// the interface, not the dynamic type of v.
func New[T any](v T) Value {
	return Value{typ: reflect.TypeFor[T](), val: v}
}

// Of wraps v using its dynamic type. Of(nil) is the empty Value.
func Of(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{typ: reflect.TypeOf(v), val: v}
}

// Empty reports whether v holds nothing.
func (v Value) Empty() bool { return v.typ == nil }

// Type returns the type identity, or nil for the empty Value.
func (v Value) Type() reflect.Type { return v.typ }

// TypeName returns a human-readable name for the held type.
func (v Value) TypeName() string { return TypeName(v.typ) }

// Interface returns the payload as an interface value.
func (v Value) Interface() any { return v.val }

// Is reports whether v holds a T.
func Is[T any](v Value) bool {
	return v.typ != nil && v.typ == reflect.TypeFor[T]()
}

// Get extracts the payload as T. It fails with ErrTypeMismatch unless T is
// exactly the type v was constructed with.
func Get[T any](v Value) (T, error) {
	var zero T
	if v.typ == nil {
		return zero, fmt.Errorf("%w: requested %s", ErrEmpty, TypeName(reflect.TypeFor[T]()))
	}
	want := reflect.TypeFor[T]()
	if want != v.typ {
		return zero, &MismatchError{Stored: v.typ, Requested: want}
	}
	if v.val == nil {
		// a nil interface or pointer wrapped by New
		return zero, nil
	}
	return v.val.(T), nil
}

// String renders the payload with fmt, for diagnostics only.
func (v Value) String() string {
	if v.typ == nil {
		return "<empty>"
	}
	return fmt.Sprintf("%v (%s)", v.val, v.TypeName())
}

// MismatchError describes a failed extraction.
type MismatchError struct {
	Stored    reflect.Type
	Requested reflect.Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: stored [%s], requested [%s]", ErrTypeMismatch, TypeName(e.Stored), TypeName(e.Requested))
}

func (e *MismatchError) Unwrap() error { return ErrTypeMismatch }

// TypeName returns t's Go name, or "<nil>".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
