package safeany

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_GetMatchingType(t *testing.T) {
	t.Parallel()

	v := New(42)
	require.False(t, v.Empty())
	require.Equal(t, reflect.TypeFor[int](), v.Type())
	require.Equal(t, "int", v.TypeName())

	got, err := Get[int](v)
	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.True(t, Is[int](v))
}

func TestValue_GetMismatch(t *testing.T) {
	t.Parallel()

	v := New(3.14)
	for name, get := range map[string]func() error{
		"int":     func() error { _, err := Get[int](v); return err },
		"float32": func() error { _, err := Get[float32](v); return err },
		"string":  func() error { _, err := Get[string](v); return err },
		"any":     func() error { _, err := Get[any](v); return err },
	} {
		t.Run(name, func(t *testing.T) {
			err := get()
			require.Error(t, err)
			require.ErrorIs(t, err, ErrTypeMismatch)
			var mismatch *MismatchError
			require.True(t, errors.As(err, &mismatch))
			require.Equal(t, reflect.TypeFor[float64](), mismatch.Stored)
		})
	}
}

func TestValue_NamedTypesAreDistinct(t *testing.T) {
	t.Parallel()

	type meters float64
	v := New(meters(2))
	_, err := Get[float64](v)
	require.ErrorIs(t, err, ErrTypeMismatch)

	m, err := Get[meters](v)
	require.NoError(t, err)
	require.Equal(t, meters(2), m)
}

func TestValue_Empty(t *testing.T) {
	t.Parallel()

	var v Value
	require.True(t, v.Empty())
	require.Nil(t, v.Type())
	require.Equal(t, "<empty>", v.String())

	_, err := Get[string](v)
	require.ErrorIs(t, err, ErrEmpty)

	require.True(t, Of(nil).Empty())
}

func TestValue_InterfaceIdentity(t *testing.T) {
	t.Parallel()

	var s fmt.Stringer
	v := New(s)
	require.Equal(t, reflect.TypeFor[fmt.Stringer](), v.Type())

	got, err := Get[fmt.Stringer](v)
	require.NoError(t, err)
	require.Nil(t, got)

	// Of records the dynamic type instead.
	require.Equal(t, reflect.TypeFor[string](), Of("x").Type())
}

func TestValue_SliceIsHeldByValue(t *testing.T) {
	t.Parallel()

	v := New([]int{1, 2, 3})
	got, err := Get[[]int](v)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, got)
	require.Equal(t, "[1 2 3] ([]int)", v.String())
}
