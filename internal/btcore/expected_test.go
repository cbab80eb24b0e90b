package btcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpected_Value(t *testing.T) {
	t.Parallel()
	e := Ok(42)
	require.True(t, e.HasValue())
	require.Equal(t, 42, e.Value())
	require.Equal(t, 42, e.ValueOr(7))
	require.Empty(t, e.Message())
	require.NoError(t, e.Err())

	v, err := e.Unwrap()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestExpected_Error(t *testing.T) {
	t.Parallel()
	e := Unexpected[int]("no answer")
	require.False(t, e.HasValue())
	require.Equal(t, "no answer", e.Message())
	require.Equal(t, 7, e.ValueOr(7))

	err := requireLogicPanic(t, func() { _ = e.Value() })
	require.Contains(t, err.Error(), "no answer")

	wrapped := Errorf[string]("loading %s: %w", "tree", ErrConversion)
	require.ErrorIs(t, wrapped.Err(), ErrConversion)
	require.Equal(t, "loading tree: "+ErrConversion.Error(), wrapped.Message())
}

func TestExpected_FromPair(t *testing.T) {
	t.Parallel()
	require.True(t, FromPair(1, nil).HasValue())

	boom := errors.New("boom")
	e := FromPair(1, boom)
	require.False(t, e.HasValue())
	require.Same(t, boom, e.Err())
	require.Equal(t, 0, e.ValueOr(0))
}

func TestResult(t *testing.T) {
	t.Parallel()
	require.True(t, OK().HasValue())

	r := Failed("port %q missing", "goal")
	require.False(t, r.HasValue())
	require.Equal(t, `port "goal" missing`, r.Message())
}
