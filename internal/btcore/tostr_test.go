package btcore

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestToStr_Builtins(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	cases := []struct {
		in   any
		want string
	}{
		{true, "true"},
		{false, "false"},
		{"text", "text"},
		{42, "42"},
		{int8(-3), "-3"},
		{uint64(7), "7"},
		{3.14, "3.14"},
		{float32(0.5), "0.5"},
		{[]int{1, 2, 3}, "1;2;3"},
		{[]float64{0.5, 2}, "0.5;2"},
		{Failure, "FAILURE"},
		{Control, "CONTROL"},
		{Output, "OUTPUT"},
		{90 * time.Second, "1m30s"},
		{id, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{label("x"), "x"},
		{celsius(1.5), "1.5"},
	}
	for _, tc := range cases {
		got, err := ToStr(tc.in)
		require.NoError(t, err, "%T", tc.in)
		require.Equal(t, tc.want, got, "%T", tc.in)
	}
}

func TestToStr_RoundTripsThroughConverters(t *testing.T) {
	t.Parallel()
	r := DefaultConverters()
	for _, v := range []any{3.14, 1e21, -0.1, []int{-1, 0, 1}, []float64{1.25, 1e-9}, Skipped, 250 * time.Millisecond} {
		text, err := r.ToStr(v)
		require.NoError(t, err)
		back, err := r.ConvertNamed(typeNameOf(v), text)
		require.NoError(t, err, text)
		require.Equal(t, v, back.Interface())
	}
}

func typeNameOf(v any) string {
	switch v.(type) {
	case float64:
		return "float64"
	case []int:
		return "[]int"
	case []float64:
		return "[]float64"
	case NodeStatus:
		return "btcore.NodeStatus"
	case time.Duration:
		return "time.Duration"
	}
	return ""
}

func TestToStr_NoRepresentation(t *testing.T) {
	t.Parallel()
	_, err := ToStr(opaque{X: 1})
	require.ErrorIs(t, err, ErrNoStringRepresentation)
	var logic *LogicError
	require.True(t, errors.As(err, &logic))
	require.Contains(t, err.Error(), "btcore.opaque")

	_, err = ToStr(nil)
	require.ErrorIs(t, err, ErrNoStringRepresentation)

	require.Panics(t, func() { MustToStr(map[string]int{}) })
}

type gear int

var gearNames = []string{"SLOW", "FAST"}

func (g gear) MarshalText() ([]byte, error) {
	if g < 0 || int(g) >= len(gearNames) {
		return nil, fmt.Errorf("invalid gear %d", int(g))
	}
	return []byte(gearNames[g]), nil
}

func (g *gear) UnmarshalText(text []byte) error {
	for i, name := range gearNames {
		if name == string(text) {
			*g = gear(i)
			return nil
		}
	}
	return fmt.Errorf("unknown gear %q", text)
}

func TestToStr_PrefersTextMarshalerOverKind(t *testing.T) {
	t.Parallel()
	s, err := ToStr(gear(1))
	require.NoError(t, err)
	require.Equal(t, "FAST", s)

	_, err = ToStr(gear(7))
	require.ErrorContains(t, err, "invalid gear 7")

	p := InputPortWithDefault("mode", gear(1), "")
	require.Equal(t, "FAST", p.Info.DefaultValueString())
	back, err := p.Info.ParseString(p.Info.DefaultValueString()).Unwrap()
	require.NoError(t, err)
	require.Equal(t, gear(1), back.Interface())
}

func TestToStr_EnumsOutOfRange(t *testing.T) {
	t.Parallel()
	for _, v := range []any{NodeStatus(9), NodeType(-1), PortDirection(3)} {
		_, err := ToStr(v)
		require.Error(t, err, "%T(%v)", v, v)
	}

	p := InputPortWithDefault("status", NodeStatus(9), "")
	require.Empty(t, p.Info.DefaultValueString())
	_, ok := p.Info.DefaultValue()
	require.True(t, ok)
}
