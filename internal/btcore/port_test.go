package btcore

import (
	"bytes"
	"log/slog"
	"reflect"
	"testing"

	"github.com/joeycumines/btport/internal/safeany"
	"github.com/stretchr/testify/require"
)

func requireRuntimePanic(t *testing.T, fn func()) *RuntimeError {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	require.NotNil(t, got, "expected a panic")
	err, ok := got.(*RuntimeError)
	require.True(t, ok, "expected *RuntimeError, got %T: %v", got, got)
	return err
}

func TestIsAllowedPortName(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"speed", "Speed", "x", "goal_pose", "a1", "name2", "IDs", "id", "Name", "target pose"} {
		require.True(t, IsAllowedPortName(name), name)
	}
	for _, name := range []string{"", "name", "ID", "_x", "_", "1x", "-a", " a", "é", "a\x00b"} {
		require.False(t, IsAllowedPortName(name), "%q", name)
	}
}

func TestCreatePort_RejectsNames(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"name", "ID", "_x", "1x"} {
		err := requireRuntimePanic(t, func() { _ = InputPort[int](name, "") })
		require.Contains(t, err.Error(), name)
		require.Contains(t, err.Error(), "Underscore is reserved")
	}
	require.NotPanics(t, func() { _ = InputPort[int]("speed", "") })
}

func TestCreatePort_Typed(t *testing.T) {
	t.Parallel()
	p := InputPort[int]("speed", "meters per second")
	require.Equal(t, "speed", p.Name)
	require.Equal(t, Input, p.Info.Direction())
	require.True(t, p.Info.IsStronglyTyped())
	require.NotNil(t, p.Info.Converter())
	require.Equal(t, reflect.TypeFor[int](), p.Info.Type())
	require.Equal(t, "int", p.Info.TypeName())
	require.Equal(t, "meters per second", p.Info.Description())

	res := p.Info.ParseString("42")
	require.True(t, res.HasValue())
	n, err := safeany.Get[int](res.Value())
	require.NoError(t, err)
	require.Equal(t, 42, n)

	res = p.Info.ParseString("abc")
	require.False(t, res.HasValue())
	require.ErrorIs(t, res.Err(), ErrConversion)
	require.Contains(t, res.Message(), "abc")
}

func TestCreatePort_Untyped(t *testing.T) {
	t.Parallel()
	for _, p := range []Port{
		AnyInputPort("a", ""),
		AnyOutputPort("b", ""),
		AnyBidirectionalPort("c", ""),
		InputPort[any]("d", ""),
	} {
		require.False(t, p.Info.IsStronglyTyped(), p.Name)
		require.Nil(t, p.Info.Converter(), p.Name)
		require.Equal(t, "AnyTypeAllowed", p.Info.TypeName())
	}

	res := AnyInputPort("a", "").Info.ParseString("anything")
	require.True(t, res.HasValue())
	s, err := safeany.Get[string](res.Value())
	require.NoError(t, err)
	require.Equal(t, "anything", s)

	require.Equal(t, InOut, NewPortInfo(InOut).Direction())
	require.Equal(t, InOut, AnyBidirectionalPort("c", "").Info.Direction())
	require.Equal(t, Output, OutputPort[bool]("ok", "").Info.Direction())
}

func TestPortInfo_DefaultRenderable(t *testing.T) {
	t.Parallel()
	p := InputPortWithDefault("retries", 3, "attempts")
	def, ok := p.Info.DefaultValue()
	require.True(t, ok)
	n, err := safeany.Get[int](def)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, MustToStr(3), p.Info.DefaultValueString())
	require.Equal(t, "3", p.Info.DefaultValueString())

	b := BidirectionalPortWithDefault("state", Running, "")
	require.Equal(t, "RUNNING", b.Info.DefaultValueString())
	require.Equal(t, InOut, b.Info.Direction())

	seq := InputPortWithDefault("weights", []float64{0.5, 1}, "")
	require.Equal(t, "0.5;1", seq.Info.DefaultValueString())
}

func TestPortInfo_DefaultNotRenderable(t *testing.T) {
	t.Parallel()
	p := InputPortWithDefault("blob", opaque{X: 9}, "")
	require.Empty(t, p.Info.DefaultValueString())

	def, ok := p.Info.DefaultValue()
	require.True(t, ok)
	got, err := safeany.Get[opaque](def)
	require.NoError(t, err)
	require.Equal(t, opaque{X: 9}, got)
}

func TestPortInfo_SetDefaultValueUsesDynamicType(t *testing.T) {
	t.Parallel()
	info := NewPortInfo(Input)
	_, ok := info.DefaultValue()
	require.False(t, ok)

	info.SetDefaultValue(int64(5))
	def, ok := info.DefaultValue()
	require.True(t, ok)
	require.Equal(t, reflect.TypeFor[int64](), def.Type())
	require.Equal(t, "5", info.DefaultValueString())

	info.SetDefaultValue(opaque{})
	require.Empty(t, info.DefaultValueString())
}

func TestPortInfo_DefaultRenderFailureIsLogged(t *testing.T) {
	// mutates the default logger
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	_ = InputPortWithDefault("blob", opaque{}, "")
	require.Contains(t, buf.String(), "port default has no text form")
	require.Contains(t, buf.String(), "btcore.opaque")
}

func TestPortInfo_MissingConverterPanicsOnUse(t *testing.T) {
	t.Parallel()
	p := InputPort[opaque]("blob", "")
	require.True(t, p.Info.IsStronglyTyped())
	require.NotNil(t, p.Info.Converter())
	requireLogicPanic(t, func() { _ = p.Info.ParseString("x") })
}
