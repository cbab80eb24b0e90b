package btcore

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ToStr renders v with the renderer registered for its dynamic type.
//
// Types without a renderer fall back, in order, to: encoding.TextMarshaler,
// then numbers and booleans (including named ones) via strconv, and string
// kinds as-is. Anything else is a *LogicError wrapping
// ErrNoStringRepresentation. The rendering of a registered type is accepted
// by its converter.
func (r *ConverterRegistry) ToStr(v any) (string, error) {
	if v == nil {
		return "", &LogicError{Msg: "btcore: ToStr called with nil", Err: ErrNoStringRepresentation}
	}
	t := reflect.TypeOf(v)

	r.mu.RLock()
	render, ok := r.renderers[t]
	r.mu.RUnlock()
	if ok {
		return render(v)
	}

	if m, ok := v.(encoding.TextMarshaler); ok {
		b, err := m.MarshalText()
		if err != nil {
			return "", fmt.Errorf("btcore: rendering [%s]: %w", t, err)
		}
		return string(b), nil
	}

	rv := reflect.ValueOf(v)
	switch t.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, t.Bits()), nil
	case reflect.String:
		return rv.String(), nil
	}

	return "", &LogicError{
		Msg: fmt.Sprintf("btcore: ToStr is not available for type [%s]; "+
			"register a renderer consistent with its converter, or implement encoding.TextMarshaler", t),
		Err: ErrNoStringRepresentation,
	}
}

// ToStr renders v using DefaultConverters.
func ToStr(v any) (string, error) {
	return DefaultConverters().ToStr(v)
}

// MustToStr is like ToStr but panics when v cannot be rendered.
func MustToStr(v any) string {
	s, err := ToStr(v)
	if err != nil {
		panic(err)
	}
	return s
}

func joinSequence[T any](values []T, format func(T) string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(format(v))
	}
	return b.String()
}

func registerBuiltinRenderers(r *ConverterRegistry) {
	RegisterRenderer(r, func(v bool) string { return strconv.FormatBool(v) })
	RegisterRenderer(r, func(v string) string { return v })
	RegisterRenderer(r, func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) })
	RegisterRenderer(r, func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) })
	RegisterRenderer(r, func(v []int) string { return joinSequence(v, strconv.Itoa) })
	RegisterRenderer(r, func(v []float64) string {
		return joinSequence(v, func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) })
	})
	registerTextRenderer[NodeStatus](r)
	registerTextRenderer[NodeType](r)
	registerTextRenderer[PortDirection](r)
	RegisterRenderer(r, time.Duration.String)
	RegisterRenderer(r, uuid.UUID.String)
}

// registerTextRenderer renders T with MarshalText, so values its parser
// rejects fail to render.
func registerTextRenderer[T encoding.TextMarshaler](r *ConverterRegistry) {
	t := reflect.TypeFor[T]()
	r.RegisterRenderer(t, func(v any) (string, error) {
		tv, ok := v.(T)
		if !ok {
			return "", fmt.Errorf("btcore: renderer for [%s] got %T", t, v)
		}
		b, err := tv.MarshalText()
		if err != nil {
			return "", fmt.Errorf("btcore: rendering [%s]: %w", t, err)
		}
		return string(b), nil
	})
}
