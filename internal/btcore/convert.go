package btcore

import (
	"encoding"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/btport/internal/safeany"
	"golang.org/x/exp/constraints"
)

// StringConverter turns text into a typed Value.
type StringConverter func(text string) (safeany.Value, error)

// StringRenderer turns a value into text. It receives the payload of a
// Value, so it may assume the registered type.
type StringRenderer func(v any) (string, error)

var (
	anyTypeAllowedType  = reflect.TypeFor[AnyTypeAllowed]()
	emptyInterfaceType  = reflect.TypeFor[any]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
)

// ConverterRegistry maps type identities to the functions that convert them
// from and to text.
//
// Registration is meant to happen during startup, before the registry is
// shared. The mutex keeps late registration memory safe, nothing more.
type ConverterRegistry struct {
	mu         sync.RWMutex
	converters map[reflect.Type]StringConverter
	renderers  map[reflect.Type]StringRenderer
	names      map[string]reflect.Type
}

// NewConverterRegistry returns a registry with nothing registered.
func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{
		converters: make(map[reflect.Type]StringConverter),
		renderers:  make(map[reflect.Type]StringRenderer),
		names:      make(map[string]reflect.Type),
	}
}

var defaultConverters = newBuiltinRegistry()

// DefaultConverters returns the process-wide registry, which starts out with
// the built-in converters and renderers. Packages providing port types add
// theirs from init.
func DefaultConverters() *ConverterRegistry { return defaultConverters }

// Register installs conv as the converter for t, replacing any previous one.
func (r *ConverterRegistry) Register(t reflect.Type, conv StringConverter) {
	if t == nil || conv == nil {
		panic(&LogicError{Msg: "btcore: Register requires a type and a converter"})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[t] = conv
	r.names[t.String()] = t
}

// RegisterRenderer installs render as the renderer for t.
func (r *ConverterRegistry) RegisterRenderer(t reflect.Type, render StringRenderer) {
	if t == nil || render == nil {
		panic(&LogicError{Msg: "btcore: RegisterRenderer requires a type and a renderer"})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[t] = render
	r.names[t.String()] = t
}

// RegisterConverter registers parse as the converter for T. Errors returned
// by parse are wrapped in a *ConversionError.
func RegisterConverter[T any](r *ConverterRegistry, parse func(text string) (T, error)) {
	t := reflect.TypeFor[T]()
	r.Register(t, func(text string) (safeany.Value, error) {
		v, err := parse(text)
		if err != nil {
			return safeany.Value{}, conversionError(t, text, err)
		}
		return safeany.New(v), nil
	})
}

// RegisterRenderer registers render as the toStr implementation for T.
func RegisterRenderer[T any](r *ConverterRegistry, render func(v T) string) {
	r.RegisterRenderer(reflect.TypeFor[T](), func(v any) (string, error) {
		tv, ok := v.(T)
		if !ok {
			return "", fmt.Errorf("btcore: renderer for [%s] got %T", reflect.TypeFor[T](), v)
		}
		return render(tv), nil
	})
}

// Lookup returns the converter registered for t.
func (r *ConverterRegistry) Lookup(t reflect.Type) (StringConverter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.converters[t]
	return conv, ok
}

// LookupName resolves a type by its Go name, as printed by reflect.Type.String,
// e.g. "int", "[]float64" or "btcore.NodeStatus".
func (r *ConverterRegistry) LookupName(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.names[name]
	return t, ok
}

// Types returns the names of every registered type, sorted.
func (r *ConverterRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.names))
}

// Supports reports whether text for t can be converted without panicking.
func (r *ConverterRegistry) Supports(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if _, ok := r.Lookup(t); ok {
		return true
	}
	return t.Kind() == reflect.String || reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// ConverterFor returns the converter a port of type t uses. Untyped ports
// get nil. Unregistered types parse through UnmarshalText when they have
// one, and string kinds take the text as is. A type nothing knows how to
// parse gets a converter that panics with a *LogicError when called.
func (r *ConverterRegistry) ConverterFor(t reflect.Type) StringConverter {
	if isUntyped(t) {
		return nil
	}
	if conv, ok := r.Lookup(t); ok {
		return conv
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(text string) (safeany.Value, error) {
			ptr := reflect.New(t)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				return safeany.Value{}, conversionError(t, text, err)
			}
			return safeany.Of(ptr.Elem().Interface()), nil
		}
	}
	if t.Kind() == reflect.String {
		return func(text string) (safeany.Value, error) {
			return safeany.Of(reflect.ValueOf(text).Convert(t).Interface()), nil
		}
	}
	return func(string) (safeany.Value, error) {
		panic(&LogicError{Msg: fmt.Sprintf(
			"btcore: text was converted for type [%s], but no converter is registered for it; "+
				"register one with RegisterConverter or implement encoding.TextUnmarshaler", t)})
	}
}

// Convert converts text to a Value of type t.
func (r *ConverterRegistry) Convert(t reflect.Type, text string) (safeany.Value, error) {
	conv := r.ConverterFor(t)
	if conv == nil {
		return safeany.Value{}, fmt.Errorf("%w for [%s]", ErrNoConverter, safeany.TypeName(t))
	}
	return conv(text)
}

// ConvertNamed converts text using the type registered under name.
func (r *ConverterRegistry) ConvertNamed(name, text string) (safeany.Value, error) {
	t, ok := r.LookupName(name)
	if !ok {
		return safeany.Value{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return r.Convert(t, text)
}

// StringConverterFor returns the converter r selects for T.
func StringConverterFor[T any](r *ConverterRegistry) StringConverter {
	return r.ConverterFor(reflect.TypeFor[T]())
}

// ConvertFromString converts text to T using DefaultConverters.
func ConvertFromString[T any](text string) (T, error) {
	var zero T
	v, err := DefaultConverters().Convert(reflect.TypeFor[T](), text)
	if err != nil {
		return zero, err
	}
	return safeany.Get[T](v)
}

func isUntyped(t reflect.Type) bool {
	return t == nil || t == anyTypeAllowedType || t == emptyInterfaceType
}

var errEmptySequence = errors.New("empty sequence")

func parseSigned[T constraints.Signed](text string) (T, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, reflect.TypeFor[T]().Bits())
	if err != nil {
		return 0, err
	}
	return T(n), nil
}

func parseUnsigned[T constraints.Unsigned](text string) (T, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, reflect.TypeFor[T]().Bits())
	if err != nil {
		return 0, err
	}
	return T(n), nil
}

func parseFloat[T constraints.Float](text string) (T, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), reflect.TypeFor[T]().Bits())
	if err != nil {
		return 0, err
	}
	return T(f), nil
}

// parseBool accepts 0, 1, true, false, TRUE and FALSE, and nothing else.
func parseBool(text string) (bool, error) {
	switch text {
	case "1", "true", "TRUE":
		return true, nil
	case "0", "false", "FALSE":
		return false, nil
	default:
		return false, errors.New("expected one of 0, 1, true, false, TRUE, FALSE")
	}
}

// parseSequence splits text on ';' and parses each element. Empty input and
// empty elements are errors.
func parseSequence[T any](text string, parse func(string) (T, error)) ([]T, error) {
	if text == "" {
		return nil, errEmptySequence
	}
	parts := strings.Split(text, ";")
	out := make([]T, 0, len(parts))
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("element %d is empty", i)
		}
		v, err := parse(part)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseDuration(text string) (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(text))
}

func newBuiltinRegistry() *ConverterRegistry {
	r := NewConverterRegistry()

	RegisterConverter(r, func(s string) (string, error) { return s, nil })
	RegisterConverter(r, parseBool)
	RegisterConverter(r, parseSigned[int])
	RegisterConverter(r, parseSigned[int8])
	RegisterConverter(r, parseSigned[int16])
	RegisterConverter(r, parseSigned[int32])
	RegisterConverter(r, parseSigned[int64])
	RegisterConverter(r, parseUnsigned[uint])
	RegisterConverter(r, parseUnsigned[uint8])
	RegisterConverter(r, parseUnsigned[uint16])
	RegisterConverter(r, parseUnsigned[uint32])
	RegisterConverter(r, parseUnsigned[uint64])
	RegisterConverter(r, parseFloat[float32])
	RegisterConverter(r, parseFloat[float64])
	RegisterConverter(r, func(s string) ([]int, error) { return parseSequence(s, parseSigned[int]) })
	RegisterConverter(r, func(s string) ([]float64, error) { return parseSequence(s, parseFloat[float64]) })
	RegisterConverter(r, ParseNodeStatus)
	RegisterConverter(r, ParseNodeType)
	RegisterConverter(r, ParsePortDirection)
	RegisterConverter(r, parseDuration)
	RegisterConverter(r, uuid.Parse)

	registerBuiltinRenderers(r)
	return r
}
