package btcore

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/joeycumines/btport/internal/safeany"
)

// AnyTypeAllowed is the type of an untyped port. Text given to such a port
// is not checked. Declaring a port of type any has the same effect.
type AnyTypeAllowed struct{}

// PortInfo describes one port of a node type.
type PortInfo struct {
	direction       PortDirection
	typ             reflect.Type
	typeName        string
	converter       StringConverter
	description     string
	defaultValue    safeany.Value
	defaultValueStr string
}

// NewPortInfo returns an untyped port.
func NewPortInfo(direction PortDirection) PortInfo {
	return PortInfo{
		direction: direction,
		typ:       anyTypeAllowedType,
		typeName:  "AnyTypeAllowed",
	}
}

// NewTypedPortInfo returns a port of type t using conv for text input.
func NewTypedPortInfo(direction PortDirection, t reflect.Type, conv StringConverter) PortInfo {
	return PortInfo{
		direction: direction,
		typ:       t,
		typeName:  safeany.TypeName(t),
		converter: conv,
	}
}

func (p PortInfo) Direction() PortDirection { return p.direction }

// Type returns the declared type, reflect.TypeFor[AnyTypeAllowed]() for
// untyped ports.
func (p PortInfo) Type() reflect.Type { return p.typ }

func (p PortInfo) TypeName() string { return p.typeName }

func (p PortInfo) Description() string { return p.description }

// IsStronglyTyped reports whether the port declares a type.
func (p PortInfo) IsStronglyTyped() bool {
	return p.typ != nil && p.typ != anyTypeAllowedType
}

// Converter returns the converter fixed at declaration, nil for untyped
// ports.
func (p PortInfo) Converter() StringConverter { return p.converter }

// ParseString converts text with the port's converter. Untyped ports hand
// the text back as a string Value without checking it.
func (p PortInfo) ParseString(text string) Expected[safeany.Value] {
	if p.converter == nil {
		return Ok(safeany.New(text))
	}
	return FromPair(p.converter(text))
}

// DefaultValue returns the typed default, and whether one was set.
func (p PortInfo) DefaultValue() (safeany.Value, bool) {
	return p.defaultValue, !p.defaultValue.Empty()
}

// DefaultValueString is the rendering of the default value. It is empty if
// no default was set or the default's type has no string representation.
func (p PortInfo) DefaultValueString() string { return p.defaultValueStr }

func (p *PortInfo) SetDescription(description string) { p.description = description }

// SetDefaultValue stores v, identified by its dynamic type, as the default.
// The text rendering is best effort: a type that cannot be rendered leaves
// DefaultValueString empty and the typed default in place.
func (p *PortInfo) SetDefaultValue(v any) {
	p.setDefault(safeany.Of(v))
}

// SetDefault is the statically typed SetDefaultValue.
func SetDefault[T any](p *PortInfo, v T) {
	p.setDefault(safeany.New(v))
}

func (p *PortInfo) setDefault(v safeany.Value) {
	p.defaultValue = v
	p.defaultValueStr = ""
	if v.Empty() {
		return
	}
	s, err := ToStr(v.Interface())
	if err != nil {
		slog.Debug("port default has no text form",
			slog.String("component", "btcore"),
			slog.String("type", v.TypeName()),
			slog.Any("error", err))
		return
	}
	p.defaultValueStr = s
}

// Port is a named PortInfo, as produced by CreatePort and its helpers.
type Port struct {
	Name string
	Info PortInfo
}

// IsAllowedPortName reports whether name may be used for a port: it must
// start with an ASCII letter, contain no NUL byte, and be neither "name" nor
// "ID". Names starting with an underscore are reserved.
func IsAllowedPortName(name string) bool {
	if name == "" {
		return false
	}
	if c := name[0]; !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
		return false
	}
	if strings.IndexByte(name, 0) >= 0 {
		return false
	}
	return name != "name" && name != "ID"
}

// CreatePort declares a port of type T. T = AnyTypeAllowed (or any) declares
// an untyped port. It panics with a *RuntimeError if name is not allowed.
func CreatePort[T any](direction PortDirection, name, description string) Port {
	if !IsAllowedPortName(name) {
		panic(&RuntimeError{Msg: fmt.Sprintf("invalid port name %q: "+
			"the name of a port must not be `name` or `ID` "+
			"and must start with an alphabetic character. Underscore is reserved.", name)})
	}
	t := reflect.TypeFor[T]()
	var info PortInfo
	if isUntyped(t) {
		info = NewPortInfo(direction)
	} else {
		info = NewTypedPortInfo(direction, t, DefaultConverters().ConverterFor(t))
	}
	info.SetDescription(description)
	return Port{Name: name, Info: info}
}

func InputPort[T any](name, description string) Port {
	return CreatePort[T](Input, name, description)
}

func OutputPort[T any](name, description string) Port {
	return CreatePort[T](Output, name, description)
}

func BidirectionalPort[T any](name, description string) Port {
	return CreatePort[T](InOut, name, description)
}

// InputPortWithDefault declares an input port of type T whose default is def.
func InputPortWithDefault[T any](name string, def T, description string) Port {
	p := CreatePort[T](Input, name, description)
	SetDefault(&p.Info, def)
	return p
}

// BidirectionalPortWithDefault declares an INOUT port of type T whose default
// is def.
func BidirectionalPortWithDefault[T any](name string, def T, description string) Port {
	p := CreatePort[T](InOut, name, description)
	SetDefault(&p.Info, def)
	return p
}

func AnyInputPort(name, description string) Port {
	return CreatePort[AnyTypeAllowed](Input, name, description)
}

func AnyOutputPort(name, description string) Port {
	return CreatePort[AnyTypeAllowed](Output, name, description)
}

func AnyBidirectionalPort(name, description string) Port {
	return CreatePort[AnyTypeAllowed](InOut, name, description)
}
