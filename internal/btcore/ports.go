package btcore

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"
)

// PortsList maps port names to their descriptions. A node type's list is
// assembled once and then only read.
type PortsList map[string]PortInfo

// NewPortsList assembles ports into a PortsList. A repeated name is a schema
// error and panics with a *RuntimeError.
func NewPortsList(ports ...Port) PortsList {
	l := make(PortsList, len(ports))
	for _, p := range ports {
		if _, ok := l[p.Name]; ok {
			panic(&RuntimeError{Msg: fmt.Sprintf("duplicate port name %q", p.Name)})
		}
		l[p.Name] = p.Info
	}
	return l
}

// Names returns the port names, sorted.
func (l PortsList) Names() []string {
	return slices.Sorted(maps.Keys(l))
}

// Inputs returns the sorted names of INPUT and INOUT ports.
func (l PortsList) Inputs() []string {
	return l.filter(func(p PortInfo) bool { return p.Direction() != Output })
}

// Outputs returns the sorted names of OUTPUT and INOUT ports.
func (l PortsList) Outputs() []string {
	return l.filter(func(p PortInfo) bool { return p.Direction() != Input })
}

func (l PortsList) filter(keep func(PortInfo) bool) []string {
	var names []string
	for _, name := range l.Names() {
		if keep(l[name]) {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks every port name and that every strongly typed port has
// text support in r. All problems are reported together.
func (l PortsList) Validate(r *ConverterRegistry) error {
	var err error
	for _, name := range l.Names() {
		info := l[name]
		if !IsAllowedPortName(name) {
			err = multierr.Append(err, fmt.Errorf("port %q: invalid name", name))
		}
		if info.IsStronglyTyped() && !r.Supports(info.Type()) {
			err = multierr.Append(err, fmt.Errorf("port %q: no converter for type [%s]", name, info.TypeName()))
		}
	}
	return err
}

// PortsProvider is implemented by node types that declare ports. The method
// is called on the zero value of the type.
type PortsProvider interface {
	ProvidedPorts() PortsList
}

// DescriptionProvider is implemented by node types that describe themselves.
// The method is called on the zero value of the type.
type DescriptionProvider interface {
	Description() string
}

// ProvidedPorts returns the ports declared by T, or an empty list if T does
// not implement PortsProvider with either receiver.
func ProvidedPorts[T any]() PortsList {
	if p, ok := capability[PortsProvider, T](); ok {
		if l := p.ProvidedPorts(); l != nil {
			return l
		}
	}
	return PortsList{}
}

// ProvidedDescription returns T's description, if it has one.
func ProvidedDescription[T any]() (string, bool) {
	if p, ok := capability[DescriptionProvider, T](); ok {
		return p.Description(), true
	}
	return "", false
}

func capability[I any, T any]() (I, bool) {
	var zero T
	if c, ok := any(zero).(I); ok {
		return c, true
	}
	if c, ok := any(&zero).(I); ok {
		return c, true
	}
	var none I
	return none, false
}
