package nodes

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/joeycumines/btport/internal/blackboard"
	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/safeany"
	"go.uber.org/multierr"
)

var (
	ErrUnknownPort    = errors.New("nodes: unknown port")
	ErrMissingInput   = errors.New("nodes: input not set and port has no default")
	ErrNotRemapped    = errors.New("nodes: output port is not remapped")
	ErrWrongDirection = errors.New("nodes: port direction does not allow this access")
)

// reservedAttributes may appear on any node without a matching port.
var reservedAttributes = map[string]bool{"name": true, "ID": true}

// Instance is one use of a node type: its manifest, the attribute text it
// was declared with, and the blackboard its pointers refer to.
type Instance struct {
	Manifest   btcore.TreeNodeManifest
	Attributes map[string]string
	Blackboard *blackboard.Blackboard
}

// Name is the instance's name attribute, falling back to the registration ID.
func (n *Instance) Name() string {
	if name := n.Attributes["name"]; name != "" {
		return name
	}
	return n.Manifest.RegistrationID
}

func (n *Instance) port(name string, want btcore.PortDirection) (btcore.PortInfo, error) {
	info, ok := n.Manifest.Ports[name]
	if !ok {
		return info, fmt.Errorf("%w %q on %s", ErrUnknownPort, name, n.Manifest.RegistrationID)
	}
	if info.Direction() != btcore.InOut && info.Direction() != want {
		return info, fmt.Errorf("%w: %q is %s", ErrWrongDirection, name, info.Direction())
	}
	return info, nil
}

// GetInputValue resolves an input port. The attribute is used first: literal
// text goes through the port's converter and a {key} pointer reads the
// blackboard. Without an attribute the port's default applies. A string
// entry read through a strongly typed port is converted like literal text.
func (n *Instance) GetInputValue(name string) (safeany.Value, error) {
	info, err := n.port(name, btcore.Input)
	if err != nil {
		return safeany.Value{}, err
	}
	text, ok := n.Attributes[name]
	if !ok {
		if def, ok := info.DefaultValue(); ok {
			return def, nil
		}
		return safeany.Value{}, fmt.Errorf("%w: %q", ErrMissingInput, name)
	}
	if key, ok := remappedKey(text, name); ok {
		if n.Blackboard == nil {
			return safeany.Value{}, fmt.Errorf("nodes: %q points at {%s} but there is no blackboard", name, key)
		}
		v, ok := n.Blackboard.Get(key)
		if !ok {
			return safeany.Value{}, fmt.Errorf("nodes: %q: %w: %q", name, blackboard.ErrNotFound, key)
		}
		if v.Type() == stringType && info.IsStronglyTyped() && info.Type() != stringType {
			return info.ParseString(v.Interface().(string)).Unwrap()
		}
		return v, nil
	}
	return info.ParseString(text).Unwrap()
}

// GetInput is GetInputValue with the result extracted as T.
func GetInput[T any](n *Instance, name string) (T, error) {
	var zero T
	v, err := n.GetInputValue(name)
	if err != nil {
		return zero, err
	}
	out, err := safeany.Get[T](v)
	if err != nil {
		return zero, fmt.Errorf("nodes: input %q: %w", name, err)
	}
	return out, nil
}

// SetOutputValue writes v to the entry an output port is remapped to. The
// attribute may be a {key} pointer, {=} for the port's own name, or a bare
// key.
func (n *Instance) SetOutputValue(name string, v safeany.Value) error {
	if _, err := n.port(name, btcore.Output); err != nil {
		return err
	}
	text, ok := n.Attributes[name]
	if !ok || strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %q", ErrNotRemapped, name)
	}
	key, ok := remappedKey(text, name)
	if !ok {
		key = strings.TrimSpace(text)
	}
	if n.Blackboard == nil {
		return fmt.Errorf("nodes: output %q has no blackboard", name)
	}
	return n.Blackboard.Set(key, v)
}

// SetOutput writes v with T as its type.
func SetOutput[T any](n *Instance, name string, v T) error {
	return n.SetOutputValue(name, safeany.New(v))
}

// ParseAttributes checks attribute text against a manifest before anything
// runs. Literal text on input ports is converted, so malformed values are
// reported here rather than on the first tick. Output attributes name
// blackboard keys and are left alone. Unknown attributes are rejected, and
// all problems are returned together.
func ParseAttributes(m btcore.TreeNodeManifest, attrs map[string]string) (map[string]safeany.Value, error) {
	values := make(map[string]safeany.Value)
	var err error
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		text := attrs[name]
		if reservedAttributes[name] {
			continue
		}
		info, ok := m.Ports[name]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w %q on %s", ErrUnknownPort, name, m.RegistrationID))
			continue
		}
		if _, ok := remappedKey(text, name); ok {
			continue
		}
		if info.Direction() == btcore.Output {
			continue
		}
		v, convErr := info.ParseString(text).Unwrap()
		if convErr != nil {
			err = multierr.Append(err, fmt.Errorf("port %q: %w", name, convErr))
			continue
		}
		values[name] = v
	}
	return values, err
}

var stringType = reflect.TypeFor[string]()
