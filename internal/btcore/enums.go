package btcore

import (
	"fmt"
	"reflect"

	"charm.land/lipgloss/v2"
)

// NodeStatus is the state a node is in after a tick.
// Custom nodes must never return Idle.
type NodeStatus int

const (
	Idle NodeStatus = iota
	Running
	Success
	Failure
	Skipped
)

var nodeStatusNames = [...]string{
	Idle:    "IDLE",
	Running: "RUNNING",
	Success: "SUCCESS",
	Failure: "FAILURE",
	Skipped: "SKIPPED",
}

// NodeStatuses lists every NodeStatus in declaration order.
func NodeStatuses() []NodeStatus {
	return []NodeStatus{Idle, Running, Success, Failure, Skipped}
}

// String returns the canonical uppercase name.
func (s NodeStatus) String() string {
	if s >= 0 && int(s) < len(nodeStatusNames) {
		return nodeStatusNames[s]
	}
	return fmt.Sprintf("NodeStatus(%d)", int(s))
}

// IsActive reports whether s is neither Idle nor Skipped.
func (s NodeStatus) IsActive() bool { return s != Idle && s != Skipped }

// IsCompleted reports whether s is Success or Failure.
func (s NodeStatus) IsCompleted() bool { return s == Success || s == Failure }

var statusStyles = map[NodeStatus]lipgloss.Style{
	Idle:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	Running: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Skipped: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
}

// Colored renders s for terminals. The result is for display only and is
// not accepted by ParseNodeStatus.
func (s NodeStatus) Colored() string {
	style, ok := statusStyles[s]
	if !ok {
		return s.String()
	}
	return style.Render(s.String())
}

// StatusString renders s, colored if requested.
func StatusString(s NodeStatus, colored bool) string {
	if colored {
		return s.Colored()
	}
	return s.String()
}

// ParseNodeStatus is the exact, case-sensitive inverse of NodeStatus.String.
func ParseNodeStatus(text string) (NodeStatus, error) {
	for i, name := range nodeStatusNames {
		if name == text {
			return NodeStatus(i), nil
		}
	}
	return Idle, unknownName(reflect.TypeFor[NodeStatus](), text, nodeStatusNames[:])
}

func (s NodeStatus) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(nodeStatusNames) {
		return nil, fmt.Errorf("btcore: invalid NodeStatus %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *NodeStatus) UnmarshalText(text []byte) error {
	v, err := ParseNodeStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// NodeType is the kind of a node.
type NodeType int

const (
	Undefined NodeType = iota
	Action
	Condition
	Control
	Decorator
	SubTree
)

var nodeTypeNames = [...]string{
	Undefined: "UNDEFINED",
	Action:    "ACTION",
	Condition: "CONDITION",
	Control:   "CONTROL",
	Decorator: "DECORATOR",
	SubTree:   "SUBTREE",
}

// NodeTypes lists every NodeType in declaration order.
func NodeTypes() []NodeType {
	return []NodeType{Undefined, Action, Condition, Control, Decorator, SubTree}
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// ParseNodeType is the exact, case-sensitive inverse of NodeType.String.
func ParseNodeType(text string) (NodeType, error) {
	for i, name := range nodeTypeNames {
		if name == text {
			return NodeType(i), nil
		}
	}
	return Undefined, unknownName(reflect.TypeFor[NodeType](), text, nodeTypeNames[:])
}

func (t NodeType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return nil, fmt.Errorf("btcore: invalid NodeType %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *NodeType) UnmarshalText(text []byte) error {
	v, err := ParseNodeType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// PortDirection is the direction data flows through a port.
type PortDirection int

const (
	Input PortDirection = iota
	Output
	InOut
)

var portDirectionNames = [...]string{
	Input:  "INPUT",
	Output: "OUTPUT",
	InOut:  "INOUT",
}

// PortDirections lists every PortDirection in declaration order.
func PortDirections() []PortDirection {
	return []PortDirection{Input, Output, InOut}
}

func (d PortDirection) String() string {
	if d >= 0 && int(d) < len(portDirectionNames) {
		return portDirectionNames[d]
	}
	return fmt.Sprintf("PortDirection(%d)", int(d))
}

// ParsePortDirection is the exact, case-sensitive inverse of
// PortDirection.String.
func ParsePortDirection(text string) (PortDirection, error) {
	for i, name := range portDirectionNames {
		if name == text {
			return PortDirection(i), nil
		}
	}
	return Input, unknownName(reflect.TypeFor[PortDirection](), text, portDirectionNames[:])
}

func (d PortDirection) MarshalText() ([]byte, error) {
	if d < 0 || int(d) >= len(portDirectionNames) {
		return nil, fmt.Errorf("btcore: invalid PortDirection %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *PortDirection) UnmarshalText(text []byte) error {
	v, err := ParsePortDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func unknownName(t reflect.Type, text string, names []string) error {
	return &ConversionError{
		Type: t,
		Text: text,
		Err:  fmt.Errorf("not one of %v", names),
	}
}
