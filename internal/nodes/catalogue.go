// Package nodes declares the built-in node types, resolves their inputs
// from attribute text and a blackboard, and builds go-behaviortree nodes for
// the ones with simple semantics.
package nodes

import (
	"sync"

	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/script"
)

type (
	AlwaysSuccess struct{}
	AlwaysFailure struct{}

	// SetBlackboard copies value into the entry named by output_key.
	SetBlackboard struct{}

	ScriptCondition struct{}
	Script          struct{}

	Sleep struct{}

	Timeout              struct{}
	Delay                struct{}
	Repeat               struct{}
	RetryUntilSuccessful struct{}
	Inverter             struct{}

	Sequence struct{}
	Fallback struct{}
	Parallel struct{}

	SubTree struct{}
)

func (AlwaysSuccess) Description() string { return "Returns SUCCESS without doing anything." }
func (AlwaysFailure) Description() string { return "Returns FAILURE without doing anything." }

func (SetBlackboard) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.AnyInputPort("value", "Value to store: literal text, or a {key} to copy."),
		btcore.AnyBidirectionalPort("output_key", "Name of the blackboard entry to write."),
	)
}

func (SetBlackboard) Description() string {
	return "Stores value in the blackboard entry output_key."
}

func (ScriptCondition) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.InputPort[script.Script]("code", "Boolean expression evaluated against the blackboard."),
	)
}

func (ScriptCondition) Description() string {
	return "Returns SUCCESS if code evaluates to true, FAILURE otherwise."
}

func (Script) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.InputPort[script.Script]("code", "Expression or `key := expression` assignment."),
	)
}

func (Script) Description() string { return "Runs code against the blackboard." }

func (Sleep) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.InputPort[uint]("msec", "Milliseconds to stay RUNNING."),
	)
}

func (Timeout) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.InputPort[uint]("msec", "Halts the child after this many milliseconds."),
	)
}

func (Delay) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.InputPort[uint]("delay_msec", "Milliseconds to wait before ticking the child."),
	)
}

func (Repeat) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.InputPort[int]("num_cycles", "Repeat a successful child up to N times. -1 repeats forever."),
	)
}

func (RetryUntilSuccessful) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.InputPort[int]("num_attempts", "Retry a failing child up to N times. -1 retries forever."),
	)
}

func (Inverter) Description() string { return "Swaps the SUCCESS and FAILURE of its child." }

func (Sequence) Description() string {
	return "Ticks children in order until one fails or all succeed."
}

func (Fallback) Description() string {
	return "Ticks children in order until one succeeds or all fail."
}

func (Parallel) ProvidedPorts() btcore.PortsList {
	return btcore.NewPortsList(
		btcore.InputPortWithDefault("success_count", -1,
			"Successful children needed to return SUCCESS. -1 means all."),
		btcore.InputPortWithDefault("failure_count", 1,
			"Failed children needed to return FAILURE. -1 means all."),
	)
}

func (SubTree) Description() string {
	return "Runs another tree with its own blackboard scope."
}

// Register adds the manifests of the built-in node types to r.
func Register(r *btcore.ManifestRegistry) error {
	for _, reg := range []func(*btcore.ManifestRegistry) error{
		register[AlwaysSuccess](btcore.Action, "AlwaysSuccess"),
		register[AlwaysFailure](btcore.Action, "AlwaysFailure"),
		register[SetBlackboard](btcore.Action, "SetBlackboard"),
		register[ScriptCondition](btcore.Condition, "ScriptCondition"),
		register[Script](btcore.Action, "Script"),
		register[Sleep](btcore.Action, "Sleep"),
		register[Timeout](btcore.Decorator, "Timeout"),
		register[Delay](btcore.Decorator, "Delay"),
		register[Repeat](btcore.Decorator, "Repeat"),
		register[RetryUntilSuccessful](btcore.Decorator, "RetryUntilSuccessful"),
		register[Inverter](btcore.Decorator, "Inverter"),
		register[Sequence](btcore.Control, "Sequence"),
		register[Fallback](btcore.Control, "Fallback"),
		register[Parallel](btcore.Control, "Parallel"),
		register[SubTree](btcore.SubTree, "SubTree"),
	} {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

func register[T any](kind btcore.NodeType, id string) func(*btcore.ManifestRegistry) error {
	return func(r *btcore.ManifestRegistry) error {
		return btcore.RegisterNodeType[T](r, kind, id)
	}
}

var defaultManifests = sync.OnceValue(func() *btcore.ManifestRegistry {
	r := btcore.NewManifestRegistry(btcore.WithStrict(true))
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
})

// DefaultManifests returns a strict registry holding the built-in node types.
// Callers may register their own types into it.
func DefaultManifests() *btcore.ManifestRegistry { return defaultManifests() }
