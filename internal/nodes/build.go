package nodes

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/btport/internal/blackboard"
	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/safeany"
	"github.com/joeycumines/btport/internal/script"
	bt "github.com/joeycumines/go-behaviortree"
)

// ErrNotBuildable is returned for node types that have a manifest but no
// go-behaviortree implementation here.
var ErrNotBuildable = errors.New("nodes: node type has no implementation")

// Builder turns node declarations into go-behaviortree nodes sharing one
// blackboard.
type Builder struct {
	Manifests  *btcore.ManifestRegistry
	Blackboard *blackboard.Blackboard

	// now is replaced in tests.
	now func() time.Time
}

// NewBuilder returns a Builder over the default manifests and bb.
func NewBuilder(bb *blackboard.Blackboard) *Builder {
	return &Builder{Manifests: DefaultManifests(), Blackboard: bb}
}

// Instance validates attrs against the manifest registered under id.
func (b *Builder) Instance(id string, attrs map[string]string) (*Instance, error) {
	m, ok := b.Manifests.Get(id)
	if !ok {
		return nil, fmt.Errorf("nodes: no manifest for %q", id)
	}
	if _, err := ParseAttributes(m, attrs); err != nil {
		return nil, fmt.Errorf("nodes: %s: %w", id, err)
	}
	return &Instance{Manifest: m, Attributes: attrs, Blackboard: b.Blackboard}, nil
}

// Build returns the node for id. Leaves ignore children; Sequence, Fallback
// and Inverter are the go-behaviortree composites of the same meaning.
func (b *Builder) Build(id string, attrs map[string]string, children ...bt.Node) (bt.Node, error) {
	n, err := b.Instance(id, attrs)
	if err != nil {
		return nil, err
	}
	var tick bt.Tick
	switch id {
	case "AlwaysSuccess":
		tick = func([]bt.Node) (bt.Status, error) { return bt.Success, nil }
	case "AlwaysFailure":
		tick = func([]bt.Node) (bt.Status, error) { return bt.Failure, nil }
	case "SetBlackboard":
		tick = n.setBlackboard
	case "ScriptCondition":
		tick = n.scriptCondition
	case "Script":
		tick = n.runScript
	case "Sleep":
		tick = b.sleep(n)
	case "Sequence":
		tick = bt.Sequence
	case "Fallback":
		tick = bt.Selector
	case "Inverter":
		if len(children) != 1 {
			return nil, fmt.Errorf("nodes: Inverter needs exactly one child, got %d", len(children))
		}
		tick = bt.Not(bt.Sequence)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNotBuildable, id)
	}
	return bt.New(tick, children...), nil
}

func (n *Instance) setBlackboard([]bt.Node) (bt.Status, error) {
	text, ok := n.Attributes["value"]
	if !ok {
		return bt.Failure, fmt.Errorf("nodes: %s: %w: %q", n.Name(), ErrMissingInput, "value")
	}
	v := safeany.New(text)
	if key, ok := remappedKey(text, "value"); ok {
		var found bool
		if v, found = n.Blackboard.Get(key); !found {
			return bt.Failure, fmt.Errorf("nodes: %s: %w: %q", n.Name(), blackboard.ErrNotFound, key)
		}
	}
	if err := n.SetOutputValue("output_key", v); err != nil {
		return bt.Failure, err
	}
	return bt.Success, nil
}

func (n *Instance) scriptCondition([]bt.Node) (bt.Status, error) {
	code, err := GetInput[script.Script](n, "code")
	if err != nil {
		return bt.Failure, err
	}
	ok, err := code.EvalBool(n.Blackboard.Snapshot())
	if err != nil {
		return bt.Failure, err
	}
	if ok {
		return bt.Success, nil
	}
	return bt.Failure, nil
}

func (n *Instance) runScript([]bt.Node) (bt.Status, error) {
	code, err := GetInput[script.Script](n, "code")
	if err != nil {
		return bt.Failure, err
	}
	if _, err := code.RunOn(n.Blackboard); err != nil {
		return bt.Failure, err
	}
	return bt.Success, nil
}

// sleep stays RUNNING until msec have passed since the first tick, then
// succeeds and rearms.
func (b *Builder) sleep(n *Instance) bt.Tick {
	now := b.now
	if now == nil {
		now = time.Now
	}
	var (
		mu       sync.Mutex
		deadline time.Time
	)
	return func([]bt.Node) (bt.Status, error) {
		msec, err := GetInput[uint](n, "msec")
		if err != nil {
			return bt.Failure, err
		}
		mu.Lock()
		defer mu.Unlock()
		t := now()
		if deadline.IsZero() {
			deadline = t.Add(time.Duration(msec) * time.Millisecond)
		}
		if t.Before(deadline) {
			return bt.Running, nil
		}
		deadline = time.Time{}
		return bt.Success, nil
	}
}
