package btcore

import (
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"
)

// ToBehaviorTree maps s onto the go-behaviortree status. Only Running,
// Success and Failure have an equivalent.
func (s NodeStatus) ToBehaviorTree() (bt.Status, error) {
	switch s {
	case Running:
		return bt.Running, nil
	case Success:
		return bt.Success, nil
	case Failure:
		return bt.Failure, nil
	default:
		return 0, fmt.Errorf("btcore: %s has no go-behaviortree equivalent", s)
	}
}

// FromBehaviorTree maps a go-behaviortree status onto NodeStatus.
func FromBehaviorTree(s bt.Status) (NodeStatus, error) {
	switch s {
	case bt.Running:
		return Running, nil
	case bt.Success:
		return Success, nil
	case bt.Failure:
		return Failure, nil
	default:
		return Idle, fmt.Errorf("btcore: unknown go-behaviortree status %d", int(s))
	}
}
