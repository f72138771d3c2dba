package lifecycle

import "fmt"

// State is a lifecycle stage. States only move forward.
type State int

const (
	Created State = iota
	PreInit
	Init
	PostInit
	Running
	ShuttingDown
	Terminated
)

var stateNames = [...]string{
	Created:      "created",
	PreInit:      "pre-init",
	Init:         "init",
	PostInit:     "post-init",
	Running:      "running",
	ShuttingDown: "shutting-down",
	Terminated:   "terminated",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}
