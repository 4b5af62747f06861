package service

import "fmt"

// State represents a state in the lifecycle state machine. The state machine
// provided by this package is the following:
//
//          +--------------+
//          | New          +---------------------+
//          +-+------------+                     |
//            |                                  |
//          +-v------------+                     |
//     +----+ Starting     |                     |
//     |    +-+------------+                     |
//     |      |                                  |
//     |    +-v------------+                     |
//     +----+ Running      +----------------+    |
//     |    +-+------------+                |    |
//     |      |                             |    |
//     |    +-v------------+              +-v----v-------+
//     +----+ Stopping     +--------------> Terminated   |
//     |    +--------------+              +--------------+
//     |
//     |    +--------------+
//     +----> Failed       |
//          +--------------+
//
// A stop requested while the service is still starting is reported as
// Stopping right away, but the stop hook only runs once the pending start
// completes, so the start and stop hooks never execute concurrently.
//
// States are declared in transition order: whenever a transition from A to B
// is legal, A precedes B in the declaration order below. Terminated and
// Failed are terminal.
type State uint8

const (
	// New is the initial state of a service that has never been started.
	New State = iota
	// Starting represents a service that is in the process of starting.
	Starting
	// Running represents a started, healthy service.
	Running
	// Stopping represents a service being shut down.
	Stopping
	// Terminated represents a service that stopped without errors. Terminal.
	Terminated
	// Failed represents a service that encountered a problem while starting,
	// running or stopping. Terminal.
	Failed
)

func (s State) String() string {
	switch s {
	case New:
		return "New"
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Stopping:
		return "Stopping"
	case Terminated:
		return "Terminated"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("%d", int(s))
	}
}

// Terminal returns true if no transition out of this state is possible.
func (s State) Terminal() bool {
	return s == Terminated || s == Failed
}

// snapshot is an immutable record of the machine state at one instant. It is
// replaced wholesale under the controller lock on every transition and
// published through an atomic pointer, so queries never need the lock.
type snapshot struct {
	// The internal state. Equals the external state unless stopRequested is
	// set.
	state State
	// stopRequested marks a stop requested while the service was still
	// starting. Only legal while state == Starting.
	stopRequested bool
	// The error that caused the service to fail. Non-nil if and only if
	// state == Failed.
	failure error
}

// externalState returns the state as reported to callers. A service whose
// stop was requested while it was starting reports Stopping even though the
// start hook has not completed yet.
func (s *snapshot) externalState() State {
	if s.stopRequested && s.state == Starting {
		return Stopping
	}
	return s.state
}
