package core

import "fmt"

// ExecutionState tracks a single execution request from submission to its outcome.
type ExecutionState int

const (
	StateIdle           ExecutionState = iota // Nothing submitted yet
	StateSubmitted                            // Request sent, waiting for the service
	StateCompleted                            // Service reported completed/success
	StateFailed                               // Service reported failed/error
	StateTimeout                              // Service reported timeout
	StateTransportError                       // Non-2xx or network failure on every endpoint
)

// String returns the string representation of ExecutionState
func (s ExecutionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimeout:
		return "timeout"
	case StateTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the state is a final state
func (s ExecutionState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateTimeout, StateTransportError:
		return true
	default:
		return false
	}
}

// RendersResult returns true if the state produces a result card.
// Timeouts and transport errors only produce a notification.
func (s ExecutionState) RendersResult() bool {
	return s == StateCompleted || s == StateFailed
}

// Transition moves the state forward, rejecting anything other than
// idle -> submitted -> terminal.
func (s ExecutionState) Transition(to ExecutionState) (ExecutionState, error) {
	switch {
	case s == StateIdle && to == StateSubmitted:
		return to, nil
	case s == StateSubmitted && to.IsTerminal():
		return to, nil
	default:
		return s, fmt.Errorf("invalid execution transition %s -> %s", s, to)
	}
}

// Status is the status tag reported by the execution endpoints.
type Status string

// Status values accepted from the service.
const (
	StatusCompleted Status = "completed"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusError     Status = "error"
	StatusTimeout   Status = "timeout"
)

// State maps a reported status onto the terminal execution state.
// Unknown values are treated as failures so the message still reaches the user.
func (s Status) State() ExecutionState {
	switch s {
	case StatusCompleted, StatusSuccess:
		return StateCompleted
	case StatusTimeout:
		return StateTimeout
	default:
		return StateFailed
	}
}

// IsSuccess returns true for completed and success.
func (s Status) IsSuccess() bool {
	return s == StatusCompleted || s == StatusSuccess
}
