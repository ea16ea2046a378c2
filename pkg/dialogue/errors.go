package dialogue

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedDirective is a well-formed directive whose key the
	// current mode does not handle.
	ErrUnrecognizedDirective = errors.New("unrecognized directive")
	// ErrMissingReference is a directive naming a speaker, actor, event or
	// portrait that does not exist.
	ErrMissingReference = errors.New("missing reference")
	// ErrInvalidValue is a directive whose value is outside its domain.
	ErrInvalidValue = errors.New("invalid directive value")
	// ErrSessionActive is returned when initializing over a running session.
	ErrSessionActive = errors.New("dialogue session already active")
	// ErrIllegalTransition is wrapped by the panics raised when a caller
	// requests an operation the session state does not permit.
	ErrIllegalTransition = errors.New("illegal dialogue transition")
)

// IllegalTransitionError is the panic value for a caller contract violation.
type IllegalTransitionError struct {
	State     State
	Operation string
	Detail    string
}

func (e *IllegalTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s in state %s", ErrIllegalTransition, e.Operation, e.State)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

func illegal(state State, op, detail string) {
	panic(&IllegalTransitionError{State: state, Operation: op, Detail: detail})
}
