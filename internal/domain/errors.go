package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnknownNode    = errors.New("edge references unknown node")
	ErrUnknownHandle  = errors.New("handle does not exist on node type")
	ErrDuplicateEdge  = errors.New("duplicate connection")
	ErrSelfLoop       = errors.New("self-loop not supported by node type")
	ErrEmptyWorkflow  = errors.New("workflow has no nodes")
	ErrActionInFlight = errors.New("action already in flight")
	ErrNotLoaded      = errors.New("no workflow loaded")
)

// TransitionError reports a rejected workflow status transition.
type TransitionError struct {
	From WorkflowStatus
	To   WorkflowStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func IsInvalidTransition(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

// ImportError wraps a malformed import document failure with a
// human-readable reason. The live graph is never touched when one of
// these is returned.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Reason, e.Err)
	}
	return "import failed: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

func IsImportError(err error) bool {
	var ie *ImportError
	return errors.As(err, &ie)
}

// BoundaryError reports a failed call to the external persistence or
// execution service. Local state stays at its last known good value
// whenever one of these surfaces.
type BoundaryError struct {
	Op  string
	Err error
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BoundaryError) Unwrap() error { return e.Err }

func NewBoundaryError(op string, err error) *BoundaryError {
	return &BoundaryError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
