// Package lifecycle governs workflow status transitions and the
// publish/version axis.
package lifecycle

import (
	"github.com/loomhq/loom/internal/domain"
)

// Workflow status transition table. Archival is reachable from any
// non-archived status; the only way back out is through draft.
var transitions = map[domain.WorkflowStatus][]domain.WorkflowStatus{
	domain.WorkflowStatusDraft:    {domain.WorkflowStatusActive, domain.WorkflowStatusArchived},
	domain.WorkflowStatusActive:   {domain.WorkflowStatusPaused, domain.WorkflowStatusArchived},
	domain.WorkflowStatusPaused:   {domain.WorkflowStatusActive, domain.WorkflowStatusArchived},
	domain.WorkflowStatusArchived: {domain.WorkflowStatusDraft},
}

// CanTransition reports whether from -> to is a permitted status
// change.
func CanTransition(from, to domain.WorkflowStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates a status change. Invalid transitions are
// reported to the caller, never silently coerced.
func Transition(from, to domain.WorkflowStatus) error {
	if !CanTransition(from, to) {
		return &domain.TransitionError{From: from, To: to}
	}
	return nil
}

// BumpVersion advances the structural version counter; called on
// every successful save.
func BumpVersion(wf *domain.Workflow) {
	wf.Version++
}

// MarkPublished advances publishedVersion to the current saved
// version and returns it.
func MarkPublished(wf *domain.Workflow) int64 {
	v := wf.Version
	wf.PublishedVersion = &v
	return v
}

// CanRun checks the structural preconditions for triggering an
// execution. The dirty-save requirement is enforced by the editor
// shell, which owns the save boundary.
func CanRun(wf *domain.Workflow) error {
	if wf == nil {
		return domain.ErrNotLoaded
	}
	if len(wf.Nodes) == 0 {
		return domain.ErrEmptyWorkflow
	}
	return nil
}
