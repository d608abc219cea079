package ports

import "context"

// Executor triggers a run of a saved workflow on the external
// execution runtime. Fire-and-forget: progress is observed elsewhere.
type Executor interface {
	Execute(ctx context.Context, orgID, workflowID string) (executionID string, err error)
}
