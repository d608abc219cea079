// Package ports declares the external boundaries of the editor core.
// Everything behind these interfaces belongs to the surrounding
// product; the core only awaits their outcomes.
package ports

import (
	"context"

	"github.com/loomhq/loom/internal/domain"
)

// Persistence stores workflows for an organization. Implementations
// must be idempotent on retry: saving the same workflow twice or
// publishing an already-published version is not an error.
type Persistence interface {
	// Save upserts the workflow. The caller has already bumped the
	// version counter.
	Save(ctx context.Context, orgID string, wf *domain.Workflow) error

	// Load fetches a workflow, or domain.ErrNotFound.
	Load(ctx context.Context, orgID, workflowID string) (*domain.Workflow, error)

	// SetStatus persists a status change the lifecycle machine has
	// already validated.
	SetStatus(ctx context.Context, orgID, workflowID string, status domain.WorkflowStatus) error

	// Publish advances the stored publishedVersion to the saved
	// version and returns it.
	Publish(ctx context.Context, orgID, workflowID string) (int64, error)

	Close() error
}
