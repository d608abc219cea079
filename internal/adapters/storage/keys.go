package storage

import "fmt"

const workflowPrefix = "workflow:"

// workflowKey builds the canonical storage key for a workflow.
func workflowKey(orgID, workflowID string) string {
	return fmt.Sprintf("%s%s:%s", workflowPrefix, orgID, workflowID)
}
