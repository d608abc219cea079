// Package catalog assembles the set of typed variables a node can
// reference: workflow/execution ambient entries first, then the
// declared outputs of every transitive upstream node.
package catalog

import (
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/graph"
	"github.com/loomhq/loom/internal/schema"
)

const ambientSource = "Workflow"

func ambientEntries() []domain.VariableEntry {
	return []domain.VariableEntry{
		{Path: "workflow.id", Name: "id", Type: domain.VarString, Description: "Workflow id", Source: ambientSource},
		{Path: "workflow.name", Name: "name", Type: domain.VarString, Description: "Workflow name", Source: ambientSource},
		{Path: "execution.id", Name: "id", Type: domain.VarString, Description: "Current execution id", Source: ambientSource},
		{Path: "execution.startedAt", Name: "startedAt", Type: domain.VarDate, Description: "Execution start time", Source: ambientSource},
		{Path: "trigger.type", Name: "type", Type: domain.VarString, Description: "Node type that triggered the run", Source: ambientSource},
		{Path: "trigger.payload", Name: "payload", Type: domain.VarObject, Description: "Raw trigger payload", Source: ambientSource},
	}
}

// For returns every variable entry visible to nodeID, ambient entries
// first, then ancestor outputs in upstream traversal order. A node
// with no incoming edges still gets the ambient entries. Disabled
// ancestors are traversed for connectivity but contribute no outputs,
// since the runtime skips them. Two calls on an unchanged graph yield
// value-equal catalogs.
func For(nodeID string, nodes []domain.Node, edges []domain.Edge) []domain.VariableEntry {
	entries := ambientEntries()

	for _, ancestor := range graph.Upstream(nodeID, nodes, edges) {
		if ancestor.Disabled || ancestor.Type.IsAnnotation() {
			continue
		}
		entries = append(entries, schema.OutputsFor(ancestor)...)
	}
	return entries
}

// Grouped buckets a catalog by its source label, preserving entry
// order within each bucket. Callers that need ordered sections should
// iterate the original slice and use the buckets for lookup.
func Grouped(entries []domain.VariableEntry) map[string][]domain.VariableEntry {
	out := make(map[string][]domain.VariableEntry)
	for _, e := range entries {
		out[e.Source] = append(out[e.Source], e)
	}
	return out
}
