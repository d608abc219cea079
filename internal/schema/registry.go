// Package schema encodes the per-node-type knowledge of the editor:
// which typed variables a node produces at runtime, which connection
// handles it exposes, and the shape of its configuration map.
//
// The output table documents the external execution runtime's
// contract. Nothing here verifies the runtime actually produces these
// shapes; the table must be updated whenever the runtime changes.
package schema

import (
	"fmt"

	"github.com/loomhq/loom/internal/domain"
)

type outputSpec struct {
	Name        string
	Type        domain.VariableType
	Description string
}

var nodeOutputs = map[domain.NodeType][]outputSpec{
	domain.NodeTypeManualTrigger: {
		{"triggeredBy", domain.VarString, "User who started the run"},
		{"triggeredAt", domain.VarDate, "Time the run was started"},
	},
	domain.NodeTypeWebhookTrigger: {
		{"body", domain.VarObject, "Parsed request body"},
		{"headers", domain.VarObject, "Request headers"},
		{"query", domain.VarObject, "Query string parameters"},
		{"method", domain.VarString, "HTTP method of the request"},
	},
	domain.NodeTypeScheduleTrigger: {
		{"scheduledAt", domain.VarDate, "Tick this run was scheduled for"},
		{"firedAt", domain.VarDate, "Actual fire time"},
	},
	domain.NodeTypeFormTrigger: {
		{"data", domain.VarObject, "Submitted form fields"},
		{"submittedAt", domain.VarDate, "Submission time"},
	},
	domain.NodeTypeConditional: {
		{"result", domain.VarBoolean, "Evaluated branch outcome"},
	},
	domain.NodeTypeSwitch: {
		{"matchedCase", domain.VarString, "Handle of the case that matched"},
		{"value", domain.VarAny, "Evaluated switch value"},
	},
	domain.NodeTypeLoop: {
		{"item", domain.VarAny, "Current iteration item"},
		{"index", domain.VarNumber, "Zero-based iteration index"},
		{"isLast", domain.VarBoolean, "Whether this is the final iteration"},
	},
	domain.NodeTypeDelay: {
		{"resumedAt", domain.VarDate, "Time execution resumed"},
	},
	domain.NodeTypeMerge: {
		{"merged", domain.VarObject, "Combined upstream payloads"},
	},
	domain.NodeTypeCode: {
		{"result", domain.VarAny, "Return value of the user script"},
		{"logs", domain.VarArray, "Console output captured during the run"},
	},
	domain.NodeTypeHTTPRequest: {
		{"status", domain.VarNumber, "Response status code"},
		{"body", domain.VarAny, "Response body, parsed when JSON"},
		{"headers", domain.VarObject, "Response headers"},
	},
	domain.NodeTypeSlackMessage: {
		{"messageId", domain.VarString, "Timestamp id of the posted message"},
		{"channel", domain.VarString, "Channel the message was posted to"},
	},
	domain.NodeTypeEmailSend: {
		{"messageId", domain.VarString, "Provider message id"},
		{"accepted", domain.VarArray, "Recipients the provider accepted"},
	},
	domain.NodeTypeMongoQuery: {
		{"documents", domain.VarArray, "Matched documents"},
		{"count", domain.VarNumber, "Number of matched documents"},
	},
	domain.NodeTypeMongoInsert: {
		{"insertedIds", domain.VarArray, "Ids assigned to inserted documents"},
		{"insertedCount", domain.VarNumber, "Number of inserted documents"},
	},
	domain.NodeTypePostgresQuery: {
		{"rows", domain.VarArray, "Result rows"},
		{"rowCount", domain.VarNumber, "Number of result rows"},
	},
	domain.NodeTypeTransform: {
		{"output", domain.VarAny, "Transformed payload"},
	},
	domain.NodeTypeAIAgent: {
		{"response", domain.VarString, "Final agent response"},
		{"toolCalls", domain.VarArray, "Tool invocations made by the agent"},
		{"tokensUsed", domain.VarNumber, "Total tokens consumed"},
	},
	domain.NodeTypeLLMPrompt: {
		{"text", domain.VarString, "Model completion text"},
		{"tokensUsed", domain.VarNumber, "Total tokens consumed"},
	},
	// Sticky notes are annotations; they expose no handles, so their
	// fallback entry is unreachable from any catalog in practice.
}

// OutputsFor returns the variable entries a node of the given type is
// expected to produce, with paths prefixed by the node's own id.
// Total over all inputs: unknown or custom types get a single generic
// entry instead of failing.
func OutputsFor(node domain.Node) []domain.VariableEntry {
	specs, ok := nodeOutputs[node.Type]
	if !ok || len(specs) == 0 {
		return []domain.VariableEntry{{
			Path:         fmt.Sprintf("nodes.%s.output", node.ID),
			Name:         "output",
			Type:         domain.VarAny,
			Description:  "Untyped node output",
			Source:       node.DisplayName(),
			SourceNodeID: node.ID,
		}}
	}

	entries := make([]domain.VariableEntry, 0, len(specs))
	for _, s := range specs {
		entries = append(entries, domain.VariableEntry{
			Path:         fmt.Sprintf("nodes.%s.%s", node.ID, s.Name),
			Name:         s.Name,
			Type:         s.Type,
			Description:  s.Description,
			Source:       node.DisplayName(),
			SourceNodeID: node.ID,
		})
	}
	return entries
}
