// Package loom is the workflow graph model and data-flow resolution
// engine behind the visual workflow builder. It maintains the
// node/edge graph and its structural invariants, resolves the typed
// variables a node can reference from its upstream neighbors,
// compiles visual condition groups into evaluable boolean
// expressions, and manages editing semantics: dirty tracking,
// undo/redo, and the workflow lifecycle.
//
// Canvas rendering, drag-and-drop mechanics, and the node execution
// runtime live outside this module; execution is reached through the
// Executor boundary and persistence through the Persistence boundary.
//
// Basic usage:
//
//	store, _ := loom.OpenBadgerStore("./data", logger)
//	editor := loom.NewEditor(loom.Config{
//	    Persistence: store,
//	    Executor:    runtimeClient,
//	    Logger:      logger,
//	})
//	editor.NewWorkflow("org-1", "Lead intake")
//	editor.Store().AddNode(loom.Node{ID: "t1", Type: loom.NodeTypeFormTrigger})
//	_ = editor.Save(ctx)
package loom

import (
	"log/slog"

	"github.com/loomhq/loom/internal/adapters/storage"
	"github.com/loomhq/loom/internal/catalog"
	"github.com/loomhq/loom/internal/condition"
	"github.com/loomhq/loom/internal/core"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/graph"
	"github.com/loomhq/loom/internal/history"
	"github.com/loomhq/loom/internal/lifecycle"
	"github.com/loomhq/loom/internal/ports"
	"github.com/loomhq/loom/internal/schema"
	"github.com/loomhq/loom/internal/transfer"
)

// Editor is the editing session around one loaded workflow.
type Editor = core.Editor

// Config wires the editor to its external boundaries.
type Config = core.Config

// Events are the editor's UI-facing callbacks.
type Events = core.Events

// Graph model types.
type (
	Node           = domain.Node
	NodePatch      = domain.NodePatch
	NodeType       = domain.NodeType
	NodeKind       = domain.NodeKind
	Edge           = domain.Edge
	EdgeCondition  = domain.EdgeCondition
	Position       = domain.Position
	RetryPolicy    = domain.RetryPolicy
	Workflow       = domain.Workflow
	WorkflowStatus = domain.WorkflowStatus
	VariableEntry  = domain.VariableEntry
	ConditionGroup = domain.ConditionGroup
	Condition      = domain.Condition
)

// Store and history surfaces.
type (
	Store    = graph.Store
	Snapshot = graph.Snapshot
	Tracker  = history.Tracker
)

// External boundary interfaces and the bundled adapters.
type (
	Persistence = ports.Persistence
	Executor    = ports.Executor
	BadgerStore = storage.BadgerStore
	MemoryStore = storage.MemoryStore
	RedisStore  = storage.RedisStore
	RedisConfig = storage.RedisConfig
)

// Node type tags.
const (
	NodeTypeManualTrigger   = domain.NodeTypeManualTrigger
	NodeTypeWebhookTrigger  = domain.NodeTypeWebhookTrigger
	NodeTypeScheduleTrigger = domain.NodeTypeScheduleTrigger
	NodeTypeFormTrigger     = domain.NodeTypeFormTrigger
	NodeTypeConditional     = domain.NodeTypeConditional
	NodeTypeSwitch          = domain.NodeTypeSwitch
	NodeTypeLoop            = domain.NodeTypeLoop
	NodeTypeDelay           = domain.NodeTypeDelay
	NodeTypeMerge           = domain.NodeTypeMerge
	NodeTypeCode            = domain.NodeTypeCode
	NodeTypeHTTPRequest     = domain.NodeTypeHTTPRequest
	NodeTypeSlackMessage    = domain.NodeTypeSlackMessage
	NodeTypeEmailSend       = domain.NodeTypeEmailSend
	NodeTypeMongoQuery      = domain.NodeTypeMongoQuery
	NodeTypeMongoInsert     = domain.NodeTypeMongoInsert
	NodeTypePostgresQuery   = domain.NodeTypePostgresQuery
	NodeTypeTransform       = domain.NodeTypeTransform
	NodeTypeAIAgent         = domain.NodeTypeAIAgent
	NodeTypeLLMPrompt       = domain.NodeTypeLLMPrompt
	NodeTypeStickyNote      = domain.NodeTypeStickyNote
)

// Workflow statuses.
const (
	StatusDraft    = domain.WorkflowStatusDraft
	StatusActive   = domain.WorkflowStatusActive
	StatusPaused   = domain.WorkflowStatusPaused
	StatusArchived = domain.WorkflowStatusArchived
)

// NewEditor creates an editing session wired to the given boundaries.
func NewEditor(cfg Config) *Editor {
	return core.NewEditor(cfg)
}

// OpenBadgerStore opens the local badger-backed persistence adapter.
func OpenBadgerStore(dir string, logger *slog.Logger) (*BadgerStore, error) {
	return storage.OpenBadgerStore(dir, logger)
}

// NewMemoryStore returns the in-memory persistence adapter.
func NewMemoryStore() *MemoryStore {
	return storage.NewMemoryStore()
}

// NewRedisStore opens the redis-backed persistence adapter.
func NewRedisStore(cfg *RedisConfig, logger *slog.Logger) (*RedisStore, error) {
	return storage.NewRedisStore(cfg, logger)
}

// Upstream returns every transitive ancestor of a node,
// deduplicated, cycle-safe, nearest-first.
func Upstream(nodeID string, nodes []Node, edges []Edge) []Node {
	return graph.Upstream(nodeID, nodes, edges)
}

// OutputsFor returns the variables a node is expected to produce at
// runtime, per the hand-authored node-type contract table.
func OutputsFor(node Node) []VariableEntry {
	return schema.OutputsFor(node)
}

// CatalogFor returns the full variable catalog visible to a node:
// ambient workflow/execution entries plus upstream outputs.
func CatalogFor(nodeID string, nodes []Node, edges []Edge) []VariableEntry {
	return catalog.For(nodeID, nodes, edges)
}

// CompileCondition renders a condition group as a boolean expression
// string; an empty group compiles to "true".
func CompileCondition(group ConditionGroup) string {
	return condition.Compile(group)
}

// DecompileCondition is the reverse direction. It is deliberately
// lossy: the expression is discarded and a fresh empty AND group
// returned, because the visual builder is the source of truth.
func DecompileCondition(expression string) ConditionGroup {
	return condition.Decompile(expression)
}

// EvaluateCondition evaluates a condition group directly against a
// runtime-shaped data context. Total: malformed input degrades to
// false conditions, never an error.
func EvaluateCondition(group ConditionGroup, data map[string]interface{}) bool {
	return condition.EvaluateGroup(group, data)
}

// SwitchCase is one branch of a switch node.
type SwitchCase = condition.Case

// MatchSwitchCase returns the output handle of the first case whose
// value matches, or the default handle.
func MatchSwitchCase(cases []SwitchCase, value interface{}, defaultHandle string) string {
	return condition.MatchCase(cases, value, defaultHandle)
}

// Evaluator evaluates compiled expression strings with cached
// programs, the way the execution runtime does.
type Evaluator = condition.Evaluator

// NewEvaluator returns an expression evaluator with an empty cache.
func NewEvaluator() *Evaluator {
	return condition.NewEvaluator()
}

// InputHandlesFor and OutputHandlesFor list the connection slots a
// node type exposes on the canvas.
func InputHandlesFor(t NodeType) []string  { return schema.InputHandlesFor(t) }
func OutputHandlesFor(t NodeType) []string { return schema.OutputHandlesFor(t) }

// ConfigField describes one declared configuration key of a node type.
type ConfigField = schema.ConfigField

// ConfigSchemaFor returns the declared configuration fields of a node
// type, or nil for unknown types.
func ConfigSchemaFor(t NodeType) []ConfigField {
	return schema.ConfigSchemaFor(t)
}

// CanTransition reports whether a workflow status change is allowed.
func CanTransition(from, to WorkflowStatus) bool {
	return lifecycle.CanTransition(from, to)
}

// Import parses and validates an export document without touching any
// live graph.
func Import(data []byte) (*transfer.Result, error) {
	return transfer.Import(data)
}

// Export renders a workflow as an import-compatible JSON document.
func Export(wf *Workflow) ([]byte, error) {
	return transfer.Export(wf)
}
