package domain

import (
	"time"
)

type NodeType string

const (
	NodeTypeManualTrigger   NodeType = "manual-trigger"
	NodeTypeWebhookTrigger  NodeType = "webhook-trigger"
	NodeTypeScheduleTrigger NodeType = "schedule-trigger"
	NodeTypeFormTrigger     NodeType = "form-trigger"

	NodeTypeConditional NodeType = "conditional"
	NodeTypeSwitch      NodeType = "switch"
	NodeTypeLoop        NodeType = "loop"
	NodeTypeDelay       NodeType = "delay"
	NodeTypeMerge       NodeType = "merge"
	NodeTypeCode        NodeType = "code"

	NodeTypeHTTPRequest  NodeType = "http-request"
	NodeTypeSlackMessage NodeType = "slack-message"
	NodeTypeEmailSend    NodeType = "email-send"

	NodeTypeMongoQuery    NodeType = "mongodb-query"
	NodeTypeMongoInsert   NodeType = "mongodb-insert"
	NodeTypePostgresQuery NodeType = "postgres-query"
	NodeTypeTransform     NodeType = "transform"

	NodeTypeAIAgent   NodeType = "ai-agent"
	NodeTypeLLMPrompt NodeType = "llm-prompt"

	NodeTypeStickyNote NodeType = "sticky-note"
)

type NodeKind string

const (
	KindTrigger     NodeKind = "trigger"
	KindLogic       NodeKind = "logic"
	KindIntegration NodeKind = "integration"
	KindData        NodeKind = "data"
	KindAI          NodeKind = "ai"
	KindAnnotation  NodeKind = "annotation"
)

var nodeKinds = map[NodeType]NodeKind{
	NodeTypeManualTrigger:   KindTrigger,
	NodeTypeWebhookTrigger:  KindTrigger,
	NodeTypeScheduleTrigger: KindTrigger,
	NodeTypeFormTrigger:     KindTrigger,
	NodeTypeConditional:     KindLogic,
	NodeTypeSwitch:          KindLogic,
	NodeTypeLoop:            KindLogic,
	NodeTypeDelay:           KindLogic,
	NodeTypeMerge:           KindLogic,
	NodeTypeCode:            KindLogic,
	NodeTypeHTTPRequest:     KindIntegration,
	NodeTypeSlackMessage:    KindIntegration,
	NodeTypeEmailSend:       KindIntegration,
	NodeTypeMongoQuery:      KindData,
	NodeTypeMongoInsert:     KindData,
	NodeTypePostgresQuery:   KindData,
	NodeTypeTransform:       KindData,
	NodeTypeAIAgent:         KindAI,
	NodeTypeLLMPrompt:       KindAI,
	NodeTypeStickyNote:      KindAnnotation,
}

// Kind classifies a node type into one of the palette categories.
// Unknown types are treated as integrations so custom nodes behave
// like ordinary single-input single-output steps.
func (t NodeType) Kind() NodeKind {
	if k, ok := nodeKinds[t]; ok {
		return k
	}
	return KindIntegration
}

func (t NodeType) IsTrigger() bool    { return t.Kind() == KindTrigger }
func (t NodeType) IsAnnotation() bool { return t.Kind() == KindAnnotation }

// KnownNodeTypes returns the closed node-type set in a stable order.
func KnownNodeTypes() []NodeType {
	return []NodeType{
		NodeTypeManualTrigger, NodeTypeWebhookTrigger, NodeTypeScheduleTrigger, NodeTypeFormTrigger,
		NodeTypeConditional, NodeTypeSwitch, NodeTypeLoop, NodeTypeDelay, NodeTypeMerge, NodeTypeCode,
		NodeTypeHTTPRequest, NodeTypeSlackMessage, NodeTypeEmailSend,
		NodeTypeMongoQuery, NodeTypeMongoInsert, NodeTypePostgresQuery, NodeTypeTransform,
		NodeTypeAIAgent, NodeTypeLLMPrompt,
		NodeTypeStickyNote,
	}
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RetryPolicy struct {
	MaxRetries        int           `json:"max_retries"`
	InitialDelay      time.Duration `json:"initial_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
}

type Node struct {
	ID       string                 `json:"id"`
	Type     NodeType               `json:"type"`
	Label    string                 `json:"label,omitempty"`
	Notes    string                 `json:"notes,omitempty"`
	Position Position               `json:"position"`
	Config   map[string]interface{} `json:"config,omitempty"`
	// Disabled nodes are skipped at execution time but stay in the
	// graph. Inverted so the zero value is an enabled node.
	Disabled bool           `json:"disabled,omitempty"`
	Timeout  *time.Duration `json:"timeout,omitempty"`
	Retry    *RetryPolicy   `json:"retry,omitempty"`
}

// DisplayName is the label shown for the node in variable catalogs and
// logs; it falls back to the type tag when the user never renamed it.
func (n *Node) DisplayName() string {
	if n.Label != "" {
		return n.Label
	}
	return string(n.Type)
}

func (n *Node) Clone() Node {
	out := *n
	if n.Config != nil {
		out.Config = cloneMap(n.Config)
	}
	if n.Timeout != nil {
		t := *n.Timeout
		out.Timeout = &t
	}
	if n.Retry != nil {
		r := *n.Retry
		out.Retry = &r
	}
	return out
}

// NodePatch carries a partial node update. Nil fields are left
// untouched; Config is deep-merged into the existing configuration.
type NodePatch struct {
	Label    *string
	Notes    *string
	Disabled *bool
	Timeout  *time.Duration
	Retry    *RetryPolicy
	Config   map[string]interface{}
}

// IsZero reports whether the patch carries no change at all.
func (p NodePatch) IsZero() bool {
	return p.Label == nil && p.Notes == nil && p.Disabled == nil &&
		p.Timeout == nil && p.Retry == nil && p.Config == nil
}
