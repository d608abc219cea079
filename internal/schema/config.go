package schema

import "github.com/loomhq/loom/internal/domain"

// FieldKind is the expected value kind of one configuration key. The
// store treats configuration as opaque; only the config UI and this
// table care about shapes.
type FieldKind string

const (
	FieldString   FieldKind = "string"
	FieldNumber   FieldKind = "number"
	FieldBoolean  FieldKind = "boolean"
	FieldSelect   FieldKind = "select"
	FieldCode     FieldKind = "code"
	FieldJSON     FieldKind = "json"
	FieldDuration FieldKind = "duration"
)

type ConfigField struct {
	Name     string
	Kind     FieldKind
	Required bool
	Options  []string
}

var nodeConfigs = map[domain.NodeType][]ConfigField{
	domain.NodeTypeWebhookTrigger: {
		{Name: "path", Kind: FieldString, Required: true},
		{Name: "method", Kind: FieldSelect, Options: []string{"GET", "POST", "PUT", "DELETE"}},
	},
	domain.NodeTypeScheduleTrigger: {
		{Name: "cron", Kind: FieldString, Required: true},
		{Name: "timezone", Kind: FieldString},
	},
	domain.NodeTypeFormTrigger: {
		{Name: "fields", Kind: FieldJSON, Required: true},
		{Name: "submitLabel", Kind: FieldString},
	},
	domain.NodeTypeConditional: {
		{Name: "conditions", Kind: FieldJSON, Required: true},
	},
	domain.NodeTypeSwitch: {
		{Name: "field", Kind: FieldString, Required: true},
		{Name: "cases", Kind: FieldJSON, Required: true},
	},
	domain.NodeTypeLoop: {
		{Name: "items", Kind: FieldString, Required: true},
		{Name: "maxIterations", Kind: FieldNumber},
	},
	domain.NodeTypeDelay: {
		{Name: "duration", Kind: FieldDuration, Required: true},
	},
	domain.NodeTypeCode: {
		{Name: "language", Kind: FieldSelect, Options: []string{"javascript", "python"}},
		{Name: "source", Kind: FieldCode, Required: true},
	},
	domain.NodeTypeHTTPRequest: {
		{Name: "url", Kind: FieldString, Required: true},
		{Name: "method", Kind: FieldSelect, Options: []string{"GET", "POST", "PUT", "PATCH", "DELETE"}},
		{Name: "headers", Kind: FieldJSON},
		{Name: "body", Kind: FieldJSON},
	},
	domain.NodeTypeSlackMessage: {
		{Name: "channel", Kind: FieldString, Required: true},
		{Name: "message", Kind: FieldString, Required: true},
	},
	domain.NodeTypeEmailSend: {
		{Name: "to", Kind: FieldString, Required: true},
		{Name: "subject", Kind: FieldString, Required: true},
		{Name: "body", Kind: FieldString},
	},
	domain.NodeTypeMongoQuery: {
		{Name: "collection", Kind: FieldString, Required: true},
		{Name: "filter", Kind: FieldJSON},
		{Name: "limit", Kind: FieldNumber},
	},
	domain.NodeTypeMongoInsert: {
		{Name: "collection", Kind: FieldString, Required: true},
		{Name: "documents", Kind: FieldJSON, Required: true},
	},
	domain.NodeTypePostgresQuery: {
		{Name: "query", Kind: FieldCode, Required: true},
		{Name: "params", Kind: FieldJSON},
	},
	domain.NodeTypeTransform: {
		{Name: "expression", Kind: FieldCode, Required: true},
	},
	domain.NodeTypeAIAgent: {
		{Name: "model", Kind: FieldSelect, Required: true},
		{Name: "instructions", Kind: FieldString},
		{Name: "tools", Kind: FieldJSON},
	},
	domain.NodeTypeLLMPrompt: {
		{Name: "model", Kind: FieldSelect, Required: true},
		{Name: "prompt", Kind: FieldString, Required: true},
		{Name: "temperature", Kind: FieldNumber},
	},
	domain.NodeTypeStickyNote: {
		{Name: "text", Kind: FieldString},
		{Name: "color", Kind: FieldString},
	},
}

// ConfigSchemaFor returns the declared configuration fields of a node
// type. Unknown types have no declared schema and return nil; their
// configuration is accepted as-is.
func ConfigSchemaFor(t domain.NodeType) []ConfigField {
	return nodeConfigs[t]
}
