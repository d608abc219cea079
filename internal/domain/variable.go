package domain

type VariableType string

const (
	VarString  VariableType = "string"
	VarNumber  VariableType = "number"
	VarBoolean VariableType = "boolean"
	VarDate    VariableType = "date"
	VarArray   VariableType = "array"
	VarObject  VariableType = "object"
	VarAny     VariableType = "any"
)

// VariableEntry describes one data path a node may reference. It is
// documentation of the runtime contract, not a verified value: the
// registry promises the external runtime will produce it, nothing in
// the editor checks that it does.
type VariableEntry struct {
	Path         string       `json:"path"`
	Name         string       `json:"name"`
	Type         VariableType `json:"type"`
	Description  string       `json:"description,omitempty"`
	Source       string       `json:"source"`
	SourceNodeID string       `json:"source_node_id"`
}
