package domain

import "fmt"

const (
	HandleInput  = "input"
	HandleOutput = "output"
)

// EdgeCondition gates traversal of an edge at execution time. The
// expression is evaluated by the external runtime; the label is what
// the canvas renders on the edge.
type EdgeCondition struct {
	Expression string `json:"expression"`
	Label      string `json:"label,omitempty"`
}

type Edge struct {
	ID           string                 `json:"id"`
	Source       string                 `json:"source"`
	SourceHandle string                 `json:"source_handle"`
	Target       string                 `json:"target"`
	TargetHandle string                 `json:"target_handle"`
	Condition    *EdgeCondition         `json:"condition,omitempty"`
	Style        map[string]interface{} `json:"style,omitempty"`
}

// Key identifies the connection tuple used for duplicate detection.
func (e *Edge) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s", e.Source, e.SourceHandle, e.Target, e.TargetHandle)
}

func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

func (e *Edge) Clone() Edge {
	out := *e
	if e.Condition != nil {
		c := *e.Condition
		out.Condition = &c
	}
	if e.Style != nil {
		out.Style = cloneMap(e.Style)
	}
	return out
}
