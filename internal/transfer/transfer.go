// Package transfer implements the workflow import/export file format:
// a JSON document whose canvas carries the node and edge arrays.
// Import validates the whole document before anything is applied and
// assigns fresh ids throughout, remapping edge endpoints through an
// id-translation table.
package transfer

import (
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/xjson"
)

// Document is the on-disk workflow format.
type Document struct {
	Name        string                   `json:"name,omitempty"`
	Description string                   `json:"description,omitempty"`
	Tags        []string                 `json:"tags,omitempty"`
	Canvas      Canvas                   `json:"canvas"`
	Settings    *domain.WorkflowSettings `json:"settings,omitempty"`
}

type Canvas struct {
	Nodes []domain.Node `json:"nodes"`
	Edges []domain.Edge `json:"edges"`
}

// Result is a validated, id-remapped import ready to be applied
// atomically by the editor.
type Result struct {
	Name        string
	Description string
	Tags        []string
	Nodes       []domain.Node
	Edges       []domain.Edge
	Settings    *domain.WorkflowSettings
}

const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["canvas"],
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "canvas": {
      "type": "object",
      "required": ["nodes"],
      "properties": {
        "nodes": {"type": "array"},
        "edges": {"type": "array"}
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("workflow.json", documentSchema)

// Import parses and validates an export document. It is pure: on any
// failure it returns an ImportError and nothing else happens, so the
// caller's live graph is never partially mutated.
func Import(data []byte) (*Result, error) {
	var raw interface{}
	if err := xjson.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ImportError{Reason: "document is not valid JSON", Err: err}
	}

	if err := compiledSchema.Validate(raw); err != nil {
		return nil, &domain.ImportError{Reason: describeSchemaFailure(raw), Err: err}
	}

	var doc Document
	if err := xjson.Unmarshal(data, &doc); err != nil {
		return nil, &domain.ImportError{Reason: "canvas content has unexpected shape", Err: err}
	}

	translate := make(map[string]string, len(doc.Canvas.Nodes))
	nodes := make([]domain.Node, 0, len(doc.Canvas.Nodes))
	for _, n := range doc.Canvas.Nodes {
		fresh := uuid.NewString()
		if n.ID != "" {
			translate[n.ID] = fresh
		}
		n.ID = fresh
		nodes = append(nodes, n.Clone())
	}

	edges := make([]domain.Edge, 0, len(doc.Canvas.Edges))
	for _, e := range doc.Canvas.Edges {
		src, okSrc := translate[e.Source]
		dst, okDst := translate[e.Target]
		if !okSrc || !okDst {
			// Edge points outside the document; drop it rather than
			// import a dangling reference.
			continue
		}
		e.ID = uuid.NewString()
		e.Source = src
		e.Target = dst
		if e.SourceHandle == "" {
			e.SourceHandle = domain.HandleOutput
		}
		if e.TargetHandle == "" {
			e.TargetHandle = domain.HandleInput
		}
		edges = append(edges, e.Clone())
	}

	return &Result{
		Name:        doc.Name,
		Description: doc.Description,
		Tags:        doc.Tags,
		Nodes:       nodes,
		Edges:       edges,
		Settings:    doc.Settings,
	}, nil
}

// Export renders a workflow as an import-compatible document.
func Export(wf *domain.Workflow) ([]byte, error) {
	settings := wf.Settings
	doc := Document{
		Name:        wf.Name,
		Description: wf.Description,
		Tags:        wf.Tags,
		Canvas: Canvas{
			Nodes: wf.Nodes,
			Edges: wf.Edges,
		},
		Settings: &settings,
	}
	if doc.Canvas.Nodes == nil {
		doc.Canvas.Nodes = []domain.Node{}
	}
	if doc.Canvas.Edges == nil {
		doc.Canvas.Edges = []domain.Edge{}
	}
	return xjson.MarshalIndent(doc, "", "  ")
}

// describeSchemaFailure turns the common failure modes into the
// messages users actually see.
func describeSchemaFailure(raw interface{}) string {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return "document must be a JSON object"
	}
	canvas, ok := obj["canvas"]
	if !ok {
		return "document has no canvas"
	}
	canvasObj, ok := canvas.(map[string]interface{})
	if !ok {
		return "canvas must be an object"
	}
	nodes, ok := canvasObj["nodes"]
	if !ok {
		return "canvas.nodes is missing"
	}
	if _, ok := nodes.([]interface{}); !ok {
		return "canvas.nodes must be an array"
	}
	return "document failed validation"
}
