package schema

import (
	"strings"

	"github.com/loomhq/loom/internal/domain"
)

// Branching nodes expose several named output handles; everything
// else gets the single input/output pair. Switch case handles are
// config-driven ("case-0", "case-1", ...) so they are validated by
// prefix rather than enumerated.

const (
	HandleTrue    = "true"
	HandleFalse   = "false"
	HandleDefault = "default"
	HandleLoop    = "loop"
	HandleDone    = "done"
	casePrefix    = "case-"
)

// InputHandlesFor lists the input slots of a node type. Triggers and
// annotations accept no incoming connections.
func InputHandlesFor(t domain.NodeType) []string {
	switch t.Kind() {
	case domain.KindTrigger, domain.KindAnnotation:
		return nil
	}
	if t == domain.NodeTypeMerge {
		return []string{"input-1", "input-2", "input-3"}
	}
	return []string{domain.HandleInput}
}

// OutputHandlesFor lists the statically known output slots of a node
// type. Annotations produce nothing and connect to nothing.
func OutputHandlesFor(t domain.NodeType) []string {
	switch t {
	case domain.NodeTypeConditional:
		return []string{HandleTrue, HandleFalse}
	case domain.NodeTypeSwitch:
		return []string{HandleDefault}
	case domain.NodeTypeLoop:
		return []string{HandleLoop, HandleDone}
	case domain.NodeTypeStickyNote:
		return nil
	}
	return []string{domain.HandleOutput}
}

func HasInputHandle(t domain.NodeType, handle string) bool {
	for _, h := range InputHandlesFor(t) {
		if h == handle {
			return true
		}
	}
	return false
}

func HasOutputHandle(t domain.NodeType, handle string) bool {
	if t == domain.NodeTypeSwitch && strings.HasPrefix(handle, casePrefix) {
		return true
	}
	for _, h := range OutputHandlesFor(t) {
		if h == handle {
			return true
		}
	}
	return false
}

// AllowsSelfLoop reports whether an edge may connect a node to
// itself. Only iterating nodes support that.
func AllowsSelfLoop(t domain.NodeType) bool {
	return t == domain.NodeTypeLoop
}
