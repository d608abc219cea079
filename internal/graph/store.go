// Package graph owns the canonical node/edge lists of the workflow
// being edited and their structural invariants.
package graph

import (
	"log/slog"
	"sync"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/schema"
)

// ChangeKind tags a mutation for the history/dirty subscribers.
type ChangeKind int

const (
	ChangeAddNode ChangeKind = iota
	ChangeUpdateNode
	ChangeRemoveNode
	ChangeMoveNode
	ChangeAddEdge
	ChangeRemoveEdge
	ChangeClear
	ChangeReplace
)

// Hooks receive mutation notifications. Before fires after validation
// but before the mutation applies and carries the prior state, so the
// history tracker can record it; After fires once the mutation has
// been applied. Hooks never fire for rejected or no-op mutations.
// They run with the store lock held and must not call back into the
// store.
type Hooks struct {
	Before func(kind ChangeKind, prior Snapshot)
	After  func(kind ChangeKind)
}

// Store holds the graph being edited. Mutations are synchronous and
// total: stale ids are no-ops because the canvas can race with them
// during animation. Only AddEdge can reject, and it reports the
// reason as an error rather than panicking.
type Store struct {
	mu     sync.RWMutex
	nodes  []domain.Node
	edges  []domain.Edge
	hooks  Hooks
	logger *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{logger: logger.With("component", "graph-store")}
}

// SetHooks installs the mutation subscribers. Intended to be called
// once during editor wiring, before any mutation.
func (s *Store) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

func (s *Store) notifyBefore(kind ChangeKind) {
	if s.hooks.Before != nil {
		s.hooks.Before(kind, s.snapshotLocked())
	}
}

func (s *Store) notifyAfter(kind ChangeKind) {
	if s.hooks.After != nil {
		s.hooks.After(kind)
	}
}

// Nodes returns a copy of the node list in insertion order.
func (s *Store) Nodes() []domain.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Node, len(s.nodes))
	for i := range s.nodes {
		out[i] = s.nodes[i].Clone()
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (s *Store) Edges() []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Edge, len(s.edges))
	for i := range s.edges {
		out[i] = s.edges[i].Clone()
	}
	return out
}

func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Node returns the node with the given id, if present.
func (s *Store) Node(id string) (domain.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.nodeIndex(id); i >= 0 {
		return s.nodes[i].Clone(), true
	}
	return domain.Node{}, false
}

func (s *Store) nodeIndex(id string) int {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// AddNode appends a node. Adding an id that already exists is a
// no-op.
func (s *Store) AddNode(node domain.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeIndex(node.ID) >= 0 {
		return
	}
	s.notifyBefore(ChangeAddNode)
	s.nodes = append(s.nodes, node.Clone())
	s.notifyAfter(ChangeAddNode)
}

// UpdateNode applies a partial update to a node. Unknown ids are
// no-ops. The configuration patch is deep-merged into the existing
// configuration.
func (s *Store) UpdateNode(id string, patch domain.NodePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.nodeIndex(id)
	if i < 0 || patch.IsZero() {
		return
	}
	s.notifyBefore(ChangeUpdateNode)
	n := &s.nodes[i]
	if patch.Label != nil {
		n.Label = *patch.Label
	}
	if patch.Notes != nil {
		n.Notes = *patch.Notes
	}
	if patch.Disabled != nil {
		n.Disabled = *patch.Disabled
	}
	if patch.Timeout != nil {
		t := *patch.Timeout
		n.Timeout = &t
	}
	if patch.Retry != nil {
		r := *patch.Retry
		n.Retry = &r
	}
	if patch.Config != nil {
		merged, err := domain.MergeConfig(n.Config, patch.Config)
		if err != nil {
			s.logger.Warn("config merge failed, keeping previous config",
				"node_id", id, "error", err)
		} else {
			n.Config = merged
		}
	}
	s.notifyAfter(ChangeUpdateNode)
}

// RemoveNode deletes a node and every edge touching it. Unknown ids
// are no-ops.
func (s *Store) RemoveNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.nodeIndex(id)
	if i < 0 {
		return
	}
	s.notifyBefore(ChangeRemoveNode)
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	kept := s.edges[:0]
	for _, e := range s.edges {
		if !e.Touches(id) {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	s.notifyAfter(ChangeRemoveNode)
}

// MoveNode updates a node's canvas position. Position is
// presentation-only; history coalesces these during a drag gesture.
func (s *Store) MoveNode(id string, pos domain.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.nodeIndex(id)
	if i < 0 {
		return
	}
	s.notifyBefore(ChangeMoveNode)
	s.nodes[i].Position = pos
	s.notifyAfter(ChangeMoveNode)
}

// AddEdge connects two nodes. It rejects dangling endpoints, handles
// the node type does not expose, duplicate connection tuples, and
// self-loops on non-iterating node types.
func (s *Store) AddEdge(edge domain.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.nodeIndex(edge.Source)
	dst := s.nodeIndex(edge.Target)
	if src < 0 || dst < 0 {
		return domain.ErrUnknownNode
	}
	if !schema.HasOutputHandle(s.nodes[src].Type, edge.SourceHandle) ||
		!schema.HasInputHandle(s.nodes[dst].Type, edge.TargetHandle) {
		return domain.ErrUnknownHandle
	}
	if edge.Source == edge.Target && !schema.AllowsSelfLoop(s.nodes[src].Type) {
		return domain.ErrSelfLoop
	}
	key := edge.Key()
	for i := range s.edges {
		if s.edges[i].Key() == key {
			return domain.ErrDuplicateEdge
		}
	}

	s.notifyBefore(ChangeAddEdge)
	s.edges = append(s.edges, edge.Clone())
	s.notifyAfter(ChangeAddEdge)
	return nil
}

// RemoveEdge deletes an edge by id. Unknown ids are no-ops.
func (s *Store) RemoveEdge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.edges {
		if s.edges[i].ID == id {
			s.notifyBefore(ChangeRemoveEdge)
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			s.notifyAfter(ChangeRemoveEdge)
			return
		}
	}
}

// Clear empties the canvas as a single mutation, so undo restores the
// whole graph in one step.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nodes) == 0 && len(s.edges) == 0 {
		return
	}
	s.notifyBefore(ChangeClear)
	s.nodes = nil
	s.edges = nil
	s.notifyAfter(ChangeClear)
}
