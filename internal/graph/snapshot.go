package graph

import "github.com/loomhq/loom/internal/domain"

// Snapshot is a deep copy of the graph at one point in time, used as
// the unit of the undo/redo stacks.
type Snapshot struct {
	Nodes []domain.Node
	Edges []domain.Edge
}

// Snapshot captures the current graph.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Nodes: make([]domain.Node, len(s.nodes)),
		Edges: make([]domain.Edge, len(s.edges)),
	}
	for i := range s.nodes {
		snap.Nodes[i] = s.nodes[i].Clone()
	}
	for i := range s.edges {
		snap.Edges[i] = s.edges[i].Clone()
	}
	return snap
}

// Restore replaces the graph with a snapshot. It deliberately skips
// the mutation hooks: history restores must not record themselves.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(snap)
}

// Replace swaps the whole graph as a single undoable mutation, used
// by import so one undo brings the previous canvas back.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyBefore(ChangeReplace)
	s.applyLocked(snap)
	s.notifyAfter(ChangeReplace)
}

func (s *Store) applyLocked(snap Snapshot) {
	s.nodes = make([]domain.Node, len(snap.Nodes))
	for i := range snap.Nodes {
		s.nodes[i] = snap.Nodes[i].Clone()
	}
	s.edges = make([]domain.Edge, len(snap.Edges))
	for i := range snap.Edges {
		s.edges[i] = snap.Edges[i].Clone()
	}
}
