// Package history wraps graph mutations in an undo/redo stack and
// tracks whether the workflow has unsaved changes.
package history

import (
	"log/slog"
	"sync"

	"github.com/loomhq/loom/internal/graph"
)

// DefaultLimit bounds the undo stack; the oldest entry is dropped
// when it overflows. Snapshots are full graph copies, fine for
// editor-sized graphs.
const DefaultLimit = 100

// Tracker subscribes to Graph Store mutations. Every mutation pushes
// one undo entry, except position updates inside a drag gesture,
// which coalesce into the single entry recorded at the first move.
// Clearing the canvas is likewise one entry.
type Tracker struct {
	mu    sync.Mutex
	store *graph.Store

	undo  []graph.Snapshot
	redo  []graph.Snapshot
	limit int

	dirty        bool
	dragging     bool
	dragRecorded bool

	logger *slog.Logger
}

// New attaches a tracker to the store's mutation hooks.
func New(store *graph.Store, logger *slog.Logger) *Tracker {
	t := &Tracker{
		store:  store,
		limit:  DefaultLimit,
		logger: logger.With("component", "edit-history"),
	}
	store.SetHooks(graph.Hooks{
		Before: t.beforeChange,
		After:  t.afterChange,
	})
	return t
}

func (t *Tracker) beforeChange(kind graph.ChangeKind, prior graph.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if kind == graph.ChangeMoveNode && t.dragging {
		if t.dragRecorded {
			return
		}
		t.dragRecorded = true
	}

	t.undo = append(t.undo, prior)
	if len(t.undo) > t.limit {
		t.undo = t.undo[1:]
	}
	t.redo = nil
}

func (t *Tracker) afterChange(graph.ChangeKind) {
	t.mu.Lock()
	t.dirty = true
	t.mu.Unlock()
}

// BeginDrag marks the start of a drag gesture so intermediate
// position frames do not each pollute history.
func (t *Tracker) BeginDrag() {
	t.mu.Lock()
	t.dragging = true
	t.dragRecorded = false
	t.mu.Unlock()
}

// EndDrag closes the gesture; the next move starts a new entry.
func (t *Tracker) EndDrag() {
	t.mu.Lock()
	t.dragging = false
	t.dragRecorded = false
	t.mu.Unlock()
}

// Undo restores the previous snapshot, moving the current state onto
// the redo stack. No-op when there is nothing to undo.
func (t *Tracker) Undo() {
	// Snapshot outside t.mu so the lock order stays store -> tracker,
	// matching the hook path.
	current := t.store.Snapshot()

	t.mu.Lock()
	if len(t.undo) == 0 {
		t.mu.Unlock()
		return
	}
	prior := t.undo[len(t.undo)-1]
	t.undo = t.undo[:len(t.undo)-1]
	t.redo = append(t.redo, current)
	t.dirty = true
	t.mu.Unlock()

	t.store.Restore(prior)
}

// Redo is the inverse of Undo. No-op when the redo stack is empty.
func (t *Tracker) Redo() {
	current := t.store.Snapshot()

	t.mu.Lock()
	if len(t.redo) == 0 {
		t.mu.Unlock()
		return
	}
	next := t.redo[len(t.redo)-1]
	t.redo = t.redo[:len(t.redo)-1]
	t.undo = append(t.undo, current)
	t.dirty = true
	t.mu.Unlock()

	t.store.Restore(next)
}

func (t *Tracker) CanUndo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.undo) > 0
}

func (t *Tracker) CanRedo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.redo) > 0
}

// Dirty reports whether any mutation happened since the last save
// acknowledgment.
func (t *Tracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

// MarkSaved resets the dirty flag. Only a successful save
// acknowledgment should call this.
func (t *Tracker) MarkSaved() {
	t.mu.Lock()
	t.dirty = false
	t.mu.Unlock()
}

// Reset drops both stacks and the dirty flag, for a freshly loaded
// workflow.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.undo = nil
	t.redo = nil
	t.dirty = false
	t.dragging = false
	t.dragRecorded = false
	t.mu.Unlock()
}
