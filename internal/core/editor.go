// Package core composes the graph store, edit history, and lifecycle
// machine with the external persistence and execution boundaries.
package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/catalog"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/graph"
	"github.com/loomhq/loom/internal/history"
	"github.com/loomhq/loom/internal/lifecycle"
	"github.com/loomhq/loom/internal/ports"
	"github.com/loomhq/loom/internal/transfer"
)

// Events are optional callbacks the UI shell hooks to react to
// boundary outcomes. All fire synchronously after local state has
// been updated.
type Events struct {
	OnSaved            func(wf *domain.Workflow)
	OnStatusChanged    func(from, to domain.WorkflowStatus)
	OnExecutionStarted func(executionID string)
}

// Editor owns a single loaded workflow and the editing session around
// it. Graph mutations are synchronous; only the boundary calls (save,
// run, publish, status) suspend, and each of those refuses re-entrant
// invocation while a previous call is in flight. A response that
// resolves after a newer Load is discarded via the load token.
type Editor struct {
	mu sync.Mutex

	store   *graph.Store
	history *history.Tracker

	persistence ports.Persistence
	executor    ports.Executor
	events      Events
	logger      *slog.Logger

	orgID     string
	wf        *domain.Workflow
	loadToken string

	saving     bool
	running    bool
	publishing bool
	statusing  bool
}

type Config struct {
	Persistence ports.Persistence
	Executor    ports.Executor
	Events      Events
	Logger      *slog.Logger
}

func NewEditor(cfg Config) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := graph.NewStore(logger)
	return &Editor{
		store:       store,
		history:     history.New(store, logger),
		persistence: cfg.Persistence,
		executor:    cfg.Executor,
		events:      cfg.Events,
		logger:      logger.With("component", "editor"),
	}
}

// Store exposes the graph mutation surface.
func (e *Editor) Store() *graph.Store { return e.store }

// History exposes undo/redo and the dirty flag.
func (e *Editor) History() *history.Tracker { return e.history }

// Workflow returns a copy of the loaded workflow with the live graph
// folded in, or nil when nothing is loaded.
func (e *Editor) Workflow() *domain.Workflow {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wf == nil {
		return nil
	}
	return e.currentLocked()
}

// currentLocked folds the live graph into the loaded workflow record.
func (e *Editor) currentLocked() *domain.Workflow {
	wf := e.wf.Clone()
	wf.Nodes = e.store.Nodes()
	wf.Edges = e.store.Edges()
	return wf
}

// NewWorkflow starts an empty draft in the editor without touching
// persistence.
func (e *Editor) NewWorkflow(orgID, name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orgID = orgID
	e.wf = &domain.Workflow{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    domain.WorkflowStatusDraft,
		Settings:  domain.DefaultSettings(),
		CreatedAt: time.Now().UTC(),
	}
	e.loadToken = uuid.NewString()
	e.store.Restore(graph.Snapshot{})
	e.history.Reset()
}

// Load fetches a workflow and replaces the editing session. Any
// in-flight boundary response keyed to the previous session is
// discarded when it lands.
func (e *Editor) Load(ctx context.Context, orgID, workflowID string) error {
	wf, err := e.persistence.Load(ctx, orgID, workflowID)
	if err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return domain.NewBoundaryError("load workflow", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.orgID = orgID
	e.wf = wf.Clone()
	e.wf.Settings = domain.MergeSettings(e.wf.Settings)
	e.loadToken = uuid.NewString()
	e.store.Restore(graph.Snapshot{Nodes: wf.Nodes, Edges: wf.Edges})
	e.history.Reset()
	return nil
}

// CatalogFor returns the variable catalog visible to a node of the
// current graph.
func (e *Editor) CatalogFor(nodeID string) []domain.VariableEntry {
	return catalog.For(nodeID, e.store.Nodes(), e.store.Edges())
}

// Save persists the current graph. The version counter advances only
// on success, and the dirty flag resets only on the save
// acknowledgment.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.wf == nil {
		e.mu.Unlock()
		return domain.ErrNotLoaded
	}
	if e.saving {
		e.mu.Unlock()
		return domain.ErrActionInFlight
	}
	e.saving = true
	token := e.loadToken
	candidate := e.currentLocked()
	lifecycle.BumpVersion(candidate)
	candidate.UpdatedAt = time.Now().UTC()
	orgID := e.orgID
	e.mu.Unlock()

	err := e.persistence.Save(ctx, orgID, candidate)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	if e.loadToken != token {
		// A newer session took over while the request was in flight;
		// its state wins.
		e.logger.Debug("discarding stale save response", "workflow_id", candidate.ID)
		return nil
	}
	if err != nil {
		return domain.NewBoundaryError("save workflow", err)
	}
	e.wf = candidate
	e.history.MarkSaved()
	if e.events.OnSaved != nil {
		e.events.OnSaved(candidate.Clone())
	}
	return nil
}

// Run triggers an execution. The workflow must have at least one
// node, and a dirty graph is implicitly saved first; running a stale,
// unsaved graph is disallowed.
func (e *Editor) Run(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.wf == nil {
		e.mu.Unlock()
		return "", domain.ErrNotLoaded
	}
	if e.running {
		e.mu.Unlock()
		return "", domain.ErrActionInFlight
	}
	if err := lifecycle.CanRun(e.currentLocked()); err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.running = true
	token := e.loadToken
	orgID, workflowID := e.orgID, e.wf.ID
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if e.history.Dirty() {
		if err := e.Save(ctx); err != nil {
			return "", err
		}
	}

	executionID, err := e.executor.Execute(ctx, orgID, workflowID)

	e.mu.Lock()
	stale := e.loadToken != token
	e.mu.Unlock()
	if stale {
		e.logger.Debug("discarding stale execution response", "workflow_id", workflowID)
		return "", nil
	}
	if err != nil {
		return "", domain.NewBoundaryError("trigger execution", err)
	}
	if e.events.OnExecutionStarted != nil {
		e.events.OnExecutionStarted(executionID)
	}
	return executionID, nil
}

// SetStatus validates the transition locally, persists it, and
// applies it to local state only after the boundary succeeds.
func (e *Editor) SetStatus(ctx context.Context, status domain.WorkflowStatus) error {
	e.mu.Lock()
	if e.wf == nil {
		e.mu.Unlock()
		return domain.ErrNotLoaded
	}
	if e.statusing {
		e.mu.Unlock()
		return domain.ErrActionInFlight
	}
	from := e.wf.Status
	if err := lifecycle.Transition(from, status); err != nil {
		e.mu.Unlock()
		return err
	}
	e.statusing = true
	token := e.loadToken
	orgID, workflowID := e.orgID, e.wf.ID
	e.mu.Unlock()

	err := e.persistence.SetStatus(ctx, orgID, workflowID, status)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusing = false
	if e.loadToken != token {
		return nil
	}
	if err != nil {
		// Local state stays at its last known good value.
		return domain.NewBoundaryError("set status", err)
	}
	e.wf.Status = status
	if e.events.OnStatusChanged != nil {
		e.events.OnStatusChanged(from, status)
	}
	return nil
}

// Publish advances the published version to the saved version. A
// dirty graph is saved first so the published version never points at
// unsaved edits.
func (e *Editor) Publish(ctx context.Context) error {
	e.mu.Lock()
	if e.wf == nil {
		e.mu.Unlock()
		return domain.ErrNotLoaded
	}
	if e.publishing {
		e.mu.Unlock()
		return domain.ErrActionInFlight
	}
	e.publishing = true
	token := e.loadToken
	orgID, workflowID := e.orgID, e.wf.ID
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.publishing = false
		e.mu.Unlock()
	}()

	if e.history.Dirty() {
		if err := e.Save(ctx); err != nil {
			return err
		}
	}

	version, err := e.persistence.Publish(ctx, orgID, workflowID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loadToken != token {
		return nil
	}
	if err != nil {
		return domain.NewBoundaryError("publish workflow", err)
	}
	e.wf.PublishedVersion = &version
	return nil
}

// ImportDocument validates an export document and, only when the
// whole document is valid, replaces the canvas with its contents as a
// single undoable step.
func (e *Editor) ImportDocument(data []byte) error {
	result, err := transfer.Import(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wf == nil {
		return domain.ErrNotLoaded
	}

	// One Replace mutation, so a single undo brings the previous
	// canvas back.
	e.store.Replace(graph.Snapshot{Nodes: result.Nodes, Edges: result.Edges})
	if result.Name != "" {
		e.wf.Name = result.Name
	}
	if result.Description != "" {
		e.wf.Description = result.Description
	}
	if len(result.Tags) > 0 {
		e.wf.Tags = append([]string(nil), result.Tags...)
	}
	if result.Settings != nil {
		e.wf.Settings = domain.MergeSettings(*result.Settings)
	}
	return nil
}

// ExportDocument renders the current workflow as an import-compatible
// JSON document.
func (e *Editor) ExportDocument() ([]byte, error) {
	e.mu.Lock()
	if e.wf == nil {
		e.mu.Unlock()
		return nil, domain.ErrNotLoaded
	}
	wf := e.currentLocked()
	e.mu.Unlock()
	return transfer.Export(wf)
}
