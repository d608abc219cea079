package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/adapters/storage"
	"github.com/loomhq/loom/internal/domain"
)

// fakePersistence delegates to function fields, falling back to an
// in-memory store for anything the test does not override.
type fakePersistence struct {
	backing *storage.MemoryStore

	saveFn      func(ctx context.Context, orgID string, wf *domain.Workflow) error
	setStatusFn func(ctx context.Context, orgID, workflowID string, status domain.WorkflowStatus) error
	publishFn   func(ctx context.Context, orgID, workflowID string) (int64, error)
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{backing: storage.NewMemoryStore()}
}

func (f *fakePersistence) Save(ctx context.Context, orgID string, wf *domain.Workflow) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, orgID, wf)
	}
	return f.backing.Save(ctx, orgID, wf)
}

func (f *fakePersistence) Load(ctx context.Context, orgID, workflowID string) (*domain.Workflow, error) {
	return f.backing.Load(ctx, orgID, workflowID)
}

func (f *fakePersistence) SetStatus(ctx context.Context, orgID, workflowID string, status domain.WorkflowStatus) error {
	if f.setStatusFn != nil {
		return f.setStatusFn(ctx, orgID, workflowID, status)
	}
	return f.backing.SetStatus(ctx, orgID, workflowID, status)
}

func (f *fakePersistence) Publish(ctx context.Context, orgID, workflowID string) (int64, error) {
	if f.publishFn != nil {
		return f.publishFn(ctx, orgID, workflowID)
	}
	return f.backing.Publish(ctx, orgID, workflowID)
}

func (f *fakePersistence) Close() error { return f.backing.Close() }

type fakeExecutor struct {
	executeFn func(ctx context.Context, orgID, workflowID string) (string, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, orgID, workflowID string) (string, error) {
	if f.executeFn != nil {
		return f.executeFn(ctx, orgID, workflowID)
	}
	return "exec-1", nil
}

func newTestEditor(events Events) (*Editor, *fakePersistence, *fakeExecutor) {
	persistence := newFakePersistence()
	executor := &fakeExecutor{}
	editor := NewEditor(Config{
		Persistence: persistence,
		Executor:    executor,
		Events:      events,
	})
	return editor, persistence, executor
}

func addTrigger(e *Editor) {
	e.Store().AddNode(domain.Node{ID: "t", Type: domain.NodeTypeManualTrigger})
}

func TestEditor_RequiresLoadedWorkflow(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	ctx := context.Background()

	assert.ErrorIs(t, editor.Save(ctx), domain.ErrNotLoaded)
	_, err := editor.Run(ctx)
	assert.ErrorIs(t, err, domain.ErrNotLoaded)
	assert.ErrorIs(t, editor.SetStatus(ctx, domain.WorkflowStatusActive), domain.ErrNotLoaded)
	assert.ErrorIs(t, editor.Publish(ctx), domain.ErrNotLoaded)
	_, err = editor.ExportDocument()
	assert.ErrorIs(t, err, domain.ErrNotLoaded)
	assert.Nil(t, editor.Workflow())
}

func TestEditor_SaveBumpsVersionAndClearsDirty(t *testing.T) {
	var saved *domain.Workflow
	editor, _, _ := newTestEditor(Events{
		OnSaved: func(wf *domain.Workflow) { saved = wf },
	})
	editor.NewWorkflow("org-1", "intake")
	addTrigger(editor)
	require.True(t, editor.History().Dirty())

	require.NoError(t, editor.Save(context.Background()))

	wf := editor.Workflow()
	assert.Equal(t, int64(1), wf.Version)
	assert.False(t, editor.History().Dirty())
	require.NotNil(t, saved)
	assert.Equal(t, int64(1), saved.Version)
	assert.Len(t, saved.Nodes, 1)
}

func TestEditor_FailedSaveKeepsVersionAndDirty(t *testing.T) {
	editor, persistence, _ := newTestEditor(Events{})
	persistence.saveFn = func(context.Context, string, *domain.Workflow) error {
		return errors.New("backend down")
	}
	editor.NewWorkflow("org-1", "intake")
	addTrigger(editor)

	err := editor.Save(context.Background())
	require.Error(t, err)
	var berr *domain.BoundaryError
	assert.ErrorAs(t, err, &berr)

	assert.Equal(t, int64(0), editor.Workflow().Version)
	assert.True(t, editor.History().Dirty())
}

func TestEditor_SaveInFlightGuard(t *testing.T) {
	editor, persistence, _ := newTestEditor(Events{})
	release := make(chan struct{})
	entered := make(chan struct{})
	persistence.saveFn = func(context.Context, string, *domain.Workflow) error {
		close(entered)
		<-release
		return nil
	}
	editor.NewWorkflow("org-1", "intake")
	addTrigger(editor)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = editor.Save(context.Background())
	}()

	<-entered
	assert.ErrorIs(t, editor.Save(context.Background()), domain.ErrActionInFlight)
	close(release)
	wg.Wait()

	// Guard lifts once the first save resolves.
	assert.False(t, editor.History().Dirty())
}

func TestEditor_StaleSaveResponseIsDiscarded(t *testing.T) {
	editor, persistence, _ := newTestEditor(Events{})
	release := make(chan struct{})
	entered := make(chan struct{})
	persistence.saveFn = func(context.Context, string, *domain.Workflow) error {
		close(entered)
		<-release
		return nil
	}
	editor.NewWorkflow("org-1", "first")
	addTrigger(editor)

	done := make(chan error, 1)
	go func() { done <- editor.Save(context.Background()) }()
	<-entered

	// A new session starts while the save is still in flight.
	editor.NewWorkflow("org-1", "second")
	close(release)
	require.NoError(t, <-done)

	wf := editor.Workflow()
	assert.Equal(t, "second", wf.Name)
	assert.Equal(t, int64(0), wf.Version, "stale response must not touch the new session")
	assert.False(t, editor.History().Dirty())
}

func TestEditor_RunRequiresNodes(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	editor.NewWorkflow("org-1", "empty")

	_, err := editor.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyWorkflow)
}

func TestEditor_RunSavesDirtyGraphFirst(t *testing.T) {
	var started string
	editor, _, executor := newTestEditor(Events{
		OnExecutionStarted: func(id string) { started = id },
	})
	var savedBeforeExecute bool
	executor.executeFn = func(context.Context, string, string) (string, error) {
		savedBeforeExecute = !editor.History().Dirty()
		return "exec-42", nil
	}
	editor.NewWorkflow("org-1", "intake")
	addTrigger(editor)

	id, err := editor.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "exec-42", id)
	assert.Equal(t, "exec-42", started)
	assert.True(t, savedBeforeExecute)
	assert.Equal(t, int64(1), editor.Workflow().Version)
}

func TestEditor_RunSurfacesExecutorFailure(t *testing.T) {
	editor, _, executor := newTestEditor(Events{})
	executor.executeFn = func(context.Context, string, string) (string, error) {
		return "", errors.New("runtime unavailable")
	}
	editor.NewWorkflow("org-1", "intake")
	addTrigger(editor)
	require.NoError(t, editor.Save(context.Background()))

	_, err := editor.Run(context.Background())
	require.Error(t, err)
	var berr *domain.BoundaryError
	assert.ErrorAs(t, err, &berr)
}

func TestEditor_RunInFlightGuard(t *testing.T) {
	editor, _, executor := newTestEditor(Events{})
	release := make(chan struct{})
	entered := make(chan struct{})
	executor.executeFn = func(context.Context, string, string) (string, error) {
		close(entered)
		<-release
		return "exec-1", nil
	}
	editor.NewWorkflow("org-1", "intake")
	addTrigger(editor)
	require.NoError(t, editor.Save(context.Background()))

	done := make(chan error, 1)
	go func() {
		_, err := editor.Run(context.Background())
		done <- err
	}()
	<-entered

	_, err := editor.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrActionInFlight)
	close(release)
	require.NoError(t, <-done)
}

func TestEditor_SetStatus(t *testing.T) {
	var gotFrom, gotTo domain.WorkflowStatus
	editor, _, _ := newTestEditor(Events{
		OnStatusChanged: func(from, to domain.WorkflowStatus) { gotFrom, gotTo = from, to },
	})
	editor.NewWorkflow("org-1", "intake")
	addTrigger(editor)
	require.NoError(t, editor.Save(context.Background()))

	require.NoError(t, editor.SetStatus(context.Background(), domain.WorkflowStatusActive))
	assert.Equal(t, domain.WorkflowStatusActive, editor.Workflow().Status)
	assert.Equal(t, domain.WorkflowStatusDraft, gotFrom)
	assert.Equal(t, domain.WorkflowStatusActive, gotTo)
}

func TestEditor_SetStatusRejectsInvalidTransitionLocally(t *testing.T) {
	editor, persistence, _ := newTestEditor(Events{})
	var called bool
	persistence.setStatusFn = func(context.Context, string, string, domain.WorkflowStatus) error {
		called = true
		return nil
	}
	editor.NewWorkflow("org-1", "intake")

	err := editor.SetStatus(context.Background(), domain.WorkflowStatusPaused)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidTransition(err))
	assert.False(t, called, "invalid transitions never reach the boundary")
	assert.Equal(t, domain.WorkflowStatusDraft, editor.Workflow().Status)
}

func TestEditor_SetStatusFailureLeavesLocalStatus(t *testing.T) {
	editor, persistence, _ := newTestEditor(Events{})
	persistence.setStatusFn = func(context.Context, string, string, domain.WorkflowStatus) error {
		return errors.New("backend down")
	}
	editor.NewWorkflow("org-1", "intake")

	err := editor.SetStatus(context.Background(), domain.WorkflowStatusActive)
	require.Error(t, err)
	assert.Equal(t, domain.WorkflowStatusDraft, editor.Workflow().Status)
}

func TestEditor_PublishSavesFirstAndSetsPublishedVersion(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	editor.NewWorkflow("org-1", "intake")
	addTrigger(editor)
	require.True(t, editor.History().Dirty())

	require.NoError(t, editor.Publish(context.Background()))

	wf := editor.Workflow()
	assert.Equal(t, int64(1), wf.Version)
	require.NotNil(t, wf.PublishedVersion)
	assert.Equal(t, int64(1), *wf.PublishedVersion)
	assert.False(t, wf.HasUnpublishedChanges())
	assert.False(t, editor.History().Dirty())
}

func TestEditor_LoadReplacesSession(t *testing.T) {
	editor, persistence, _ := newTestEditor(Events{})
	ctx := context.Background()
	require.NoError(t, persistence.backing.Save(ctx, "org-1", &domain.Workflow{
		ID:     "wf-1",
		Name:   "stored",
		Status: domain.WorkflowStatusActive,
		Nodes:  []domain.Node{{ID: "t", Type: domain.NodeTypeWebhookTrigger}},
		Edges:  []domain.Edge{},
	}))

	editor.NewWorkflow("org-1", "scratch")
	addTrigger(editor)

	require.NoError(t, editor.Load(ctx, "org-1", "wf-1"))

	wf := editor.Workflow()
	assert.Equal(t, "stored", wf.Name)
	assert.Equal(t, domain.WorkflowStatusActive, wf.Status)
	require.Len(t, wf.Nodes, 1)
	assert.Equal(t, domain.NodeTypeWebhookTrigger, wf.Nodes[0].Type)
	assert.Equal(t, "UTC", wf.Settings.Timezone, "zero settings fill in from defaults")
	assert.False(t, editor.History().Dirty())
	assert.False(t, editor.History().CanUndo())
}

func TestEditor_LoadUnknownWorkflow(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	err := editor.Load(context.Background(), "org-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditor_ImportReplacesCanvasAsOneUndoStep(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	editor.NewWorkflow("org-1", "scratch")
	editor.Store().AddNode(domain.Node{ID: "old", Type: domain.NodeTypeCode})

	doc := []byte(`{
	  "name": "imported",
	  "canvas": {
	    "nodes": [
	      {"id": "a", "type": "form-trigger"},
	      {"id": "b", "type": "slack-message"}
	    ],
	    "edges": [{"id": "e", "source": "a", "target": "b"}]
	  }
	}`)
	require.NoError(t, editor.ImportDocument(doc))

	wf := editor.Workflow()
	assert.Equal(t, "imported", wf.Name)
	assert.Len(t, wf.Nodes, 2)
	assert.Len(t, wf.Edges, 1)

	// One undo restores the pre-import canvas.
	editor.History().Undo()
	assert.Equal(t, 1, editor.Store().NodeCount())
	_, ok := editor.Store().Node("old")
	assert.True(t, ok)
}

func TestEditor_BadImportLeavesGraphUntouched(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	editor.NewWorkflow("org-1", "scratch")
	editor.Store().AddNode(domain.Node{ID: "old", Type: domain.NodeTypeCode})
	editor.History().MarkSaved()

	err := editor.ImportDocument([]byte(`{"name": "broken"}`))
	require.Error(t, err)
	assert.True(t, domain.IsImportError(err))

	assert.Equal(t, 1, editor.Store().NodeCount())
	assert.Equal(t, "scratch", editor.Workflow().Name)
	assert.False(t, editor.History().Dirty())
}

func TestEditor_ExportImportRoundTripThroughEditor(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	editor.NewWorkflow("org-1", "pipeline")
	store := editor.Store()
	store.AddNode(domain.Node{ID: "t", Type: domain.NodeTypeScheduleTrigger})
	store.AddNode(domain.Node{ID: "q", Type: domain.NodeTypeMongoQuery})
	require.NoError(t, store.AddEdge(domain.Edge{
		ID: "e", Source: "t", SourceHandle: domain.HandleOutput,
		Target: "q", TargetHandle: domain.HandleInput,
	}))

	data, err := editor.ExportDocument()
	require.NoError(t, err)

	other, _, _ := newTestEditor(Events{})
	other.NewWorkflow("org-2", "copy target")
	require.NoError(t, other.ImportDocument(data))

	assert.Equal(t, "pipeline", other.Workflow().Name)
	assert.Equal(t, 2, other.Store().NodeCount())
	assert.Len(t, other.Store().Edges(), 1)
}

func TestEditor_CatalogForReflectsLiveGraph(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	editor.NewWorkflow("org-1", "intake")
	store := editor.Store()
	store.AddNode(domain.Node{ID: "t", Type: domain.NodeTypeFormTrigger})
	store.AddNode(domain.Node{ID: "h", Type: domain.NodeTypeHTTPRequest})
	require.NoError(t, store.AddEdge(domain.Edge{
		ID: "e", Source: "t", SourceHandle: domain.HandleOutput,
		Target: "h", TargetHandle: domain.HandleInput,
	}))

	entries := editor.CatalogFor("h")
	require.NotEmpty(t, entries)

	var sawAmbient, sawUpstream bool
	for _, entry := range entries {
		if entry.Path == "workflow.id" {
			sawAmbient = true
		}
		if entry.SourceNodeID == "t" {
			sawUpstream = true
		}
	}
	assert.True(t, sawAmbient)
	assert.True(t, sawUpstream)
}

func TestEditor_NewWorkflowResetsEverything(t *testing.T) {
	editor, _, _ := newTestEditor(Events{})
	editor.NewWorkflow("org-1", "first")
	addTrigger(editor)
	require.NoError(t, editor.Save(context.Background()))

	editor.NewWorkflow("org-1", "second")

	wf := editor.Workflow()
	assert.Equal(t, "second", wf.Name)
	assert.Equal(t, domain.WorkflowStatusDraft, wf.Status)
	assert.Equal(t, int64(0), wf.Version)
	assert.Empty(t, wf.Nodes)
	assert.Equal(t, 0, editor.Store().NodeCount())
	assert.False(t, editor.History().CanUndo())
	assert.False(t, editor.History().Dirty())
	assert.WithinDuration(t, time.Now().UTC(), wf.CreatedAt, time.Minute)
}
