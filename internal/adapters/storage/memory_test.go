package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/domain"
)

func TestMemoryStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	wf := &domain.Workflow{
		ID:     "wf-1",
		Name:   "intake",
		Status: domain.WorkflowStatusDraft,
		Nodes:  []domain.Node{{ID: "t", Type: domain.NodeTypeFormTrigger}},
	}
	require.NoError(t, store.Save(ctx, "org-1", wf))

	got, err := store.Load(ctx, "org-1", "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "intake", got.Name)
	require.Len(t, got.Nodes, 1)

	// Mutating the loaded copy must not leak back into the store.
	got.Name = "renamed"
	again, err := store.Load(ctx, "org-1", "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "intake", again.Name)
}

func TestMemoryStore_LoadUnknownID(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "org-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_OrgScoping(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "org-a", &domain.Workflow{ID: "wf"}))

	_, err := store.Load(ctx, "org-b", "wf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_SetStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "org-1", &domain.Workflow{
		ID: "wf", Status: domain.WorkflowStatusDraft,
	}))

	require.NoError(t, store.SetStatus(ctx, "org-1", "wf", domain.WorkflowStatusActive))
	got, err := store.Load(ctx, "org-1", "wf")
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowStatusActive, got.Status)

	err = store.SetStatus(ctx, "org-1", "missing", domain.WorkflowStatusActive)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_Publish(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "org-1", &domain.Workflow{ID: "wf", Version: 3}))

	v, err := store.Publish(ctx, "org-1", "wf")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	got, err := store.Load(ctx, "org-1", "wf")
	require.NoError(t, err)
	require.NotNil(t, got.PublishedVersion)
	assert.Equal(t, int64(3), *got.PublishedVersion)

	_, err = store.Publish(ctx, "org-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Save(ctx, "org-1", &domain.Workflow{ID: "wf"}))
	_, err := store.Load(ctx, "org-1", "wf")
	assert.Error(t, err)
}
