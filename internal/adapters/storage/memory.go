package storage

import (
	"context"
	"sync"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/lifecycle"
)

// MemoryStore is the in-process Persistence adapter, the default in
// tests. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	workflows map[string]*domain.Workflow
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{workflows: make(map[string]*domain.Workflow)}
}

func (s *MemoryStore) Save(ctx context.Context, orgID string, wf *domain.Workflow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[workflowKey(orgID, wf.ID)] = wf.Clone()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, orgID, workflowID string) (*domain.Workflow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[workflowKey(orgID, workflowID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return wf.Clone(), nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, orgID, workflowID string, status domain.WorkflowStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wf, ok := s.workflows[workflowKey(orgID, workflowID)]
	if !ok {
		return domain.ErrNotFound
	}
	wf.Status = status
	return nil
}

func (s *MemoryStore) Publish(ctx context.Context, orgID, workflowID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wf, ok := s.workflows[workflowKey(orgID, workflowID)]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return lifecycle.MarkPublished(wf), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.workflows = make(map[string]*domain.Workflow)
	s.mu.Unlock()
	return nil
}
