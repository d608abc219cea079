// Package storage provides Persistence adapters: a badger-backed
// local store, a redis-backed shared store, and an in-memory store
// for tests.
package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v3"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/lifecycle"
	"github.com/loomhq/loom/internal/xjson"
)

// BadgerStore persists workflows in a local badger database. Save is
// a plain upsert, so retries are idempotent.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

func NewBadgerStore(db *badger.DB, logger *slog.Logger) *BadgerStore {
	return &BadgerStore{
		db:     db,
		logger: logger.With("component", "badger-store"),
	}
}

// OpenBadgerStore opens (or creates) a badger database at dir and
// wraps it in a store.
func OpenBadgerStore(dir string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return NewBadgerStore(db, logger), nil
}

func (s *BadgerStore) Save(ctx context.Context, orgID string, wf *domain.Workflow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := xjson.Marshal(wf)
	if err != nil {
		return err
	}
	key := []byte(workflowKey(orgID, wf.ID))
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		s.logger.Error("workflow save failed", "workflow_id", wf.ID, "error", err)
		return err
	}
	return nil
}

func (s *BadgerStore) Load(ctx context.Context, orgID, workflowID string) (*domain.Workflow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var wf domain.Workflow
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(workflowKey(orgID, workflowID)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return xjson.Unmarshal(val, &wf)
		})
	})
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

func (s *BadgerStore) SetStatus(ctx context.Context, orgID, workflowID string, status domain.WorkflowStatus) error {
	return s.update(ctx, orgID, workflowID, func(wf *domain.Workflow) {
		wf.Status = status
	})
}

func (s *BadgerStore) Publish(ctx context.Context, orgID, workflowID string) (int64, error) {
	var version int64
	err := s.update(ctx, orgID, workflowID, func(wf *domain.Workflow) {
		version = lifecycle.MarkPublished(wf)
	})
	return version, err
}

func (s *BadgerStore) update(ctx context.Context, orgID, workflowID string, mutate func(*domain.Workflow)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := []byte(workflowKey(orgID, workflowID))
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var wf domain.Workflow
		if err := item.Value(func(val []byte) error {
			return xjson.Unmarshal(val, &wf)
		}); err != nil {
			return err
		}
		mutate(&wf)
		data, err := xjson.Marshal(&wf)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
