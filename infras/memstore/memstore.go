// Package memstore is an in-process document store with serialized read-modify-write
// transactions. It backs the memory database driver.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrAborted = errors.New("transaction aborted")

// Store keeps documents per collection keyed by id. Documents are stored by value, so
// callers must put struct values, not pointers.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]any
}

func New() *Store {
	return &Store{
		collections: map[string]map[string]any{},
	}
}

// Get returns a copy of a committed document.
func (s *Store) Get(collection, id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]

	return doc, ok
}

// List returns every committed document of a collection in no particular order.
func (s *Store) List(collection string) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]any, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		docs = append(docs, doc)
	}

	return docs
}

// Update runs fn with exclusive access to the store. Writes staged on the Tx become
// visible only when fn returns nil; any error discards them.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memstore update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{store: s, writes: map[string]map[string]any{}}

	if err := fn(tx); err != nil {
		return err
	}

	for collection, docs := range tx.writes {
		if s.collections[collection] == nil {
			s.collections[collection] = map[string]any{}
		}

		for id, doc := range docs {
			s.collections[collection][id] = doc
		}
	}

	return nil
}

type Tx struct {
	store  *Store
	writes map[string]map[string]any
}

// Get sees writes staged earlier in the same transaction.
func (tx *Tx) Get(collection, id string) (any, bool) {
	if doc, ok := tx.writes[collection][id]; ok {
		return doc, true
	}

	doc, ok := tx.store.collections[collection][id]

	return doc, ok
}

func (tx *Tx) List(collection string) []any {
	docs := make([]any, 0, len(tx.store.collections[collection]))

	for id, doc := range tx.store.collections[collection] {
		if staged, ok := tx.writes[collection][id]; ok {
			doc = staged
		}

		docs = append(docs, doc)
	}

	for id, doc := range tx.writes[collection] {
		if _, committed := tx.store.collections[collection][id]; !committed {
			docs = append(docs, doc)
		}
	}

	return docs
}

func (tx *Tx) Put(collection, id string, doc any) {
	if tx.writes[collection] == nil {
		tx.writes[collection] = map[string]any{}
	}

	tx.writes[collection][id] = doc
}

// Typed helpers.

func GetAs[T any](s *Store, collection, id string) (T, bool) {
	doc, ok := s.Get(collection, id)
	if !ok {
		var zero T

		return zero, false
	}

	value, ok := doc.(T)

	return value, ok
}

func ListAs[T any](s *Store, collection string) []T {
	return castAll[T](s.List(collection))
}

func TxGetAs[T any](tx *Tx, collection, id string) (T, bool) {
	doc, ok := tx.Get(collection, id)
	if !ok {
		var zero T

		return zero, false
	}

	value, ok := doc.(T)

	return value, ok
}

func TxListAs[T any](tx *Tx, collection string) []T {
	return castAll[T](tx.List(collection))
}

func castAll[T any](docs []any) []T {
	values := make([]T, 0, len(docs))

	for _, doc := range docs {
		if value, ok := doc.(T); ok {
			values = append(values, value)
		}
	}

	return values
}
