// Package memory keeps records in process memory. It backs local development
// (STORAGE_DRIVER=memory) and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/repository"
)

// Store is a mutex-guarded map of collections.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]models.Record
}

var _ repository.RecordStore = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string][]models.Record)}
}

// List returns copies of every record, newest first by the schema's date field.
func (s *Store) List(_ context.Context, schema models.Schema) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(schema, func(models.Record) bool { return true }), nil
}

// Get returns one record by id.
func (s *Store) Get(_ context.Context, schema models.Schema, id string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(schema, id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	return s.collections[schema.Collection][idx].Clone(), nil
}

// Insert appends a record unless its id is taken.
func (s *Store) Insert(_ context.Context, schema models.Schema, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(schema, schema.ID(rec)) >= 0 {
		return repository.ErrDuplicate
	}
	s.collections[schema.Collection] = append(s.collections[schema.Collection], rec.Clone())
	return nil
}

// Replace overwrites the record with the given id.
func (s *Store) Replace(_ context.Context, schema models.Schema, id string, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(schema, id)
	if idx < 0 {
		return repository.ErrNotFound
	}
	s.collections[schema.Collection][idx] = rec.Clone()
	return nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(_ context.Context, schema models.Schema, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(schema, id)
	if idx < 0 {
		return repository.ErrNotFound
	}
	coll := s.collections[schema.Collection]
	s.collections[schema.Collection] = append(coll[:idx:idx], coll[idx+1:]...)
	return nil
}

// Search matches term as a case-insensitive substring of any search field.
func (s *Store) Search(_ context.Context, schema models.Schema, term string) ([]models.Record, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(schema, func(rec models.Record) bool {
		if needle == "" {
			return true
		}
		for _, field := range schema.SearchFields {
			if strings.Contains(strings.ToLower(rec.String(field)), needle) {
				return true
			}
		}
		return false
	}), nil
}

func (s *Store) indexOf(schema models.Schema, id string) int {
	for i, rec := range s.collections[schema.Collection] {
		if schema.ID(rec) == id {
			return i
		}
	}
	return -1
}

func (s *Store) sorted(schema models.Schema, keep func(models.Record) bool) []models.Record {
	out := make([]models.Record, 0, len(s.collections[schema.Collection]))
	for _, rec := range s.collections[schema.Collection] {
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	if schema.DateField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].String(schema.DateField) > out[j].String(schema.DateField)
		})
	}
	return out
}
