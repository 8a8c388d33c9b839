package stache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage keeps partial sources in process memory. It is the
// zero-dependency backend for tests and embedded use.
type MemoryStorage struct {
	mu       sync.RWMutex
	partials map[string]*StoredPartial
	closed   bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage
// instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance. The connection string is
// ignored.
func (d *MemoryStorageDriver) Open(connectionString string) (SourceStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates an empty in-memory partial storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{partials: make(map[string]*StoredPartial)}
}

// Get retrieves a partial by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredPartial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	partial, ok := s.partials[name]
	if !ok {
		return nil, NewPartialNotFoundError(name)
	}
	clone := *partial
	return &clone, nil
}

// Save stores a partial, overwriting any previous source.
func (s *MemoryStorage) Save(ctx context.Context, partial *StoredPartial) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if partial == nil || partial.Name == "" {
		return &StorageError{Message: ErrMsgEmptyPartialName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	partial.UpdatedAt = time.Now().UTC()
	clone := *partial
	s.partials[partial.Name] = &clone
	return nil
}

// Delete removes a partial by name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	if _, ok := s.partials[name]; !ok {
		return NewPartialNotFoundError(name)
	}
	delete(s.partials, name)
	return nil
}

// List returns all stored partial names in sorted order.
func (s *MemoryStorage) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	names := make([]string, 0, len(s.partials))
	for name := range s.partials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Exists checks whether a partial with the given name is stored.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}
	_, ok := s.partials[name]
	return ok, nil
}

// Close releases the storage.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.partials = nil
	return nil
}
