package stache

import (
	"context"

	"github.com/itsatony/go-stache/internal"
)

// PartialResolver maps a partial name to its template source. The
// renderer consults it for every partial and parent tag; a missing name
// renders as empty output.
type PartialResolver = internal.PartialResolver

// PartialMap is an in-memory partial resolver.
type PartialMap map[string]string

// Partial implements PartialResolver.
func (m PartialMap) Partial(name string) (string, bool) {
	source, ok := m[name]
	return source, ok
}

// PartialFunc adapts a plain function to the PartialResolver interface.
type PartialFunc func(name string) (string, bool)

// Partial implements PartialResolver.
func (f PartialFunc) Partial(name string) (string, bool) {
	return f(name)
}

// StorageResolver adapts a SourceStorage backend to the PartialResolver
// interface. Lookups run with the resolver's context; storage failures
// resolve as missing, which the renderer turns into empty output.
type StorageResolver struct {
	ctx     context.Context
	storage SourceStorage
}

// NewStorageResolver creates a PartialResolver backed by storage.
func NewStorageResolver(ctx context.Context, storage SourceStorage) *StorageResolver {
	if ctx == nil {
		ctx = context.Background()
	}
	return &StorageResolver{ctx: ctx, storage: storage}
}

// Partial implements PartialResolver.
func (r *StorageResolver) Partial(name string) (string, bool) {
	if r.storage == nil {
		return "", false
	}
	stored, err := r.storage.Get(r.ctx, name)
	if err != nil || stored == nil {
		return "", false
	}
	return stored.Source, true
}
