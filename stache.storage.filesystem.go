package stache

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FilesystemStorage stores partial sources as files on the filesystem,
// one "<name>.mustache" file per partial under a root directory.
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// Filesystem storage constants
const (
	FilesystemSourceExt       = ".mustache"
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
)

// Filesystem storage error message constants
const (
	ErrMsgInvalidStorageRoot = "storage root cannot be empty"
	ErrMsgCreateStorageDir   = "failed to create storage directory"
	ErrMsgInvalidPartialName = "partial name is not a valid file name"
	ErrMsgReadPartialFile    = "failed to read partial file"
	ErrMsgWritePartialFile   = "failed to write partial file"
	ErrMsgDeletePartialFile  = "failed to delete partial file"
	ErrMsgListPartialFiles   = "failed to list partial files"
)

// FilesystemStorageDriver is the driver for creating FilesystemStorage
// instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a new FilesystemStorage instance. The connection string
// is the root directory path.
func (d *FilesystemStorageDriver) Open(connectionString string) (SourceStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a filesystem-based partial storage. The
// root directory is created if it doesn't exist.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{
			Message: ErrMsgCreateStorageDir,
			Name:    root,
			Cause:   err,
		}
	}
	return &FilesystemStorage{root: root}, nil
}

// partialPath maps a name onto its file path, rejecting names that would
// escape the root directory.
func (s *FilesystemStorage) partialPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return "", &StorageError{Message: ErrMsgInvalidPartialName, Name: name}
	}
	return filepath.Join(s.root, name+FilesystemSourceExt), nil
}

// Get retrieves a partial by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredPartial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	path, err := s.partialPath(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewPartialNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgReadPartialFile, Name: name, Cause: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadPartialFile, Name: name, Cause: err}
	}

	return &StoredPartial{
		Name:      name,
		Source:    string(data),
		UpdatedAt: info.ModTime().UTC(),
	}, nil
}

// Save stores a partial, overwriting any previous file.
func (s *FilesystemStorage) Save(ctx context.Context, partial *StoredPartial) error {
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
	path, err := s.partialPath(partial.Name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(partial.Source), FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgWritePartialFile, Name: partial.Name, Cause: err}
	}
	partial.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes a partial file by name.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	path, err := s.partialPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return NewPartialNotFoundError(name)
		}
		return &StorageError{Message: ErrMsgDeletePartialFile, Name: name, Cause: err}
	}
	return nil
}

// List returns all stored partial names in sorted order.
func (s *FilesystemStorage) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgListPartialFiles, Name: s.root, Cause: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FilesystemSourceExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), FilesystemSourceExt))
	}
	sort.Strings(names)
	return names, nil
}

// Exists checks whether a partial file exists for the name.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}
	path, err := s.partialPath(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &StorageError{Message: ErrMsgReadPartialFile, Name: name, Cause: err}
	}
	return true, nil
}

// Close releases the storage.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
