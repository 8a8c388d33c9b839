package stache

import (
	"context"
	"sync"
	"time"
)

// StoredPartial is a partial template source held in a storage backend.
type StoredPartial struct {
	// Name is the partial name used for lookups.
	Name string `json:"name"`

	// Source is the raw template source.
	Source string `json:"source"`

	// UpdatedAt is when the source was last written. Set by the storage
	// implementation on Save.
	UpdatedAt time.Time `json:"updated_at"`
}

// SourceStorage is the interface for pluggable partial-source backends.
// Implementations must be safe for concurrent use.
//
// The interface follows patterns from database/sql for familiarity:
// context for cancellation and timeouts, explicit error returns, Close
// for resource cleanup.
type SourceStorage interface {
	// Get retrieves a partial by name. Returns a not-found error when
	// the name is absent.
	Get(ctx context.Context, name string) (*StoredPartial, error)

	// Save stores a partial, overwriting any previous source under the
	// same name. UpdatedAt is set by the implementation.
	Save(ctx context.Context, partial *StoredPartial) error

	// Delete removes a partial by name. Returns a not-found error when
	// the name is absent.
	Delete(ctx context.Context, name string) error

	// List returns all stored partial names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Exists checks whether a partial with the given name is stored.
	Exists(ctx context.Context, name string) (bool, error)

	// Close releases any resources held by the storage. After Close,
	// the storage must not be used.
	Close() error
}

// StorageDriver is a factory for creating storage instances. Drivers
// register themselves during init().
type StorageDriver interface {
	// Open creates a new storage instance with the given connection
	// string. The format of the connection string is driver-specific.
	Open(connectionString string) (SourceStorage, error)
}

// Storage driver name constants
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name. This is
// typically called from a driver's init() function. Panics if a driver
// with the same name is already registered.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver. The
// connection string format is driver-specific.
//
// Example:
//
//	storage, err := stache.OpenStorage("memory", "")
//	storage, err := stache.OpenStorage("filesystem", "/path/to/partials")
func OpenStorage(driverName, connectionString string) (SourceStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}

	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered storage
// drivers.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	return names
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgPartialNotFound         = "partial not found"
	ErrMsgEmptyPartialName        = "partial name cannot be empty"
)

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Name != "" {
		return e.Message + ": " + e.Name
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageDriverNotFoundError creates an error for a missing storage
// driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Name: name}
}

// NewPartialNotFoundError creates an error for a partial absent from
// storage.
func NewPartialNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgPartialNotFound, Name: name}
}

// NewStorageClosedError creates an error for operations on closed
// storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// IsPartialNotFound reports whether err is a partial-not-found storage
// error.
func IsPartialNotFound(err error) bool {
	se, ok := err.(*StorageError)
	return ok && se.Message == ErrMsgPartialNotFound
}
