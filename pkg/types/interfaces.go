package types

import (
	"context"
	"io"
	"io/fs"
)

// FS is the filesystem interface required for ccstart operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// File is the subset of *os.File used for durable writes
type File interface {
	io.Writer
	Name() string
	Sync() error
	Close() error
}

// ProviderSource produces provider records for one application namespace.
// Implementations are selected once at startup.
type ProviderSource interface {
	// ListAll returns every provider record in a deterministic order.
	ListAll(ctx context.Context) ([]ProviderRecord, error)

	// GetByName returns the record whose name matches. A missing provider
	// is reported through found=false, not through err.
	GetByName(ctx context.Context, name string) (rec ProviderRecord, found bool, err error)

	// ListNames returns provider names in the same order as ListAll.
	ListNames(ctx context.Context) ([]string, error)

	// Describe returns a short human readable location of the source.
	Describe() string

	Close() error
}
