package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/ccstart/pkg/types"
)

// Fault operation names accepted by MemoryFS.FailOn
const (
	OpWrite  = "write"
	OpSync   = "sync"
	OpClose  = "close"
	OpRename = "rename"
	OpRemove = "remove"
	OpRead   = "read"
	OpMkdir  = "mkdir"
)

// MemoryFS implements types.FS with in-memory storage. Faults can be
// injected per operation and path to simulate crashes mid-write.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode
	umask os.FileMode

	// Error injection
	errorPaths map[string]error
	faults     map[faultKey]error

	// Statistics
	readCount   int
	writeCount  int
	renameCount int
}

type faultKey struct {
	op   string
	path string
}

// fileNode represents a file or directory in memory
type fileNode struct {
	name     string
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	children map[string]*fileNode
}

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	root := &fileNode{
		name:     "/",
		mode:     0755 | os.ModeDir,
		modTime:  time.Now(),
		isDir:    true,
		children: make(map[string]*fileNode),
	}

	return &MemoryFS{
		files:      map[string]*fileNode{"/": root},
		umask:      0022,
		errorPaths: make(map[string]error),
		faults:     make(map[faultKey]error),
	}
}

var _ types.FS = (*MemoryFS)(nil)

func normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join("/", path)
	}
	return filepath.Clean(path)
}

func (m *MemoryFS) fault(op, path string) error {
	return m.faults[faultKey{op: op, path: normalizePath(path)}]
}

// getNode retrieves a node at the given path
func (m *MemoryFS) getNode(path string) (*fileNode, error) {
	path = normalizePath(path)

	if err, ok := m.errorPaths[path]; ok {
		return nil, err
	}

	node, exists := m.files[path]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	return node, nil
}

// getParentAndName splits a path into parent directory and filename
func (m *MemoryFS) getParentAndName(path string) (parent *fileNode, name string, err error) {
	path = normalizePath(path)
	dir := filepath.Dir(path)
	name = filepath.Base(path)

	parent, err = m.getNode(dir)
	if err != nil {
		return nil, "", err
	}

	if !parent.isDir {
		return nil, "", &fs.PathError{Op: "open", Path: dir, Err: errors.New("not a directory")}
	}

	return parent, name, nil
}

// ReadFile reads the entire file content
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCount++

	if err := m.fault(OpRead, name); err != nil {
		return nil, err
	}

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}

	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}

	// Return a copy to prevent mutation
	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

// WriteFile writes data to a file. The parent directory must exist.
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeCount++

	if err := m.fault(OpWrite, name); err != nil {
		return err
	}

	node, err := m.createFile(name, perm)
	if err != nil {
		return err
	}
	node.content = append([]byte(nil), data...)
	return nil
}

// createFile creates or truncates a regular file node
func (m *MemoryFS) createFile(name string, perm os.FileMode) (*fileNode, error) {
	path := normalizePath(name)

	if err, ok := m.errorPaths[path]; ok {
		return nil, err
	}

	parent, filename, err := m.getParentAndName(path)
	if err != nil {
		return nil, err
	}

	if existing, ok := parent.children[filename]; ok && existing.isDir {
		return nil, &fs.PathError{Op: "open", Path: name, Err: errors.New("is a directory")}
	}

	node := &fileNode{
		name:    filename,
		mode:    perm &^ m.umask,
		modTime: time.Now(),
	}
	parent.children[filename] = node
	m.files[path] = node
	return node, nil
}

// OpenFile supports the write-only create/truncate mode used for durable writes
func (m *MemoryFS) OpenFile(name string, flag int, perm os.FileMode) (types.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: errors.New("memoryfs: only write modes are supported")}
	}

	path := normalizePath(name)
	node, exists := m.files[path]
	switch {
	case exists && flag&os.O_EXCL != 0 && flag&os.O_CREATE != 0:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrExist}
	case !exists && flag&os.O_CREATE == 0:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	case !exists || flag&os.O_TRUNC != 0:
		var err error
		node, err = m.createFile(name, perm)
		if err != nil {
			return nil, err
		}
	}

	return &memoryFile{node: node, fs: m, path: path}, nil
}

// Stat returns file info
func (m *MemoryFS) Stat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}

	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// Remove removes a file or empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fault(OpRemove, name); err != nil {
		return err
	}

	path := normalizePath(name)

	node, err := m.getNode(path)
	if err != nil {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}

	if node.isDir && len(node.children) > 0 {
		return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
	}

	parent, filename, err := m.getParentAndName(path)
	if err != nil {
		return err
	}

	delete(parent.children, filename)
	delete(m.files, path)

	return nil
}

// Rename moves oldpath over newpath, replacing any existing file
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.renameCount++

	if err := m.fault(OpRename, newpath); err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}

	from := normalizePath(oldpath)
	to := normalizePath(newpath)

	node, err := m.getNode(from)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	if node.isDir {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("memoryfs: directory rename not supported")}
	}

	oldParent, oldName, err := m.getParentAndName(from)
	if err != nil {
		return err
	}
	newParent, newName, err := m.getParentAndName(to)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}
	if existing, ok := newParent.children[newName]; ok && existing.isDir {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("is a directory")}
	}

	delete(oldParent.children, oldName)
	delete(m.files, from)

	node.name = newName
	newParent.children[newName] = node
	m.files[to] = node

	return nil
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fault(OpMkdir, path); err != nil {
		return err
	}

	return m.mkdirAll(path, perm)
}

// mkdirAll is the internal implementation without locking
func (m *MemoryFS) mkdirAll(path string, perm os.FileMode) error {
	path = normalizePath(path)

	if node, err := m.getNode(path); err == nil {
		if !node.isDir {
			return &fs.PathError{Op: "mkdir", Path: path, Err: errors.New("file exists")}
		}
		return nil
	}

	parts := strings.Split(path, "/")
	current := "/"
	currentNode := m.files["/"]

	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}

		next := filepath.Join(current, parts[i])

		if child, exists := currentNode.children[parts[i]]; exists {
			if !child.isDir {
				return &fs.PathError{Op: "mkdir", Path: next, Err: errors.New("not a directory")}
			}
			currentNode = child
			current = next
			continue
		}

		newDir := &fileNode{
			name:     parts[i],
			mode:     perm | os.ModeDir,
			modTime:  time.Now(),
			isDir:    true,
			children: make(map[string]*fileNode),
		}

		currentNode.children[parts[i]] = newDir
		m.files[next] = newDir

		currentNode = newDir
		current = next
	}

	return nil
}

// ReadDir reads a directory and returns its entries sorted by name
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}

	if !node.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}

	entries := make([]fs.DirEntry, 0, len(node.children))
	for childName, child := range node.children {
		entries = append(entries, &dirEntry{
			name: childName,
			info: &fileInfo{node: child, name: childName},
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	return entries, nil
}

// WithError configures the filesystem to return an error for every
// operation touching path
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths[normalizePath(path)] = err
	return m
}

// FailOn makes a single operation on path fail with err. For OpRename the
// path is the rename destination; for OpWrite, OpSync and OpClose it applies
// to handles returned by OpenFile as well as to WriteFile.
func (m *MemoryFS) FailOn(op, path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.faults[faultKey{op: op, path: normalizePath(path)}] = err
	return m
}

// ClearFaults removes every injected fault
func (m *MemoryFS) ClearFaults() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths = make(map[string]error)
	m.faults = make(map[faultKey]error)
}

// Stats returns filesystem operation statistics
func (m *MemoryFS) Stats() (reads, writes, renames int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readCount, m.writeCount, m.renameCount
}

// memoryFile is a write handle onto a fileNode
type memoryFile struct {
	node   *fileNode
	fs     *MemoryFS
	path   string
	closed bool
}

func (f *memoryFile) Name() string { return f.path }

func (f *memoryFile) Write(b []byte) (int, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	if f.closed {
		return 0, os.ErrClosed
	}
	if err := f.fs.fault(OpWrite, f.path); err != nil {
		// simulate a torn write
		half := len(b) / 2
		f.node.content = append(f.node.content, b[:half]...)
		f.fs.writeCount++
		return half, err
	}

	f.node.content = append(f.node.content, b...)
	f.node.modTime = time.Now()
	f.fs.writeCount++
	return len(b), nil
}

func (f *memoryFile) Sync() error {
	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()

	if f.closed {
		return os.ErrClosed
	}
	return f.fs.fault(OpSync, f.path)
}

func (f *memoryFile) Close() error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	return f.fs.fault(OpClose, f.path)
}

// fileInfo implements os.FileInfo
type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry
type dirEntry struct {
	name string
	info os.FileInfo
}

func (de *dirEntry) Name() string               { return de.name }
func (de *dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de *dirEntry) Type() os.FileMode          { return de.info.Mode().Type() }
func (de *dirEntry) Info() (os.FileInfo, error) { return de.info, nil }
