package cache

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/codec"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/internal/hashutil"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/arthur-debert/ccstart/pkg/types"
	"github.com/rs/zerolog"
	"github.com/tidwall/pretty"
)

// TempSuffix is appended to a target file name while it is being written
const TempSuffix = ".tmp"

// Outcome reports what Reconcile did to a single file
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeAdded
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Width 0 puts every array element on its own line
var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Serialize renders a settings document the way it is stored on disk.
// Empty settings become JSON null. Key order is preserved.
func Serialize(settings json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(settings)
	if len(trimmed) == 0 {
		return []byte("null\n"), nil
	}
	if !json.Valid(trimmed) {
		return nil, errors.New(errors.ErrSerialization, "settings are not valid JSON")
	}

	out := pretty.PrettyOptions(trimmed, prettyOptions)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// Manager owns the directory of materialized provider files. A Manager is
// meant to live for one command invocation and is not safe for concurrent use.
type Manager struct {
	fs       types.FS
	dir      string
	logger   zerolog.Logger
	dirReady bool
}

// New creates a Manager for dir
func New(fs types.FS, dir string) *Manager {
	return &Manager{
		fs:     fs,
		dir:    dir,
		logger: logging.GetLogger("cache"),
	}
}

// Dir returns the managed directory
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the file path for a provider name. It does not touch the disk.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, codec.FileName(name))
}

// Find returns the path for name if the file exists
func (m *Manager) Find(name string) (string, error) {
	path := m.Path(name)
	info, err := m.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.ErrNotFound, "no materialized file for provider %q", name).
				WithDetail("path", path)
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", path)
	}
	if info.IsDir() {
		return "", errors.Newf(errors.ErrNotFound, "no materialized file for provider %q", name).
			WithDetail("path", path)
	}
	return path, nil
}

// EnsureDir creates the managed directory and removes temporary files left
// behind by interrupted writes. It does its work once per Manager.
func (m *Manager) EnsureDir() error {
	if m.dirReady {
		return nil
	}

	if err := m.fs.MkdirAll(m.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrWrite, "failed to create directory %s", m.dir).
			WithDetail("path", m.dir)
	}

	entries, err := m.fs.ReadDir(m.dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read directory %s", m.dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isTempFile(entry.Name()) {
			continue
		}
		tmp := filepath.Join(m.dir, entry.Name())
		if err := m.fs.Remove(tmp); err != nil && !os.IsNotExist(err) {
			m.logger.Warn().Err(err).Str("path", tmp).Msg("Failed to remove leftover temporary file")
			continue
		}
		m.logger.Debug().Str("path", tmp).Msg("Removed leftover temporary file")
	}

	m.dirReady = true
	return nil
}

func isTempFile(fileName string) bool {
	base, ok := strings.CutSuffix(fileName, TempSuffix)
	if !ok {
		return false
	}
	_, managed := codec.ParseFileName(base)
	return managed
}

// EnsureCached makes sure the file for e holds exactly the serialized
// settings, writing only when content differs or the file is absent.
func (m *Manager) EnsureCached(e types.Entry) (string, error) {
	path, _, err := m.Reconcile(e)
	return path, err
}

// Reconcile is EnsureCached that also reports what happened
func (m *Manager) Reconcile(e types.Entry) (string, Outcome, error) {
	data, err := Serialize(e.Settings)
	if err != nil {
		return "", OutcomeUnchanged, errors.Wrapf(err, errors.ErrSerialization, "failed to serialize provider %q", e.UniqueName)
	}

	if err := m.EnsureDir(); err != nil {
		return "", OutcomeUnchanged, err
	}

	target := m.Path(e.UniqueName)
	outcome := OutcomeAdded

	existing, err := hashutil.CalculateFileChecksum(m.fs, target)
	switch {
	case err == nil && existing == hashutil.HashBytes(data):
		m.logger.Debug().Str("provider", e.UniqueName).Str("path", target).Msg("Materialized file is up to date")
		return target, OutcomeUnchanged, nil
	case err == nil:
		outcome = OutcomeUpdated
	case !os.IsNotExist(err):
		// unreadable target is replaced
		m.logger.Debug().Err(err).Str("path", target).Msg("Failed to read existing file, rewriting")
		outcome = OutcomeUpdated
	}

	if err := m.writeAtomic(target, data); err != nil {
		return "", OutcomeUnchanged, err
	}

	m.logger.Info().
		Str("provider", e.UniqueName).
		Str("path", target).
		Str("outcome", outcome.String()).
		Msg("Materialized provider")
	return target, outcome, nil
}

// ForceWrite writes the file for e unconditionally
func (m *Manager) ForceWrite(e types.Entry) (string, error) {
	data, err := Serialize(e.Settings)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrSerialization, "failed to serialize provider %q", e.UniqueName)
	}

	if err := m.EnsureDir(); err != nil {
		return "", err
	}

	target := m.Path(e.UniqueName)
	if err := m.writeAtomic(target, data); err != nil {
		return "", err
	}

	m.logger.Info().Str("provider", e.UniqueName).Str("path", target).Msg("Wrote provider file")
	return target, nil
}

// writeAtomic writes data next to target and renames it into place, so a
// reader sees either the previous content or the new content.
func (m *Manager) writeAtomic(target string, data []byte) error {
	tmp := target + TempSuffix

	f, err := m.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return writeError(err, "failed to create temporary file", tmp, target)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		m.discard(tmp)
		return writeError(err, "failed to write temporary file", tmp, target)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		m.discard(tmp)
		return writeError(err, "failed to sync temporary file", tmp, target)
	}
	if err := f.Close(); err != nil {
		m.discard(tmp)
		return writeError(err, "failed to close temporary file", tmp, target)
	}

	if err := m.fs.Rename(tmp, target); err != nil {
		m.discard(tmp)
		return writeError(err, "failed to rename temporary file", tmp, target)
	}
	return nil
}

func (m *Manager) discard(tmp string) {
	if err := m.fs.Remove(tmp); err != nil && !os.IsNotExist(err) {
		m.logger.Warn().Err(err).Str("path", tmp).Msg("Failed to remove temporary file")
	}
}

func writeError(err error, msg, tmp, target string) *errors.CodedError {
	return errors.Wrapf(err, errors.ErrWrite, "%s %s -> %s", msg, tmp, target).
		WithDetail("temp", tmp).
		WithDetail("target", target)
}

// managedFile is a managed file found in the directory
type managedFile struct {
	name     string
	fileName string
}

// scan returns the managed files in the directory sorted by name
func (m *Manager) scan() ([]managedFile, error) {
	entries, err := m.fs.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read directory %s", m.dir)
	}

	files := make([]managedFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := codec.ParseFileName(entry.Name())
		if !ok {
			m.logger.Trace().Str("file", entry.Name()).Msg("Skipping unmanaged file")
			continue
		}
		files = append(files, managedFile{name: name, fileName: entry.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

// ListNames returns the decoded, sorted names of all managed files. Files
// that do not follow the naming scheme are skipped. A missing directory
// yields an empty list.
func (m *Manager) ListNames() ([]string, error) {
	files, err := m.scan()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.name)
	}
	return names, nil
}

// Remove deletes the file for name. A missing file is not an error.
func (m *Manager) Remove(name string) error {
	return m.removePath(m.Path(name))
}

func (m *Manager) removePath(path string) error {
	if err := m.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrWrite, "failed to remove %s", path).WithDetail("path", path)
	}
	return nil
}

// CleanupStale removes managed files whose name is not in valid. It keeps
// going past individual failures; the returned error joins all of them.
func (m *Manager) CleanupStale(valid []string) ([]string, error) {
	files, err := m.scan()
	if err != nil {
		return nil, err
	}

	keep := make(map[string]struct{}, len(valid))
	for _, name := range valid {
		keep[name] = struct{}{}
	}

	removed := []string{}
	var failures []error
	for _, f := range files {
		if _, ok := keep[f.name]; ok {
			continue
		}
		if err := m.removePath(filepath.Join(m.dir, f.fileName)); err != nil {
			m.logger.Warn().Err(err).Str("provider", f.name).Msg("Failed to remove stale file")
			failures = append(failures, err)
			continue
		}
		m.logger.Info().Str("provider", f.name).Msg("Removed stale file")
		removed = append(removed, f.name)
	}

	if len(failures) > 0 {
		return removed, errors.Wrapf(stderrors.Join(failures...), errors.ErrWrite,
			"failed to remove %d stale file(s)", len(failures))
	}
	return removed, nil
}
