package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/ccstart/pkg/errors"
)

// Environment variable names
const (
	// EnvBaseDir overrides the default base directory
	EnvBaseDir = "CCSTART_BASE_DIR"

	// EnvConfigDir overrides the XDG config directory for ccstart
	EnvConfigDir = "CCSTART_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for ccstart
	EnvStateDir = "CCSTART_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// DefaultBaseDir is shared with cc-switch, which owns the source of truth
	DefaultBaseDir = "~/.cc-switch"

	// AppDirName is the directory name for ccstart's own XDG files
	AppDirName = "ccstart"

	// ConfigJSONFile is the document source inside the base directory
	ConfigJSONFile = "config.json"

	// DatabaseFile is the relational source inside the base directory
	DatabaseFile = "cc-switch.db"

	// SeparatedDir holds the materialized per-provider files
	SeparatedDir = "separated"

	// LogFileName is the name of the log file
	LogFileName = "ccstart.log"
)

// Paths provides centralized path management for ccstart
type Paths interface {
	BaseDir() string
	ConfigJSONPath() string
	DatabasePath() string
	SeparatedDir() string
	ConfigDir() string
	StateDir() string
	LogFilePath() string
}

// Options customize path resolution. Zero values select the defaults.
type Options struct {
	// BaseDir replaces ~/.cc-switch
	BaseDir string

	// DatabasePath replaces <base_dir>/cc-switch.db
	DatabasePath string
}

type paths struct {
	baseDir      string
	databasePath string
	xdgConfig    string
	xdgState     string
}

// New resolves all paths once. It fails with ErrPathResolution when a
// path needs the home directory and the platform cannot provide one.
func New(opts Options) (Paths, error) {
	p := &paths{}

	base := opts.BaseDir
	if base == "" {
		base = os.Getenv(EnvBaseDir)
	}
	if base == "" {
		base = DefaultBaseDir
	}

	expanded, err := ExpandHome(base)
	if err != nil {
		return nil, err
	}
	absBase, err := filepath.Abs(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPathResolution, "failed to get absolute path for %s", expanded)
	}
	p.baseDir = absBase

	if opts.DatabasePath != "" {
		db, err := ExpandHome(opts.DatabasePath)
		if err != nil {
			return nil, err
		}
		p.databasePath = db
	} else {
		p.databasePath = filepath.Join(p.baseDir, DatabaseFile)
	}

	if err := p.setupXDGDirs(); err != nil {
		return nil, err
	}

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() error {
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		expanded, err := ExpandHome(configDir)
		if err != nil {
			return err
		}
		p.xdgConfig = expanded
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		expanded, err := ExpandHome(stateDir)
		if err != nil {
			return err
		}
		p.xdgState = expanded
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}

	return nil
}

// ExpandHome expands a leading "~" or "~/" to the home directory.
// Other leading-tilde forms such as "~otheruser/x" are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		// ~something (not the user's home)
		return path, nil
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	if err == nil {
		return "", errors.New(errors.ErrPathResolution, "unable to determine home directory")
	}
	return "", errors.Wrap(err, errors.ErrPathResolution, "unable to determine home directory")
}

// BaseDir returns the configuration base directory
func (p *paths) BaseDir() string {
	return p.baseDir
}

// ConfigJSONPath returns the document source path
func (p *paths) ConfigJSONPath() string {
	return filepath.Join(p.baseDir, ConfigJSONFile)
}

// DatabasePath returns the relational source path
func (p *paths) DatabasePath() string {
	return p.databasePath
}

// SeparatedDir returns the directory holding materialized provider files
func (p *paths) SeparatedDir() string {
	return filepath.Join(p.baseDir, SeparatedDir)
}

// ConfigDir returns the XDG config directory for ccstart
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for ccstart
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the path to the ccstart log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}
