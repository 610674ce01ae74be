package initialize

import (
	"context"
	"os"

	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/arthur-debert/ccstart/pkg/materialize"
	"github.com/arthur-debert/ccstart/pkg/source"
)

// ConfirmFunc asks whether existing files in dir may be overwritten
type ConfirmFunc func(dir string) (bool, error)

// Options defines the options for the Init command
type Options struct {
	// Force skips the overwrite confirmation
	Force bool

	// Confirm is consulted when the separated directory already exists.
	// A nil Confirm declines.
	Confirm ConfirmFunc
}

// Written is one file produced by Init
type Written struct {
	Name string
	Path string
}

// Result summarizes an Init run
type Result struct {
	Source    string
	Dir       string
	Existed   bool
	Cancelled bool
	Written   []Written
}

// Init bootstraps the separated directory from the cc-switch config.json
// document, whatever source mode is configured.
func Init(ctx context.Context, env *commands.Env, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.init")
	log.Debug().Str("command", "Init").Bool("force", opts.Force).Msg("Executing command")

	baseDir := env.Paths.BaseDir()
	if err := env.FS.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrWrite, "failed to create %s", baseDir).WithDetail("path", baseDir)
	}

	mgr := env.Cache()
	doc := source.NewDocument(env.FS, env.Paths.ConfigJSONPath(), env.Config.Source.AppType)
	defer func() {
		_ = doc.Close()
	}()

	result := &Result{Source: doc.Describe(), Dir: mgr.Dir(), Written: []Written{}}

	info, err := env.FS.Stat(mgr.Dir())
	switch {
	case err == nil:
		result.Existed = info.IsDir()
	case !os.IsNotExist(err):
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", mgr.Dir())
	}

	if result.Existed && !opts.Force {
		ok := false
		if opts.Confirm != nil {
			ok, err = opts.Confirm(mgr.Dir())
			if err != nil {
				return nil, err
			}
		}
		if !ok {
			log.Info().Str("dir", mgr.Dir()).Msg("Init cancelled")
			result.Cancelled = true
			return result, nil
		}
	}

	records, err := doc.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	defer logging.LogOperationStart(log, "initialize providers")()

	for _, e := range materialize.Extract(records) {
		path, err := mgr.ForceWrite(e)
		if err != nil {
			return nil, err
		}
		result.Written = append(result.Written, Written{Name: e.UniqueName, Path: path})
	}

	log.Info().Int("written", len(result.Written)).Msg("Command finished")
	return result, nil
}
