package update

import (
	"context"

	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/arthur-debert/ccstart/pkg/materialize"
)

// Written is one file produced by Update
type Written struct {
	Name string
	Path string
}

// Result summarizes an Update run
type Result struct {
	// Source describes where providers were read from
	Source string

	// Empty is set when the source had no providers; nothing was touched.
	Empty bool

	Written []Written
	Removed []string

	// CleanupErr holds stale-file removals that failed. Written files are
	// valid even when it is set.
	CleanupErr error
}

// Update rewrites the settings file of every provider in the source and
// removes files for providers that no longer exist.
func Update(ctx context.Context, env *commands.Env) (*Result, error) {
	log := logging.GetLogger("commands.update")
	log.Debug().Str("command", "Update").Msg("Executing command")

	src, err := env.Source()
	if err != nil {
		return nil, err
	}
	result := &Result{Source: src.Describe(), Written: []Written{}, Removed: []string{}}

	records, err := src.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		log.Warn().Str("source", result.Source).Msg("Source has no providers, nothing to update")
		result.Empty = true
		return result, nil
	}

	entries := materialize.Extract(records)
	mgr := env.Cache()
	defer logging.LogOperationStart(log, "update providers")()
	for _, e := range entries {
		path, err := mgr.ForceWrite(e)
		if err != nil {
			return nil, err
		}
		result.Written = append(result.Written, Written{Name: e.UniqueName, Path: path})
	}

	removed, err := mgr.CleanupStale(materialize.Names(entries))
	if removed != nil {
		result.Removed = removed
	}
	result.CleanupErr = err

	log.Info().
		Int("written", len(result.Written)).
		Int("removed", len(result.Removed)).
		Msg("Command finished")
	return result, nil
}
