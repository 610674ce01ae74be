package sync

import (
	"context"

	"github.com/arthur-debert/ccstart/pkg/cache"
	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/arthur-debert/ccstart/pkg/materialize"
)

// Result summarizes a Sync run. Each slice holds unique provider names.
type Result struct {
	Source    string
	Empty     bool
	Added     []string
	Updated   []string
	Unchanged []string
	Removed   []string

	// CleanupErr holds stale-file removals that failed
	CleanupErr error
}

// Changed reports whether the run touched any file
func (r *Result) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Removed) > 0
}

// Sync brings the separated directory in line with the source, writing
// only files whose content differs. An empty source leaves the directory
// untouched, as with update.
func Sync(ctx context.Context, env *commands.Env) (*Result, error) {
	log := logging.GetLogger("commands.sync")
	log.Debug().Str("command", "Sync").Msg("Executing command")

	src, err := env.Source()
	if err != nil {
		return nil, err
	}

	records, err := src.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Source:    src.Describe(),
		Added:     []string{},
		Updated:   []string{},
		Unchanged: []string{},
		Removed:   []string{},
	}

	if len(records) == 0 {
		log.Warn().Str("source", result.Source).Msg("Source has no providers, nothing to sync")
		result.Empty = true
		return result, nil
	}

	entries := materialize.Extract(records)
	mgr := env.Cache()
	defer logging.LogOperationStart(log, "sync providers")()
	for _, e := range entries {
		_, outcome, err := mgr.Reconcile(e)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case cache.OutcomeAdded:
			result.Added = append(result.Added, e.UniqueName)
		case cache.OutcomeUpdated:
			result.Updated = append(result.Updated, e.UniqueName)
		default:
			result.Unchanged = append(result.Unchanged, e.UniqueName)
		}
	}

	removed, err := mgr.CleanupStale(materialize.Names(entries))
	if removed != nil {
		result.Removed = removed
	}
	result.CleanupErr = err

	log.Info().
		Int("added", len(result.Added)).
		Int("updated", len(result.Updated)).
		Int("unchanged", len(result.Unchanged)).
		Int("removed", len(result.Removed)).
		Msg("Command finished")
	return result, nil
}
