package commands

import (
	"context"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/logging"
	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// CompleteNames returns the candidates from names that start with prefix,
// compared case-insensitively. Order and duplicates are preserved.
func CompleteNames(names []string, prefix string) []string {
	matches := []string{}
	needle := fold.String(prefix)
	for _, name := range names {
		if needle == "" || strings.HasPrefix(fold.String(name), needle) {
			matches = append(matches, name)
		}
	}
	return matches
}

// ProviderCompletions lists provider names from the source for shell
// completion. Failures are logged and produce no candidates.
func ProviderCompletions(ctx context.Context, env *Env, prefix string) []string {
	logger := logging.GetLogger("commands.complete")

	src, err := env.Source()
	if err != nil {
		logger.Debug().Err(err).Msg("No source for completion")
		return []string{}
	}
	names, err := src.ListNames(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("Failed to list names for completion")
		return []string{}
	}
	return CompleteNames(names, prefix)
}
