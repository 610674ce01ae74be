package source

import (
	"github.com/arthur-debert/ccstart/pkg/config"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/paths"
	"github.com/arthur-debert/ccstart/pkg/types"
)

// Open returns the provider source selected by cfg.Source.Mode
func Open(cfg *config.Config, p paths.Paths, fs types.FS) (types.ProviderSource, error) {
	switch cfg.Source.Mode {
	case config.SourceJSON:
		return NewDocument(fs, p.ConfigJSONPath(), cfg.Source.AppType), nil
	case config.SourceSQLite:
		return NewSQLite(p.DatabasePath(), cfg.Source.AppType)
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unknown source mode %q", cfg.Source.Mode)
	}
}
