package commands

import (
	"github.com/arthur-debert/ccstart/pkg/cache"
	"github.com/arthur-debert/ccstart/pkg/config"
	"github.com/arthur-debert/ccstart/pkg/paths"
	"github.com/arthur-debert/ccstart/pkg/source"
	"github.com/arthur-debert/ccstart/pkg/types"
)

// Env carries the dependencies every command flow needs. It is built once
// at startup. The provider source is opened on first use so commands that
// only look at the materialized directory work without one.
type Env struct {
	Config *config.Config
	Paths  paths.Paths
	FS     types.FS

	source types.ProviderSource
}

// NewEnv creates an Env
func NewEnv(cfg *config.Config, p paths.Paths, fs types.FS) *Env {
	return &Env{Config: cfg, Paths: p, FS: fs}
}

// WithSource sets the provider source, replacing the configured one
func (e *Env) WithSource(src types.ProviderSource) *Env {
	e.source = src
	return e
}

// Source returns the provider source, opening it on first call
func (e *Env) Source() (types.ProviderSource, error) {
	if e.source != nil {
		return e.source, nil
	}
	src, err := source.Open(e.Config, e.Paths, e.FS)
	if err != nil {
		return nil, err
	}
	e.source = src
	return src, nil
}

// Cache returns a cache manager for the materialized directory
func (e *Env) Cache() *cache.Manager {
	return cache.New(e.FS, e.Paths.SeparatedDir())
}

// Close releases the provider source if one was opened
func (e *Env) Close() error {
	if e.source == nil {
		return nil
	}
	return e.source.Close()
}
