package config

import (
	"github.com/arthur-debert/ccstart/pkg/errors"
)

// SourceMode selects the provider source implementation
type SourceMode string

const (
	SourceSQLite SourceMode = "sqlite"
	SourceJSON   SourceMode = "json"
)

// ColorMode controls styled terminal output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the effective ccstart configuration
type Config struct {
	Source Source `koanf:"source" toml:"source" yaml:"source"`
	Paths  Paths  `koanf:"paths" toml:"paths" yaml:"paths"`
	Launch Launch `koanf:"launch" toml:"launch" yaml:"launch"`
	Output Output `koanf:"output" toml:"output" yaml:"output"`
}

// Source holds provider source settings
type Source struct {
	Mode     SourceMode `koanf:"mode" toml:"mode" yaml:"mode"`
	AppType  string     `koanf:"app_type" toml:"app_type" yaml:"app_type"`
	Database string     `koanf:"database" toml:"database" yaml:"database"`
}

// Paths holds user-configurable locations. ccstart's own log and config
// directories follow XDG and are not configurable here.
type Paths struct {
	BaseDir string `koanf:"base_dir" toml:"base_dir" yaml:"base_dir"`
}

// Launch describes how the external program is started
type Launch struct {
	Command      string `koanf:"command" toml:"command" yaml:"command"`
	SettingsFlag string `koanf:"settings_flag" toml:"settings_flag" yaml:"settings_flag"`
}

// Output holds terminal output settings
type Output struct {
	Color ColorMode `koanf:"color" toml:"color" yaml:"color"`
}

// Validate rejects values no component can act on
func (c *Config) Validate() error {
	switch c.Source.Mode {
	case SourceSQLite, SourceJSON:
	default:
		return errors.Newf(errors.ErrConfigLoad, "invalid source.mode %q (want sqlite or json)", c.Source.Mode).
			WithDetail("key", "source.mode")
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Newf(errors.ErrConfigLoad, "invalid output.color %q (want auto, always or never)", c.Output.Color).
			WithDetail("key", "output.color")
	}

	if c.Source.AppType == "" {
		return errors.New(errors.ErrConfigLoad, "source.app_type must not be empty").WithDetail("key", "source.app_type")
	}
	if c.Launch.Command == "" {
		return errors.New(errors.ErrConfigLoad, "launch.command must not be empty").WithDetail("key", "launch.command")
	}
	return nil
}
