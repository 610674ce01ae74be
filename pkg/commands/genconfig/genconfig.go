package genconfig

import (
	"path/filepath"

	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/config"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/logging"
)

// GenConfigOptions holds options for the config command
type GenConfigOptions struct {
	// Format of the effective configuration, toml or yaml
	Format string

	// Template outputs the commented default file instead of the
	// effective configuration
	Template bool

	// Write saves the template as config.toml in the config directory
	// unless a config file is already there
	Write bool
}

// GenConfigResult holds the rendered configuration
type GenConfigResult struct {
	ConfigContent string
	FileWritten   string
	Skipped       string
}

// GenConfig renders the effective configuration, or the default template
func GenConfig(env *commands.Env, opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	if !opts.Template && !opts.Write {
		data, err := config.Marshal(env.Config, opts.Format)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("format", opts.Format).Msg("Rendered effective config")
		return &GenConfigResult{ConfigContent: string(data)}, nil
	}

	result := &GenConfigResult{ConfigContent: config.GenerateConfigContent()}
	if !opts.Write {
		return result, nil
	}

	dir := env.Paths.ConfigDir()
	if existing := findConfigFile(env, dir); existing != "" {
		logger.Warn().Str("path", existing).Msg("Config file already exists, skipping")
		result.Skipped = existing
		return result, nil
	}

	if err := env.FS.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrWrite, "failed to create directory %s", dir).WithDetail("path", dir)
	}
	target := filepath.Join(dir, config.ConfigFileNames[0])
	if err := env.FS.WriteFile(target, []byte(result.ConfigContent), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrWrite, "failed to write config to %s", target).WithDetail("path", target)
	}

	logger.Info().Str("path", target).Msg("Written config file")
	result.FileWritten = target
	return result, nil
}

func findConfigFile(env *commands.Env, dir string) string {
	for _, name := range config.ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := env.FS.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
