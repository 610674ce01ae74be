package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "CCSTART_"

// ConfigFileNames are tried in order inside the config directory; the first
// one found is loaded.
var ConfigFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// LoadOptions control where configuration comes from
type LoadOptions struct {
	// ConfigDir holds the user config file. Empty skips the file layer.
	ConfigDir string

	// Overrides are dotted keys set from command-line flags
	Overrides map[string]interface{}
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file
	if path := FindConfigFile(opts.ConfigDir); path != "" {
		parser := koanf.Parser(toml.Parser())
		if filepath.Ext(path) != ".toml" {
			parser = yaml.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded user config")
	}

	// 3. Environment, CCSTART_SOURCE_APP_TYPE -> source.app_type
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		section, rest, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_")
		if !ok {
			return "", nil
		}
		return section + "." + rest, value
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Flag overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply flag overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				normalizeEnumHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("source", string(cfg.Source.Mode)).
		Str("app_type", cfg.Source.AppType).
		Str("base_dir", cfg.Paths.BaseDir).
		Msg("Configuration loaded")
	return &cfg, nil
}

// FindConfigFile returns the first existing config file in dir, or ""
func FindConfigFile(dir string) string {
	if dir == "" {
		return ""
	}
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// normalizeEnumHookFunc trims and lower-cases values decoded into the
// enumerated string types so "SQLite " and "sqlite" mean the same thing.
func normalizeEnumHookFunc() mapstructure.DecodeHookFunc {
	sourceMode := reflect.TypeOf(SourceMode(""))
	colorMode := reflect.TypeOf(ColorMode(""))

	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || (t != sourceMode && t != colorMode) {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		return strings.ToLower(strings.TrimSpace(s)), nil
	}
}
