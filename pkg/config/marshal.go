package config

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Marshal
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Marshal renders cfg in the given format
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatTOML, "":
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrSerialization, "failed to encode configuration as TOML")
		}
		return buf.Bytes(), nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrSerialization, "failed to encode configuration as YAML")
		}
		return data, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format %q (want toml or yaml)", format)
	}
}
