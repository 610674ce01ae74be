package list

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Format selects how names are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Result holds the materialized provider names
type Result struct {
	Dir   string   `json:"dir" yaml:"dir"`
	Names []string `json:"providers" yaml:"providers"`
}

// List returns the names of the providers that currently have a settings
// file. It reads only the separated directory, never the source. No files
// at all is a NOT_FOUND error.
func List(env *commands.Env) (*Result, error) {
	log := logging.GetLogger("commands.list")
	log.Debug().Str("command", "List").Msg("Executing command")

	mgr := env.Cache()
	names, err := mgr.ListNames()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrNotFound, "no provider settings found").
			WithDetail("path", mgr.Dir()).
			WithDetail("hint", "run 'ccstart init' or 'ccstart update' first")
	}

	log.Info().Int("providers", len(names)).Msg("Command finished")
	return &Result{Dir: mgr.Dir(), Names: names}, nil
}

// shellSpecial are the characters that make a name unsafe to paste into a
// shell unquoted
const shellSpecial = " \t\n\"'\\*?[](){}$&|;<>"

// QuoteName wraps name in double quotes when it contains whitespace or a
// shell metacharacter. The name itself is not escaped.
func QuoteName(name string) string {
	if strings.ContainsAny(name, shellSpecial) {
		return `"` + name + `"`
	}
	return name
}

// Write renders r to w in the given format
func Write(w io.Writer, r *Result, format Format) error {
	switch format {
	case FormatText, "":
		for _, name := range r.Names {
			if _, err := fmt.Fprintln(w, QuoteName(name)); err != nil {
				return errors.Wrap(err, errors.ErrWrite, "failed to write output")
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, errors.ErrSerialization, "failed to encode json")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, errors.ErrSerialization, "failed to encode yaml")
		}
		return enc.Close()
	default:
		return errors.Newf(errors.ErrInvalidInput, "unsupported format %q (want text, json or yaml)", format).
			WithDetail("format", string(format))
	}
}
