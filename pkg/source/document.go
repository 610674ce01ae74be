package source

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/arthur-debert/ccstart/pkg/materialize"
	"github.com/arthur-debert/ccstart/pkg/types"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Document reads providers from a JSON document shaped as
// {"<app_type>": {"providers": {"<id>": {"id", "name", "settingsConfig"}}}}.
type Document struct {
	fs      types.FS
	path    string
	appType string
	logger  zerolog.Logger
}

var _ types.ProviderSource = (*Document)(nil)

// NewDocument creates a document source. The file is read on every query.
func NewDocument(fs types.FS, path, appType string) *Document {
	return &Document{
		fs:      fs,
		path:    path,
		appType: appType,
		logger:  logging.GetLogger("source.document"),
	}
}

// parseError reports a document that does not follow the expected schema
func (d *Document) parseError(format string, args ...interface{}) *errors.CodedError {
	return errors.Newf(errors.ErrSourceRead, format, args...).
		WithDetail("path", d.path).
		WithDetail("kind", "parse")
}

func (d *Document) load() ([]types.ProviderRecord, error) {
	data, err := d.fs.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrSourceRead, "config file not found: %s", d.path).
				WithDetail("path", d.path).
				WithDetail("hint", "run cc-switch once to create it")
		}
		return nil, errors.Wrapf(err, errors.ErrSourceRead, "failed to read %s", d.path).WithDetail("path", d.path)
	}

	if !gjson.ValidBytes(data) {
		return nil, d.parseError("%s is not valid JSON", d.path)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, d.parseError("%s: top level value is not an object", d.path)
	}

	// iterate instead of using a path so app types containing path syntax work
	var namespace gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == d.appType {
			namespace = value
			return false
		}
		return true
	})
	if !namespace.Exists() || !namespace.IsObject() {
		return nil, d.parseError("%s: missing %q section", d.path, d.appType)
	}

	providers := namespace.Get("providers")
	if !providers.Exists() || !providers.IsObject() {
		return nil, d.parseError("%s: missing %s.providers object", d.path, d.appType)
	}

	var records []types.ProviderRecord
	var perr error
	providers.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			perr = d.parseError("%s: provider %q is not an object", d.path, key.String())
			return false
		}
		settings := value.Get("settingsConfig")
		if !settings.Exists() {
			perr = d.parseError("%s: provider %q has no settingsConfig", d.path, key.String())
			return false
		}
		records = append(records, types.ProviderRecord{
			ID:       value.Get("id").String(),
			Name:     value.Get("name").String(),
			Settings: json.RawMessage(settings.Raw),
		})
		return true
	})
	if perr != nil {
		return nil, perr
	}

	sort.SliceStable(records, func(i, j int) bool {
		ni, nj := materialize.DisplayName(records[i]), materialize.DisplayName(records[j])
		if ni != nj {
			return ni < nj
		}
		return records[i].ID < records[j].ID
	})

	d.logger.Debug().Str("path", d.path).Int("providers", len(records)).Msg("Loaded provider document")
	return records, nil
}

// ListAll returns every provider in the configured namespace
func (d *Document) ListAll(_ context.Context) ([]types.ProviderRecord, error) {
	return d.load()
}

// GetByName returns the first provider whose display name equals name
func (d *Document) GetByName(_ context.Context, name string) (types.ProviderRecord, bool, error) {
	records, err := d.load()
	if err != nil {
		return types.ProviderRecord{}, false, err
	}

	want := strings.TrimSpace(name)
	for _, rec := range records {
		if materialize.DisplayName(rec) == want {
			return rec, true, nil
		}
	}
	return types.ProviderRecord{}, false, nil
}

// ListNames returns the display names of all providers
func (d *Document) ListNames(ctx context.Context) ([]string, error) {
	records, err := d.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, materialize.DisplayName(rec))
	}
	return names, nil
}

// Describe returns the document path
func (d *Document) Describe() string {
	return "json document " + d.path
}

// Close is a no-op
func (d *Document) Close() error {
	return nil
}
