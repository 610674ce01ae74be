package testutil

import (
	"database/sql"
	"encoding/json"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ccstart/pkg/types"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

// Provider describes one provider row for fixture builders
type Provider struct {
	ID        string
	Name      string
	Settings  string // raw JSON, empty means SQL NULL / omitted
	AppType   string // defaults to "claude"
	SortIndex int
}

// Record converts the fixture into the record a source would return
func (p Provider) Record() types.ProviderRecord {
	rec := types.ProviderRecord{ID: p.ID, Name: p.Name}
	if p.Settings != "" {
		rec.Settings = json.RawMessage(p.Settings)
	}
	return rec
}

// DocumentJSON renders providers as a cc-switch config.json document.
// Providers with a non-default AppType go under their own namespace.
func DocumentJSON(t *testing.T, providers ...Provider) string {
	t.Helper()

	namespaces := map[string]map[string]interface{}{}
	for _, p := range providers {
		appType := p.AppType
		if appType == "" {
			appType = "claude"
		}
		if namespaces[appType] == nil {
			namespaces[appType] = map[string]interface{}{}
		}

		entry := map[string]interface{}{"id": p.ID, "name": p.Name}
		if p.Settings != "" {
			entry["settingsConfig"] = json.RawMessage(p.Settings)
		}
		key := p.ID
		if key == "" {
			key = p.Name
		}
		namespaces[appType][key] = entry
	}

	doc := map[string]interface{}{}
	for appType, entries := range namespaces {
		doc[appType] = map[string]interface{}{"providers": entries}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to build document: %v", err)
	}
	return string(data)
}

// ProvidersSchema is the subset of the cc-switch providers table ccstart reads
const ProvidersSchema = `CREATE TABLE providers (
	id TEXT NOT NULL,
	app_type TEXT NOT NULL,
	name TEXT NOT NULL,
	settings_config TEXT,
	sort_index INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (id, app_type)
)`

// CreateProviderDB creates a SQLite database at path holding providers
func CreateProviderDB(t *testing.T, path string, providers ...Provider) {
	t.Helper()

	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("Failed to resolve database path: %v", err)
	}
	// plain paths are cut at '?' by the driver, URIs are not
	dsn := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=rwc"}
	db, err := sql.Open("sqlite", dsn.String())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if _, err := db.Exec(ProvidersSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	for _, p := range providers {
		appType := p.AppType
		if appType == "" {
			appType = "claude"
		}
		var settings interface{}
		if p.Settings != "" {
			settings = p.Settings
		}
		_, err := db.Exec(
			`INSERT INTO providers (id, app_type, name, settings_config, sort_index) VALUES (?, ?, ?, ?, ?)`,
			p.ID, appType, p.Name, settings, p.SortIndex,
		)
		if err != nil {
			t.Fatalf("Failed to insert provider %q: %v", p.Name, err)
		}
	}
}
