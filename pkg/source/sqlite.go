package source

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/arthur-debert/ccstart/pkg/types"
	"github.com/rs/zerolog"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

const (
	listQuery = `SELECT id, name, settings_config FROM providers
		WHERE app_type = ? ORDER BY sort_index, name`
	getQuery = `SELECT id, name, settings_config FROM providers
		WHERE app_type = ? AND name = ? ORDER BY sort_index, name LIMIT 1`
	namesQuery = `SELECT name FROM providers
		WHERE app_type = ? ORDER BY sort_index, name`
)

// SQLite reads providers from the cc-switch database. Every query opens its
// own read-only connection and closes it before returning, so ccstart never
// holds the database while cc-switch is writing to it.
type SQLite struct {
	path    string
	appType string
	logger  zerolog.Logger
}

var _ types.ProviderSource = (*SQLite)(nil)

// NewSQLite checks that the database exists and returns a source for it
func NewSQLite(path, appType string) (*SQLite, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrSourceRead, "database not found: %s", path).
				WithDetail("path", path).
				WithDetail("hint", "run cc-switch once to create it")
		}
		return nil, errors.Wrapf(err, errors.ErrSourceRead, "failed to access database %s", path)
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrSourceRead, "database path is a directory: %s", path)
	}

	return &SQLite{
		path:    path,
		appType: appType,
		logger:  logging.GetLogger("source.sqlite"),
	}, nil
}

// dsn returns a read-only file: URI for the database. The path is
// percent-escaped so '?', '#' and '%' in directory names stay part of it.
func (s *SQLite) dsn() string {
	p := s.path
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String()
}

// withDB runs fn against a fresh read-only connection
func (s *SQLite) withDB(query string, fn func(db *sql.DB) error) error {
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceRead, "failed to open database %s", s.path)
	}
	defer func() { _ = db.Close() }()

	if err := fn(db); err != nil {
		return errors.Wrapf(err, errors.ErrSourceRead, "%s query failed on %s", query, s.path).
			WithDetail("query", query)
	}
	return nil
}

// decodeSettings keeps valid JSON verbatim; NULL or malformed values become
// JSON null so one bad row never hides the others.
func (s *SQLite) decodeSettings(id, name string, raw sql.NullString) json.RawMessage {
	if !raw.Valid {
		s.logger.Warn().Str("id", id).Str("name", name).Msg("Provider has no settings, using null")
		return nil
	}
	if !json.Valid([]byte(raw.String)) {
		s.logger.Warn().Str("id", id).Str("name", name).Msg("Provider settings are not valid JSON, using null")
		return nil
	}
	return json.RawMessage(raw.String)
}

func (s *SQLite) scanRecord(scan func(dest ...any) error) (types.ProviderRecord, error) {
	var id, name string
	var settings sql.NullString
	if err := scan(&id, &name, &settings); err != nil {
		return types.ProviderRecord{}, err
	}
	return types.ProviderRecord{
		ID:       id,
		Name:     name,
		Settings: s.decodeSettings(id, name, settings),
	}, nil
}

// ListAll returns providers ordered by sort_index, then name
func (s *SQLite) ListAll(ctx context.Context) ([]types.ProviderRecord, error) {
	var records []types.ProviderRecord
	err := s.withDB("list", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, listQuery, s.appType)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			rec, err := s.scanRecord(rows.Scan)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("path", s.path).Int("providers", len(records)).Msg("Loaded providers from database")
	return records, nil
}

// GetByName looks a provider up by its exact name
func (s *SQLite) GetByName(ctx context.Context, name string) (types.ProviderRecord, bool, error) {
	var rec types.ProviderRecord
	found := false
	err := s.withDB("get", func(db *sql.DB) error {
		var err error
		rec, err = s.scanRecord(db.QueryRowContext(ctx, getQuery, s.appType, name).Scan)
		switch {
		case stderrors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return types.ProviderRecord{}, false, err
	}
	return rec, found, nil
}

// ListNames returns provider names in ListAll order
func (s *SQLite) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.withDB("names", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, namesQuery, s.appType)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Describe returns the database path
func (s *SQLite) Describe() string {
	return "sqlite database " + s.path
}

// Close is a no-op; connections never outlive a query
func (s *SQLite) Close() error {
	return nil
}
