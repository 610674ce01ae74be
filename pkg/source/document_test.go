package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocument(t *testing.T, content string) *Document {
	t.Helper()
	mfs := testutil.NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/base", 0755))
	require.NoError(t, mfs.WriteFile("/base/config.json", []byte(content), 0644))
	return NewDocument(mfs, "/base/config.json", "claude")
}

func TestDocumentListAll(t *testing.T) {
	doc := newDocument(t, `{
		"claude": {
			"current": "p2",
			"providers": {
				"p2": {"id": "p2", "name": "zeta", "settingsConfig": {"b": 1, "a": 2}},
				"p1": {"id": "p1", "name": "  alpha  ", "settingsConfig": null},
				"p3": {"id": "p3", "settingsConfig": {"env": {}}, "websiteUrl": "https://x"}
			}
		},
		"codex": {"providers": {"c1": {"id": "c1", "name": "other", "settingsConfig": {}}}}
	}`)

	records, err := doc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "  alpha  ", records[0].Name, "names are kept verbatim")
	assert.Equal(t, "null", string(records[0].Settings))
	assert.Equal(t, "p3", records[1].ID, "missing name falls back to id for ordering")
	assert.Equal(t, "", records[1].Name)
	assert.Equal(t, `{"b": 1, "a": 2}`, string(records[2].Settings), "settings bytes are verbatim")
}

func TestDocumentListNames(t *testing.T) {
	doc := newDocument(t, testutil.DocumentJSON(t,
		testutil.Provider{ID: "2", Name: "b", Settings: `{}`},
		testutil.Provider{ID: "1", Name: "a", Settings: `{}`},
		testutil.Provider{ID: "3", Settings: `{}`},
	))

	names, err := doc.ListNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "a", "b"}, names)
}

func TestDocumentGetByName(t *testing.T) {
	doc := newDocument(t, testutil.DocumentJSON(t,
		testutil.Provider{ID: "1", Name: "packy", Settings: `{"model":"x"}`},
	))

	rec, found, err := doc.GetByName(context.Background(), "packy")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", rec.ID)

	_, found, err = doc.GetByName(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"not json", `{"claude":`, "not valid JSON"},
		{"not an object", `[1,2]`, "not an object"},
		{"missing namespace", `{"codex":{"providers":{}}}`, `missing "claude" section`},
		{"missing providers", `{"claude":{"current":""}}`, "missing claude.providers"},
		{"provider not an object", `{"claude":{"providers":{"a":"b"}}}`, `provider "a" is not an object`},
		{"missing settings", `{"claude":{"providers":{"a":{"id":"a","name":"a"}}}}`, `provider "a" has no settingsConfig`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDocument(t, tt.content)
			_, err := doc.ListAll(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrSourceRead))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDocumentMissingFile(t *testing.T) {
	doc := NewDocument(testutil.NewMemoryFS(), filepath.Join("/nowhere", "config.json"), "claude")

	_, err := doc.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceRead))
	assert.NotEmpty(t, errors.GetErrorDetails(err)["hint"])

	_, _, err = doc.GetByName(context.Background(), "x")
	assert.Error(t, err)
	assert.NoError(t, doc.Close())
}
