// Package materialize turns provider records into uniquely named entries.
//
// Output order depends only on the records' content, never on the order a
// source produced them in, so repeated runs over the same data always assign
// the same unique name to the same provider.
package materialize

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/codec"
	"github.com/arthur-debert/ccstart/pkg/types"
)

// DefaultName is used when a record has neither a name nor an id.
const DefaultName = "default"

// DisplayName applies the fallback chain: trimmed name, trimmed id, "default".
func DisplayName(rec types.ProviderRecord) string {
	if name := strings.TrimSpace(rec.Name); name != "" {
		return name
	}
	if id := strings.TrimSpace(rec.ID); id != "" {
		return id
	}
	return DefaultName
}

// Dedupe resolves collisions. The first occurrence of a name is kept; the
// Nth occurrence (N >= 2) becomes "<name>-<N>". Output has the same length
// and index correspondence as names.
func Dedupe(names []string) []string {
	counts := make(map[string]int, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		counts[name]++
		if n := counts[name]; n > 1 {
			result = append(result, fmt.Sprintf("%s-%d", name, n))
			continue
		}
		result = append(result, name)
	}
	return result
}

// Extract orders records by display name, resolves collisions and encodes
// the resulting names. Ties on display name are broken by id and then by
// settings bytes so that the output is fully reproducible.
func Extract(records []types.ProviderRecord) []types.Entry {
	type item struct {
		name string
		rec  types.ProviderRecord
	}

	items := make([]item, len(records))
	for i, rec := range records {
		items[i] = item{name: DisplayName(rec), rec: rec}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.name != b.name {
			return a.name < b.name
		}
		if a.rec.ID != b.rec.ID {
			return a.rec.ID < b.rec.ID
		}
		return bytes.Compare(a.rec.Settings, b.rec.Settings) < 0
	})

	baseNames := make([]string, len(items))
	for i, it := range items {
		baseNames[i] = it.name
	}
	unique := Dedupe(baseNames)

	entries := make([]types.Entry, len(items))
	for i, it := range items {
		entries[i] = types.Entry{
			OriginalName: it.name,
			UniqueName:   unique[i],
			Token:        codec.Encode(unique[i]),
			ID:           it.rec.ID,
			Settings:     it.rec.Settings,
		}
	}
	return entries
}

// EntryFor builds the entry for a single record looked up by name, where no
// collision resolution applies.
func EntryFor(rec types.ProviderRecord) types.Entry {
	name := DisplayName(rec)
	return types.Entry{
		OriginalName: name,
		UniqueName:   name,
		Token:        codec.Encode(name),
		ID:           rec.ID,
		Settings:     rec.Settings,
	}
}

// Names returns the unique names of entries, in order.
func Names(entries []types.Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.UniqueName
	}
	return names
}
