package testutil

import (
	"context"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/materialize"
	"github.com/arthur-debert/ccstart/pkg/types"
)

// StaticSource is an in-memory provider source. Records are returned in the
// order they were given.
type StaticSource struct {
	Records []types.ProviderRecord

	// Err, when set, is returned by every query
	Err error

	Closed bool
}

// NewStaticSource builds a source from fixture providers
func NewStaticSource(providers ...Provider) *StaticSource {
	s := &StaticSource{Records: []types.ProviderRecord{}}
	for _, p := range providers {
		s.Records = append(s.Records, p.Record())
	}
	return s
}

func (s *StaticSource) ListAll(_ context.Context) ([]types.ProviderRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]types.ProviderRecord, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

func (s *StaticSource) GetByName(_ context.Context, name string) (types.ProviderRecord, bool, error) {
	if s.Err != nil {
		return types.ProviderRecord{}, false, s.Err
	}
	want := strings.TrimSpace(name)
	for _, rec := range s.Records {
		if materialize.DisplayName(rec) == want {
			return rec, true, nil
		}
	}
	return types.ProviderRecord{}, false, nil
}

func (s *StaticSource) ListNames(_ context.Context) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	names := make([]string, 0, len(s.Records))
	for _, rec := range s.Records {
		names = append(names, materialize.DisplayName(rec))
	}
	return names, nil
}

func (s *StaticSource) Describe() string {
	return "static source"
}

func (s *StaticSource) Close() error {
	s.Closed = true
	return nil
}

var _ types.ProviderSource = (*StaticSource)(nil)
