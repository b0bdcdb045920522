package match

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type stubRef struct {
	aliases map[string][]string
	err     error
}

func (s *stubRef) CountryRows(context.Context, string) ([]store.CountryRow, error) { return nil, nil }
func (s *stubRef) PostalRequired(context.Context, string, string) (*bool, error)  { return nil, nil }
func (s *stubRef) SeedCountryRows(context.Context, []store.CountryRow) (int64, error) {
	return 0, nil
}

func (s *stubRef) CountryAliases(_ context.Context, code string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.aliases[code], nil
}

type stubTarget struct {
	gotCountries []string
	gotPostal    string
	gotLimit     int
	candidates   []model.Candidate
	err          error
	called       bool
}

func (s *stubTarget) Candidates(_ context.Context, countries []string, normPostal string, limit int) ([]model.Candidate, error) {
	s.called = true
	s.gotCountries = countries
	s.gotPostal = normPostal
	s.gotLimit = limit
	return s.candidates, s.err
}

func (s *stubTarget) SourceRecords(context.Context, int) ([]model.InputRecord, error) {
	return nil, nil
}

func TestResolver_ExpandsAliases(t *testing.T) {
	target := &stubTarget{candidates: []model.Candidate{{ID: 1}}}
	r := &Resolver{
		Ref:    &stubRef{aliases: map[string][]string{"US": {"US", "USA"}}},
		Target: target,
	}

	got, err := r.Resolve(context.Background(), "us", "123 45")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"US", "USA"}, target.gotCountries)
	assert.Equal(t, "12345", target.gotPostal)
	assert.Equal(t, CandidateLimit, target.gotLimit)
}

func TestResolver_DedupesTokensPreservingOrder(t *testing.T) {
	target := &stubTarget{}
	r := &Resolver{
		Ref:    &stubRef{aliases: map[string][]string{"USA": {"US", "USA"}}},
		Target: target,
	}

	_, err := r.Resolve(context.Background(), "USA", "12345")
	require.NoError(t, err)
	assert.Equal(t, []string{"USA", "US"}, target.gotCountries)
}

func TestResolver_EmptyCountrySkipsQuery(t *testing.T) {
	target := &stubTarget{}
	r := &Resolver{Ref: &stubRef{}, Target: target}

	got, err := r.Resolve(context.Background(), "  ", "12345")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, target.called)
}

func TestResolver_EmptyPostalSkipsQuery(t *testing.T) {
	target := &stubTarget{}
	r := &Resolver{Ref: &stubRef{}, Target: target}

	got, err := r.Resolve(context.Background(), "US", " - ")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, target.called)
}

func TestResolver_AliasFailureDegradesToInputToken(t *testing.T) {
	target := &stubTarget{}
	r := &Resolver{
		Ref:    &stubRef{err: errors.New("connection reset")},
		Target: target,
	}

	_, err := r.Resolve(context.Background(), "US", "12345")
	require.NoError(t, err)
	assert.Equal(t, []string{"US"}, target.gotCountries)
}

func TestResolver_TargetErrorSurfaces(t *testing.T) {
	target := &stubTarget{err: errors.New("relation does not exist")}
	r := &Resolver{Ref: &stubRef{}, Target: target}

	_, err := r.Resolve(context.Background(), "US", "12345")
	assert.Error(t, err)
}
