package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fakeSource struct {
	records []model.InputRecord
	err     error
}

func (s *fakeSource) Records(context.Context) ([]model.InputRecord, error) {
	return s.records, s.err
}

// fakeRef serves US/CA as the only valid (country, region) pair.
type fakeRef struct {
	aliasErr error
}

func (f *fakeRef) CountryRows(_ context.Context, code string) ([]store.CountryRow, error) {
	if code == "US" || code == "USA" {
		return []store.CountryRow{
			{Alpha2: "US", Alpha3: "USA", RegionCode: "CA", RequiresRegion: true, RequiresPostal: true},
		}, nil
	}
	return nil, nil
}

func (f *fakeRef) PostalRequired(_ context.Context, country, region string) (*bool, error) {
	required := country == "US"
	return &required, nil
}

func (f *fakeRef) CountryAliases(_ context.Context, code string) ([]string, error) {
	if f.aliasErr != nil {
		return nil, f.aliasErr
	}
	if code == "US" || code == "USA" {
		return []string{"US", "USA"}, nil
	}
	return nil, nil
}

func (f *fakeRef) SeedCountryRows(_ context.Context, rows []store.CountryRow) (int64, error) {
	return int64(len(rows)), nil
}

type fakeTarget struct {
	candidates []model.Candidate
	err        error
	calls      int
}

func (f *fakeTarget) Candidates(context.Context, []string, string, int) ([]model.Candidate, error) {
	f.calls++
	return f.candidates, f.err
}

func (f *fakeTarget) SourceRecords(context.Context, int) ([]model.InputRecord, error) {
	return nil, errors.New("not used")
}

type resultCall struct {
	action    model.UpsertAction
	matchedID int
	status    model.Status
	remarks   string
	rec       model.InputRecord
}

type fakeResults struct {
	existingID int
	findErr    error
	updateErr  error
	insertErr  error
	calls      []resultCall
}

func (f *fakeResults) FindExisting(_ context.Context, rec model.InputRecord) (int, bool, error) {
	if f.findErr != nil {
		return 0, false, f.findErr
	}
	return f.existingID, f.existingID != 0, nil
}

func (f *fakeResults) UpdateResult(_ context.Context, id int, rec model.InputRecord, matchedID int, externalID string, status model.Status, remarks string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.calls = append(f.calls, resultCall{model.ActionUpdate, matchedID, status, remarks, rec})
	return nil
}

func (f *fakeResults) InsertResult(_ context.Context, rec model.InputRecord, matchedID int, externalID string, status model.Status, remarks string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.calls = append(f.calls, resultCall{model.ActionInsert, matchedID, status, remarks, rec})
	return nil
}
