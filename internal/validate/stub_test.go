package validate

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// stubRef is an in-memory ReferenceStore for validator tests.
type stubRef struct {
	rows        map[string][]store.CountryRow
	postalReq   map[string]*bool
	rowsErr     error
	postalErr   error
	aliasErr    error
	aliasResult []string
}

func (s *stubRef) CountryRows(_ context.Context, code string) ([]store.CountryRow, error) {
	if s.rowsErr != nil {
		return nil, s.rowsErr
	}
	return s.rows[code], nil
}

func (s *stubRef) PostalRequired(_ context.Context, country, region string) (*bool, error) {
	if s.postalErr != nil {
		return nil, s.postalErr
	}
	return s.postalReq[country+"|"+region], nil
}

func (s *stubRef) CountryAliases(_ context.Context, code string) ([]string, error) {
	if s.aliasErr != nil {
		return nil, s.aliasErr
	}
	return s.aliasResult, nil
}

func (s *stubRef) SeedCountryRows(_ context.Context, rows []store.CountryRow) (int64, error) {
	return int64(len(rows)), nil
}

func boolPtr(b bool) *bool { return &b }
