// Package store provides access to the three tables the pipeline touches:
// the read-only country/region/postal reference table, the customer master
// table being checked, and the result table holding per-record outcomes.
package store

import (
	"context"

	"github.com/sells-group/dataquality-cli/internal/model"
)

// CountryRow is one reference-table row for a (country, region)
// combination.
type CountryRow struct {
	Alpha2         string
	Alpha3         string
	RegionCode     string
	RequiresRegion bool
	RequiresPostal bool
}

// Mapping names the master table and its columns. All identifiers come
// from resolved configuration, never from record data.
type Mapping struct {
	Table   string
	ID      string
	Name    string
	Address string
	City    string
	Region  string
	Country string
	Postal  string
	DUNS    string

	ResultTable    string
	ReferenceTable string
}

// ReferenceStore reads the country/region/postal reference table.
// Query failures surface as errors; callers degrade them to "not found"
// verdicts rather than aborting the batch.
type ReferenceStore interface {
	// CountryRows returns every reference row for an alpha-2 or alpha-3
	// country code. Codes of any other length yield no rows.
	CountryRows(ctx context.Context, code string) ([]CountryRow, error)

	// PostalRequired returns the requires-postal flag for a
	// (country, region) combination, or nil when the combination has no
	// reference row.
	PostalRequired(ctx context.Context, country, region string) (*bool, error)

	// CountryAliases returns the alpha-2 and alpha-3 codes equivalent to
	// the given code, from the first reference row matching either column.
	CountryAliases(ctx context.Context, code string) ([]string, error)

	// SeedCountryRows loads reference rows, updating existing
	// (alpha2, region) combinations in place.
	SeedCountryRows(ctx context.Context, rows []CountryRow) (int64, error)
}

// TargetStore queries the customer master table under check.
type TargetStore interface {
	// Candidates returns master rows whose normalized country is in the
	// token set and whose normalized postal equals normPostal, capped at
	// limit.
	Candidates(ctx context.Context, countries []string, normPostal string, limit int) ([]model.Candidate, error)

	// SourceRecords reads up to limit master rows as pipeline input.
	SourceRecords(ctx context.Context, limit int) ([]model.InputRecord, error)
}

// ResultStore persists one outcome row per processed record.
type ResultStore interface {
	// FindExisting looks up a result row by exact case-insensitive match
	// on the full input tuple (postal compared hyphen/space-stripped).
	FindExisting(ctx context.Context, rec model.InputRecord) (id int, found bool, err error)

	// UpdateResult overwrites an existing result row with the current
	// field values, matched candidate (0 = none), status, and remarks.
	UpdateResult(ctx context.Context, id int, rec model.InputRecord, matchedID int, externalID string, status model.Status, remarks string) error

	// InsertResult appends a new result row.
	InsertResult(ctx context.Context, rec model.InputRecord, matchedID int, externalID string, status model.Status, remarks string) error
}

// Store is the full persistence surface used by the pipeline.
type Store interface {
	ReferenceStore
	TargetStore
	ResultStore

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
