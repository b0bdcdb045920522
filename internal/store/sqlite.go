package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/dataquality-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It backs local
// and demo runs where no Postgres master is reachable.
type SQLiteStore struct {
	db      *sql.DB
	mapping Mapping
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string, mapping Mapping) (*SQLiteStore, error) {
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := sdb.Exec(pragma); err != nil {
			sdb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sdb, mapping: mapping}, nil
}

func (s *SQLiteStore) migrationSQL() string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	alpha2code         TEXT NOT NULL,
	alpha3code         TEXT,
	regioncode         TEXT NOT NULL DEFAULT '',
	requiresregion     INTEGER NOT NULL DEFAULT 0,
	requirespostalcode INTEGER NOT NULL DEFAULT 0,
	UNIQUE (alpha2code, regioncode)
);

CREATE TABLE IF NOT EXISTS %[2]s (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	matchedid       INTEGER,
	name1           TEXT NOT NULL DEFAULT '',
	streetorhouse   TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	region          TEXT NOT NULL DEFAULT '',
	country         TEXT NOT NULL DEFAULT '',
	postalcode      TEXT NOT NULL DEFAULT '',
	dunsnumber      TEXT NOT NULL DEFAULT '',
	recordvalidated TEXT NOT NULL DEFAULT '',
	remarks         TEXT NOT NULL DEFAULT '',
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);
`, quoteSQLite(s.mapping.ReferenceTable), quoteSQLite(s.mapping.ResultTable))
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.migrationSQL())
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CountryRows(ctx context.Context, code string) ([]CountryRow, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	var column string
	switch len(key) {
	case 2:
		column = "alpha2code"
	case 3:
		column = "alpha3code"
	default:
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT COALESCE(alpha2code,''), COALESCE(alpha3code,''), COALESCE(regioncode,''), requiresregion, requirespostalcode FROM %s WHERE UPPER(%s) = ?",
		quoteSQLite(s.mapping.ReferenceTable), column,
	)
	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: country rows")
	}
	defer rows.Close()

	var out []CountryRow
	for rows.Next() {
		var r CountryRow
		if err := rows.Scan(&r.Alpha2, &r.Alpha3, &r.RegionCode, &r.RequiresRegion, &r.RequiresPostal); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan country row")
		}
		r.RegionCode = strings.ToUpper(strings.TrimSpace(r.RegionCode))
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: country rows iteration")
}

func (s *SQLiteStore) PostalRequired(ctx context.Context, country, region string) (*bool, error) {
	query := fmt.Sprintf(
		"SELECT requirespostalcode FROM %s WHERE UPPER(alpha2code) = ? AND UPPER(regioncode) = ? LIMIT 1",
		quoteSQLite(s.mapping.ReferenceTable),
	)
	var required bool
	err := s.db.QueryRowContext(ctx, query, strings.ToUpper(country), strings.ToUpper(region)).Scan(&required)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: postal required")
	}
	return &required, nil
}

func (s *SQLiteStore) CountryAliases(ctx context.Context, code string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT COALESCE(alpha2code,''), COALESCE(alpha3code,'') FROM %s WHERE UPPER(COALESCE(alpha2code,'')) = ? OR UPPER(COALESCE(alpha3code,'')) = ? LIMIT 1",
		quoteSQLite(s.mapping.ReferenceTable),
	)
	key := strings.ToUpper(strings.TrimSpace(code))
	var alpha2, alpha3 string
	err := s.db.QueryRowContext(ctx, query, key, key).Scan(&alpha2, &alpha3)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: country aliases")
	}

	var out []string
	for _, a := range []string{alpha2, alpha3} {
		if v := strings.ToUpper(strings.TrimSpace(a)); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *SQLiteStore) SeedCountryRows(ctx context.Context, rows []CountryRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (alpha2code, alpha3code, regioncode, requiresregion, requirespostalcode)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (alpha2code, regioncode) DO UPDATE SET
	alpha3code = excluded.alpha3code,
	requiresregion = excluded.requiresregion,
	requirespostalcode = excluded.requirespostalcode`,
		quoteSQLite(s.mapping.ReferenceTable),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin seed tx")
	}
	defer tx.Rollback()

	var total int64
	for _, r := range rows {
		res, err := tx.ExecContext(ctx, query,
			strings.ToUpper(r.Alpha2), strings.ToUpper(r.Alpha3), strings.ToUpper(r.RegionCode), r.RequiresRegion, r.RequiresPostal)
		if err != nil {
			return total, eris.Wrap(err, "sqlite: seed country rows")
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	if err := tx.Commit(); err != nil {
		return total, eris.Wrap(err, "sqlite: commit seed tx")
	}
	return total, nil
}

func (s *SQLiteStore) Candidates(ctx context.Context, countries []string, normPostal string, limit int) ([]model.Candidate, error) {
	if len(countries) == 0 || normPostal == "" {
		return nil, nil
	}

	m := s.mapping
	placeholders := make([]string, len(countries))
	args := make([]any, 0, len(countries)+2)
	for i, c := range countries {
		placeholders[i] = "?"
		args = append(args, strings.ToUpper(c))
	}
	args = append(args, strings.ToUpper(normPostal), limit)

	query := fmt.Sprintf(
		`SELECT %s, COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,'')
FROM %s
WHERE UPPER(COALESCE(%s,'')) IN (%s)
  AND REPLACE(REPLACE(UPPER(COALESCE(%s,'')), ' ', ''), '-', '') = ?
LIMIT ?`,
		quoteSQLite(m.ID), quoteSQLite(m.DUNS), quoteSQLite(m.Name), quoteSQLite(m.Address), quoteSQLite(m.City),
		quoteSQLite(m.Table),
		quoteSQLite(m.Country), strings.Join(placeholders, ", "),
		quoteSQLite(m.Postal),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: candidates")
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.Name, &c.Address, &c.City); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan candidate")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: candidates iteration")
}

func (s *SQLiteStore) SourceRecords(ctx context.Context, limit int) ([]model.InputRecord, error) {
	m := s.mapping
	query := fmt.Sprintf(
		`SELECT %s, COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,'')
FROM %s
ORDER BY %s
LIMIT ?`,
		quoteSQLite(m.ID), quoteSQLite(m.Name), quoteSQLite(m.Address), quoteSQLite(m.City), quoteSQLite(m.Region), quoteSQLite(m.Country), quoteSQLite(m.Postal), quoteSQLite(m.DUNS),
		quoteSQLite(m.Table),
		quoteSQLite(m.ID),
	)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: source records")
	}
	defer rows.Close()

	var out []model.InputRecord
	for rows.Next() {
		var r model.InputRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.City, &r.Region, &r.Country, &r.Postal, &r.ExternalID); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan source record")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: source records iteration")
}

func (s *SQLiteStore) FindExisting(ctx context.Context, rec model.InputRecord) (int, bool, error) {
	query := fmt.Sprintf(
		`SELECT id FROM %s
WHERE UPPER(COALESCE(name1,'')) = UPPER(?)
  AND UPPER(COALESCE(streetorhouse,'')) = UPPER(?)
  AND UPPER(COALESCE(city,'')) = UPPER(?)
  AND UPPER(COALESCE(region,'')) = UPPER(?)
  AND UPPER(COALESCE(country,'')) = UPPER(?)
  AND REPLACE(REPLACE(UPPER(COALESCE(postalcode,'')), ' ', ''), '-', '') = REPLACE(REPLACE(UPPER(?), ' ', ''), '-', '')
LIMIT 1`,
		quoteSQLite(s.mapping.ResultTable),
	)

	var id int
	err := s.db.QueryRowContext(ctx, query,
		strings.TrimSpace(rec.Name), strings.TrimSpace(rec.Address), strings.TrimSpace(rec.City),
		strings.TrimSpace(rec.Region), strings.TrimSpace(rec.Country), strings.TrimSpace(rec.Postal),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, eris.Wrap(err, "sqlite: find existing result")
	}
	return id, true, nil
}

func (s *SQLiteStore) UpdateResult(ctx context.Context, id int, rec model.InputRecord, matchedID int, externalID string, status model.Status, remarks string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET
	name1 = ?, streetorhouse = ?, city = ?, region = ?, country = ?, postalcode = ?,
	dunsnumber = ?, matchedid = ?, recordvalidated = ?, remarks = ?, updated_at = datetime('now')
WHERE id = ?`,
		quoteSQLite(s.mapping.ResultTable),
	)
	_, err := s.db.ExecContext(ctx, query,
		rec.Name, rec.Address, rec.City, rec.Region, rec.Country, rec.Postal,
		externalID, nullableID(matchedID), string(status), remarks, id,
	)
	return eris.Wrap(err, "sqlite: update result")
}

func (s *SQLiteStore) InsertResult(ctx context.Context, rec model.InputRecord, matchedID int, externalID string, status model.Status, remarks string) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (matchedid, name1, streetorhouse, city, region, country, postalcode, dunsnumber, recordvalidated, remarks)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quoteSQLite(s.mapping.ResultTable),
	)
	_, err := s.db.ExecContext(ctx, query,
		nullableID(matchedID), rec.Name, rec.Address, rec.City, rec.Region, rec.Country, rec.Postal,
		externalID, string(status), remarks,
	)
	return eris.Wrap(err, "sqlite: insert result")
}

// quoteSQLite double-quotes an identifier, handling one schema qualifier.
func quoteSQLite(name string) string {
	parts := strings.SplitN(name, ".", 2)
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
