package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/dataquality-cli/internal/db"
	"github.com/sells-group/dataquality-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	mapping Mapping
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, mapping Mapping, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, mapping: mapping, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock;
// the store does not own the pool's lifetime.
func NewPostgresFromPool(pool db.Pool, mapping Mapping) *PostgresStore {
	return &PostgresStore{pool: pool, mapping: mapping}
}

func (s *PostgresStore) migrationSQL() string {
	ref := sanitizeTable(s.mapping.ReferenceTable)
	res := sanitizeTable(s.mapping.ResultTable)
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	alpha2code         TEXT NOT NULL,
	alpha3code         TEXT,
	regioncode         TEXT NOT NULL DEFAULT '',
	requiresregion     BOOLEAN NOT NULL DEFAULT FALSE,
	requirespostalcode BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (alpha2code, regioncode)
);

CREATE INDEX IF NOT EXISTS idx_reference_alpha3 ON %[1]s (UPPER(alpha3code));

CREATE TABLE IF NOT EXISTS %[2]s (
	id              BIGSERIAL PRIMARY KEY,
	matchedid       BIGINT,
	name1           TEXT NOT NULL DEFAULT '',
	streetorhouse   TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	region          TEXT NOT NULL DEFAULT '',
	country         TEXT NOT NULL DEFAULT '',
	postalcode      TEXT NOT NULL DEFAULT '',
	dunsnumber      TEXT NOT NULL DEFAULT '',
	recordvalidated TEXT NOT NULL DEFAULT '',
	remarks         TEXT NOT NULL DEFAULT '',
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_result_name ON %[2]s (UPPER(name1));
`, ref, res)
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, s.migrationSQL())
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CountryRows(ctx context.Context, code string) ([]CountryRow, error) {
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

	sql := fmt.Sprintf(
		"SELECT COALESCE(alpha2code,''), COALESCE(alpha3code,''), COALESCE(regioncode,''), requiresregion, requirespostalcode FROM %s WHERE UPPER(%s) = $1",
		sanitizeTable(s.mapping.ReferenceTable), column,
	)
	rows, err := s.pool.Query(ctx, sql, key)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: country rows")
	}
	defer rows.Close()

	var out []CountryRow
	for rows.Next() {
		var r CountryRow
		if err := rows.Scan(&r.Alpha2, &r.Alpha3, &r.RegionCode, &r.RequiresRegion, &r.RequiresPostal); err != nil {
			return nil, eris.Wrap(err, "postgres: scan country row")
		}
		r.RegionCode = strings.ToUpper(strings.TrimSpace(r.RegionCode))
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: country rows iteration")
	}
	return out, nil
}

func (s *PostgresStore) PostalRequired(ctx context.Context, country, region string) (*bool, error) {
	sql := fmt.Sprintf(
		"SELECT requirespostalcode FROM %s WHERE UPPER(alpha2code) = $1 AND UPPER(regioncode) = $2 LIMIT 1",
		sanitizeTable(s.mapping.ReferenceTable),
	)
	var required bool
	err := s.pool.QueryRow(ctx, sql, strings.ToUpper(country), strings.ToUpper(region)).Scan(&required)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: postal required")
	}
	return &required, nil
}

func (s *PostgresStore) CountryAliases(ctx context.Context, code string) ([]string, error) {
	sql := fmt.Sprintf(
		"SELECT COALESCE(alpha2code,''), COALESCE(alpha3code,'') FROM %s WHERE UPPER(COALESCE(alpha2code,'')) = $1 OR UPPER(COALESCE(alpha3code,'')) = $1 LIMIT 1",
		sanitizeTable(s.mapping.ReferenceTable),
	)
	key := strings.ToUpper(strings.TrimSpace(code))
	var alpha2, alpha3 string
	err := s.pool.QueryRow(ctx, sql, key).Scan(&alpha2, &alpha3)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: country aliases")
	}

	var out []string
	for _, a := range []string{alpha2, alpha3} {
		if v := strings.ToUpper(strings.TrimSpace(a)); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *PostgresStore) SeedCountryRows(ctx context.Context, rows []CountryRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	sql := fmt.Sprintf(
		`INSERT INTO %s (alpha2code, alpha3code, regioncode, requiresregion, requirespostalcode)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (alpha2code, regioncode) DO UPDATE SET
	alpha3code = EXCLUDED.alpha3code,
	requiresregion = EXCLUDED.requiresregion,
	requirespostalcode = EXCLUDED.requirespostalcode`,
		sanitizeTable(s.mapping.ReferenceTable),
	)

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(sql, strings.ToUpper(r.Alpha2), strings.ToUpper(r.Alpha3), strings.ToUpper(r.RegionCode), r.RequiresRegion, r.RequiresPostal)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	var total int64
	for range rows {
		tag, err := results.Exec()
		if err != nil {
			return total, eris.Wrap(err, "postgres: seed country rows")
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

func (s *PostgresStore) Candidates(ctx context.Context, countries []string, normPostal string, limit int) ([]model.Candidate, error) {
	if len(countries) == 0 || normPostal == "" {
		return nil, nil
	}

	m := s.mapping
	placeholders := make([]string, len(countries))
	args := make([]any, 0, len(countries)+2)
	for i, c := range countries {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, strings.ToUpper(c))
	}
	args = append(args, strings.ToUpper(normPostal), limit)

	sql := fmt.Sprintf(
		`SELECT %s, COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,'')
FROM %s
WHERE UPPER(COALESCE(%s,'')) IN (%s)
  AND REPLACE(REPLACE(UPPER(COALESCE(%s,'')), ' ', ''), '-', '') = $%d
LIMIT $%d`,
		ident(m.ID), ident(m.DUNS), ident(m.Name), ident(m.Address), ident(m.City),
		sanitizeTable(m.Table),
		ident(m.Country), strings.Join(placeholders, ", "),
		ident(m.Postal), len(countries)+1,
		len(countries)+2,
	)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: candidates")
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.Name, &c.Address, &c.City); err != nil {
			return nil, eris.Wrap(err, "postgres: scan candidate")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: candidates iteration")
	}
	return out, nil
}

func (s *PostgresStore) SourceRecords(ctx context.Context, limit int) ([]model.InputRecord, error) {
	m := s.mapping
	sql := fmt.Sprintf(
		`SELECT %s, COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,''), COALESCE(%s,'')
FROM %s
ORDER BY %s
LIMIT $1`,
		ident(m.ID), ident(m.Name), ident(m.Address), ident(m.City), ident(m.Region), ident(m.Country), ident(m.Postal), ident(m.DUNS),
		sanitizeTable(m.Table),
		ident(m.ID),
	)

	rows, err := s.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: source records")
	}
	defer rows.Close()

	var out []model.InputRecord
	for rows.Next() {
		var r model.InputRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.City, &r.Region, &r.Country, &r.Postal, &r.ExternalID); err != nil {
			return nil, eris.Wrap(err, "postgres: scan source record")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: source records iteration")
	}
	return out, nil
}

func (s *PostgresStore) FindExisting(ctx context.Context, rec model.InputRecord) (int, bool, error) {
	sql := fmt.Sprintf(
		`SELECT id FROM %s
WHERE UPPER(COALESCE(name1,'')) = UPPER($1)
  AND UPPER(COALESCE(streetorhouse,'')) = UPPER($2)
  AND UPPER(COALESCE(city,'')) = UPPER($3)
  AND UPPER(COALESCE(region,'')) = UPPER($4)
  AND UPPER(COALESCE(country,'')) = UPPER($5)
  AND REPLACE(REPLACE(UPPER(COALESCE(postalcode,'')), ' ', ''), '-', '') = REPLACE(REPLACE(UPPER($6), ' ', ''), '-', '')
LIMIT 1`,
		sanitizeTable(s.mapping.ResultTable),
	)

	var id int
	err := s.pool.QueryRow(ctx, sql,
		strings.TrimSpace(rec.Name), strings.TrimSpace(rec.Address), strings.TrimSpace(rec.City),
		strings.TrimSpace(rec.Region), strings.TrimSpace(rec.Country), strings.TrimSpace(rec.Postal),
	).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, eris.Wrap(err, "postgres: find existing result")
	}
	return id, true, nil
}

func (s *PostgresStore) UpdateResult(ctx context.Context, id int, rec model.InputRecord, matchedID int, externalID string, status model.Status, remarks string) error {
	sql := fmt.Sprintf(
		`UPDATE %s SET
	name1 = $1, streetorhouse = $2, city = $3, region = $4, country = $5, postalcode = $6,
	dunsnumber = $7, matchedid = $8, recordvalidated = $9, remarks = $10, updated_at = now()
WHERE id = $11`,
		sanitizeTable(s.mapping.ResultTable),
	)
	_, err := s.pool.Exec(ctx, sql,
		rec.Name, rec.Address, rec.City, rec.Region, rec.Country, rec.Postal,
		externalID, nullableID(matchedID), string(status), remarks, id,
	)
	return eris.Wrap(err, "postgres: update result")
}

func (s *PostgresStore) InsertResult(ctx context.Context, rec model.InputRecord, matchedID int, externalID string, status model.Status, remarks string) error {
	sql := fmt.Sprintf(
		`INSERT INTO %s (matchedid, name1, streetorhouse, city, region, country, postalcode, dunsnumber, recordvalidated, remarks)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sanitizeTable(s.mapping.ResultTable),
	)
	_, err := s.pool.Exec(ctx, sql,
		nullableID(matchedID), rec.Name, rec.Address, rec.City, rec.Region, rec.Country, rec.Postal,
		externalID, string(status), remarks,
	)
	return eris.Wrap(err, "postgres: insert result")
}

// nullableID maps the zero sentinel to SQL NULL.
func nullableID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}

// sanitizeTable handles schema-qualified table names like "mdm.customers".
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

func ident(column string) string {
	return pgx.Identifier{column}.Sanitize()
}
