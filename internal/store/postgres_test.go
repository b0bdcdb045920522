package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testMapping() Mapping {
	return Mapping{
		Table:          "customer_master",
		ID:             "mdmid",
		Name:           "name1",
		Address:        "streetorhouse",
		City:           "city",
		Region:         "region",
		Country:        "country",
		Postal:         "postalcode",
		DUNS:           "dunsnumber",
		ResultTable:    "data_quality_check",
		ReferenceTable: "country_region_postal_validation",
	}
}

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *PostgresStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresFromPool(mock, testMapping())
}

func TestPostgres_MigrationSQL(t *testing.T) {
	_, s := newMockStore(t)
	sql := s.migrationSQL()
	assert.Contains(t, sql, `"country_region_postal_validation"`)
	assert.Contains(t, sql, `"data_quality_check"`)
	assert.Contains(t, sql, "id              BIGSERIAL PRIMARY KEY")
	assert.Contains(t, sql, "matchedid       BIGINT")
	assert.Contains(t, sql, "UNIQUE (alpha2code, regioncode)")
}

func TestPostgres_Migrate(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CountryRows(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery(`SELECT .+ FROM "country_region_postal_validation" WHERE UPPER\(alpha2code\)`).
		WithArgs("US").
		WillReturnRows(pgxmock.NewRows([]string{"alpha2code", "alpha3code", "regioncode", "requiresregion", "requirespostalcode"}).
			AddRow("US", "USA", "ca", true, true).
			AddRow("US", "USA", "NY", true, true))

	rows, err := s.CountryRows(context.Background(), "us")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CA", rows[0].RegionCode)
	assert.True(t, rows[0].RequiresRegion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CountryRows_Alpha3UsesOtherColumn(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery(`WHERE UPPER\(alpha3code\)`).
		WithArgs("USA").
		WillReturnRows(pgxmock.NewRows([]string{"a", "b", "c", "d", "e"}).
			AddRow("US", "USA", "CA", true, true))

	rows, err := s.CountryRows(context.Background(), "usa")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CountryRows_BadLengthSkipsQuery(t *testing.T) {
	mock, s := newMockStore(t)

	rows, err := s.CountryRows(context.Background(), "USAX")
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_PostalRequired(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery("SELECT requirespostalcode FROM").
		WithArgs("US", "CA").
		WillReturnRows(pgxmock.NewRows([]string{"requirespostalcode"}).AddRow(true))

	required, err := s.PostalRequired(context.Background(), "us", "ca")
	require.NoError(t, err)
	require.NotNil(t, required)
	assert.True(t, *required)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_PostalRequired_NoRow(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery("SELECT requirespostalcode FROM").
		WithArgs("ZZ", "").
		WillReturnRows(pgxmock.NewRows([]string{"requirespostalcode"}))

	required, err := s.PostalRequired(context.Background(), "ZZ", "")
	require.NoError(t, err)
	assert.Nil(t, required)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CountryAliases(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery("SELECT COALESCE\\(alpha2code,''\\), COALESCE\\(alpha3code,''\\) FROM").
		WithArgs("US").
		WillReturnRows(pgxmock.NewRows([]string{"alpha2code", "alpha3code"}).AddRow("US", "USA"))

	aliases, err := s.CountryAliases(context.Background(), "us")
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "USA"}, aliases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CountryAliases_NotFound(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery("SELECT COALESCE\\(alpha2code,''\\), COALESCE\\(alpha3code,''\\) FROM").
		WithArgs("XX").
		WillReturnRows(pgxmock.NewRows([]string{"alpha2code", "alpha3code"}))

	aliases, err := s.CountryAliases(context.Background(), "XX")
	require.NoError(t, err)
	assert.Nil(t, aliases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Candidates(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery(`SELECT "mdmid", COALESCE\("dunsnumber",''\)`).
		WithArgs("US", "USA", "12345", 500).
		WillReturnRows(pgxmock.NewRows([]string{"mdmid", "dunsnumber", "name1", "streetorhouse", "city"}).
			AddRow(7, "999888777", "ACME WIDGET WORKS", "12 MAIN STREET", "SPRINGFIELD"))

	got, err := s.Candidates(context.Background(), []string{"US", "USA"}, "12345", 500)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ID)
	assert.Equal(t, "999888777", got[0].ExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Candidates_EmptyInputsSkipQuery(t *testing.T) {
	mock, s := newMockStore(t)

	got, err := s.Candidates(context.Background(), nil, "12345", 500)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Candidates(context.Background(), []string{"US"}, "", 500)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Candidates_QueryError(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery(`SELECT "mdmid"`).
		WithArgs("US", "12345", 500).
		WillReturnError(errors.New("relation does not exist"))

	_, err := s.Candidates(context.Background(), []string{"US"}, "12345", 500)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindExisting(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery(`SELECT id FROM "data_quality_check"`).
		WithArgs("Acme Widget Works", "12 Main Street", "Springfield", "CA", "US", "12345").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(11))

	id, found, err := s.FindExisting(context.Background(), model.InputRecord{
		Name: "Acme Widget Works", Address: "12 Main Street", City: "Springfield",
		Region: "CA", Country: "US", Postal: "12345",
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 11, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindExisting_NotFound(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery(`SELECT id FROM "data_quality_check"`).
		WithArgs("Acme", "", "", "", "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	id, found, err := s.FindExisting(context.Background(), model.InputRecord{Name: "Acme"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_InsertResult_NullMatchedID(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectExec(`INSERT INTO "data_quality_check"`).
		WithArgs(nil, "Acme Widget Works", "12 Main Street", "Springfield", "CA", "US", "12345",
			"111222333", "Invalid", "Name: too short").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.InsertResult(context.Background(), model.InputRecord{
		Name: "Acme Widget Works", Address: "12 Main Street", City: "Springfield",
		Region: "CA", Country: "US", Postal: "12345",
	}, 0, "111222333", model.StatusInvalid, "Name: too short")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateResult(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectExec(`UPDATE "data_quality_check" SET`).
		WithArgs("Acme Widget Works", "12 Main Street", "Springfield", "CA", "US", "12345",
			"999888777", 7, "Valid", "Record exists (fuzzy match) | Score: 97.25%", 11).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateResult(context.Background(), 11, model.InputRecord{
		Name: "Acme Widget Works", Address: "12 Main Street", City: "Springfield",
		Region: "CA", Country: "US", Postal: "12345",
	}, 7, "999888777", model.StatusValid, "Record exists (fuzzy match) | Score: 97.25%")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SeedCountryRows(t *testing.T) {
	mock, s := newMockStore(t)

	batch := mock.ExpectBatch()
	batch.ExpectExec("INSERT INTO \"country_region_postal_validation\"").
		WithArgs("US", "USA", "CA", true, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec("INSERT INTO \"country_region_postal_validation\"").
		WithArgs("DE", "DEU", "", false, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := s.SeedCountryRows(context.Background(), []CountryRow{
		{Alpha2: "us", Alpha3: "usa", RegionCode: "ca", RequiresRegion: true, RequiresPostal: true},
		{Alpha2: "de", Alpha3: "deu", RequiresPostal: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SeedCountryRows_Empty(t *testing.T) {
	_, s := newMockStore(t)
	n, err := s.SeedCountryRows(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSanitizeTable(t *testing.T) {
	assert.Equal(t, `"customer_master"`, sanitizeTable("customer_master"))
	assert.Equal(t, `"mdm"."customers"`, sanitizeTable("mdm.customers"))
	assert.Equal(t, `"bad""name"`, sanitizeTable(`bad"name`))
}
