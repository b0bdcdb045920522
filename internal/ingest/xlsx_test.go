package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func defaultHeaders() Headers {
	return Headers{
		Name:    "Name1",
		Address: "Street/House",
		City:    "City",
		Postal:  "Postal Code",
		Country: "Country",
		Region:  "Region",
		DUNS:    "DUNS Number",
	}
}

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestXLSXSource_Records(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Name1", "Street/House", "City", "Postal Code", "Country", "Region", "DUNS Number"},
		{"Acme Widget Works", "12 Main Street", "Springfield", "12345", "US", "CA", "111222333"},
		{"Other Company", "9 Side Road", "Shelbyville", "54321", "US", "NY", ""},
	})

	src := &XLSXSource{Path: path, Headers: defaultHeaders()}
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Acme Widget Works", records[0].Name)
	assert.Equal(t, "12 Main Street", records[0].Address)
	assert.Equal(t, "Springfield", records[0].City)
	assert.Equal(t, "12345", records[0].Postal)
	assert.Equal(t, "US", records[0].Country)
	assert.Equal(t, "CA", records[0].Region)
	assert.Equal(t, "111222333", records[0].ExternalID)
	assert.Empty(t, records[1].ExternalID)
}

func TestXLSXSource_HeaderMatchingIsCaseInsensitive(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"NAME1", "street/house", "CITY", "postal code", "COUNTRY", "region", "duns number"},
		{"Acme Widget Works", "12 Main Street", "Springfield", "12345", "US", "CA", "1"},
	})

	src := &XLSXSource{Path: path, Headers: defaultHeaders()}
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestXLSXSource_ColumnOrderIrrelevant(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Country", "Name1", "Region", "Street/House", "Postal Code", "City"},
		{"US", "Acme Widget Works", "CA", "12 Main Street", "12345", "Springfield"},
	})

	src := &XLSXSource{Path: path, Headers: defaultHeaders()}
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "US", records[0].Country)
	assert.Equal(t, "Acme Widget Works", records[0].Name)
}

func TestXLSXSource_MissingRequiredColumn(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Name1", "City", "Postal Code", "Country", "Region"},
		{"Acme Widget Works", "Springfield", "12345", "US", "CA"},
	})

	src := &XLSXSource{Path: path, Headers: defaultHeaders()}
	_, err := src.Records(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Street/House"`)
}

func TestXLSXSource_DUNSOptional(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Name1", "Street/House", "City", "Postal Code", "Country", "Region"},
		{"Acme Widget Works", "12 Main Street", "Springfield", "12345", "US", "CA"},
	})

	src := &XLSXSource{Path: path, Headers: defaultHeaders()}
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].ExternalID)
}

func TestXLSXSource_SkipsBlankRows(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Name1", "Street/House", "City", "Postal Code", "Country", "Region"},
		{"", "", "", "", "", ""},
		{"Acme Widget Works", "12 Main Street", "Springfield", "12345", "US", "CA"},
	})

	src := &XLSXSource{Path: path, Headers: defaultHeaders()}
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestXLSXSource_MissingFile(t *testing.T) {
	src := &XLSXSource{Path: filepath.Join(t.TempDir(), "nope.xlsx"), Headers: defaultHeaders()}
	_, err := src.Records(context.Background())
	assert.Error(t, err)
}
