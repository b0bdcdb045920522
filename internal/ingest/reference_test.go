package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createReferenceXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Reference")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "reference.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadReferenceWorkbook(t *testing.T) {
	path := createReferenceXLSX(t, [][]string{
		{"Alpha2", "Alpha3", "Region Code", "Requires Region", "Requires Postal"},
		{"us", "usa", "ca", "TRUE", "yes"},
		{"de", "deu", "", "false", "1"},
		{"", "", "", "", ""},
	})

	rows, err := ReadReferenceWorkbook(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "US", rows[0].Alpha2)
	assert.Equal(t, "USA", rows[0].Alpha3)
	assert.Equal(t, "CA", rows[0].RegionCode)
	assert.True(t, rows[0].RequiresRegion)
	assert.True(t, rows[0].RequiresPostal)

	assert.Equal(t, "DE", rows[1].Alpha2)
	assert.False(t, rows[1].RequiresRegion)
	assert.True(t, rows[1].RequiresPostal)
}

func TestReadReferenceWorkbook_MissingColumn(t *testing.T) {
	path := createReferenceXLSX(t, [][]string{
		{"Alpha2", "Region Code", "Requires Region", "Requires Postal"},
		{"US", "CA", "TRUE", "TRUE"},
	})

	_, err := ReadReferenceWorkbook(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ALPHA3"`)
}

func TestTruthy(t *testing.T) {
	assert.True(t, truthy("TRUE"))
	assert.True(t, truthy(" yes "))
	assert.True(t, truthy("Y"))
	assert.True(t, truthy("1"))
	assert.False(t, truthy("FALSE"))
	assert.False(t, truthy(""))
	assert.False(t, truthy("0"))
}
