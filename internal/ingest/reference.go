package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/dataquality-cli/internal/store"
)

// ReadReferenceWorkbook loads country/region reference rows from the
// first sheet of a workbook. Expected columns, by header name: Alpha2,
// Alpha3, Region Code, Requires Region, Requires Postal. Region Code may
// be blank for countries validated without a region.
func ReadReferenceWorkbook(path string) ([]store.CountryRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open reference workbook %s", path)
	}
	if len(f.Sheets) == 0 || len(f.Sheets[0].Rows) == 0 {
		return nil, eris.Errorf("ingest: reference workbook %s is empty", path)
	}

	sheet := f.Sheets[0]
	idx := make(map[string]int, len(sheet.Rows[0].Cells))
	for j, cell := range sheet.Rows[0].Cells {
		idx[strings.ToUpper(strings.TrimSpace(cell.String()))] = j
	}

	col := func(name string) (int, error) {
		j, ok := idx[name]
		if !ok {
			return -1, eris.Errorf("ingest: reference workbook missing column %q", name)
		}
		return j, nil
	}

	alpha2, err := col("ALPHA2")
	if err != nil {
		return nil, err
	}
	alpha3, err := col("ALPHA3")
	if err != nil {
		return nil, err
	}
	region, err := col("REGION CODE")
	if err != nil {
		return nil, err
	}
	reqRegion, err := col("REQUIRES REGION")
	if err != nil {
		return nil, err
	}
	reqPostal, err := col("REQUIRES POSTAL")
	if err != nil {
		return nil, err
	}

	var rows []store.CountryRow
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		r := store.CountryRow{
			Alpha2:         strings.ToUpper(cellAt(row, alpha2)),
			Alpha3:         strings.ToUpper(cellAt(row, alpha3)),
			RegionCode:     strings.ToUpper(cellAt(row, region)),
			RequiresRegion: truthy(cellAt(row, reqRegion)),
			RequiresPostal: truthy(cellAt(row, reqPostal)),
		}
		if r.Alpha2 == "" && r.Alpha3 == "" {
			continue
		}
		rows = append(rows, r)
	}

	return rows, nil
}

func truthy(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "YES", "Y", "1":
		return true
	}
	return false
}
