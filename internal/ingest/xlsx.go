// Package ingest reads pipeline input records from spreadsheets and from
// the customer master table itself.
package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/model"
)

// Headers names the spreadsheet columns holding each record field. DUNS
// is optional; every other header must be present in the first row.
type Headers struct {
	Name    string
	Address string
	City    string
	Postal  string
	Country string
	Region  string
	DUNS    string
}

// XLSXSource reads input records from the first sheet of a workbook,
// mapping columns by header name case-insensitively.
type XLSXSource struct {
	Path    string
	Headers Headers
}

// Records reads every data row beneath the header row. Rows with all
// mapped cells blank are skipped.
func (s *XLSXSource) Records(ctx context.Context) ([]model.InputRecord, error) {
	f, err := xlsx.OpenFile(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open workbook %s", s.Path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: workbook %s has no sheets", s.Path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("ingest: workbook %s has no header row", s.Path)
	}

	cols, err := s.mapColumns(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	var records []model.InputRecord
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "ingest: read cancelled")
		}

		rec := model.InputRecord{
			Name:       cellAt(row, cols.name),
			Address:    cellAt(row, cols.address),
			City:       cellAt(row, cols.city),
			Postal:     cellAt(row, cols.postal),
			Country:    cellAt(row, cols.country),
			Region:     cellAt(row, cols.region),
			ExternalID: cellAt(row, cols.duns),
		}
		if blank(rec) {
			continue
		}
		records = append(records, rec)
	}

	zap.L().Info("ingest: workbook read", zap.String("path", s.Path), zap.Int("records", len(records)))
	return records, nil
}

type columnIndexes struct {
	name, address, city, postal, country, region, duns int
}

func (s *XLSXSource) mapColumns(header *xlsx.Row) (columnIndexes, error) {
	byName := make(map[string]int, len(header.Cells))
	for j, cell := range header.Cells {
		byName[strings.ToUpper(strings.TrimSpace(cell.String()))] = j
	}

	find := func(name string, required bool) (int, error) {
		idx, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			if required {
				return -1, eris.Errorf("ingest: required column %q not found in header row", name)
			}
			return -1, nil
		}
		return idx, nil
	}

	var cols columnIndexes
	var err error
	if cols.name, err = find(s.Headers.Name, true); err != nil {
		return cols, err
	}
	if cols.address, err = find(s.Headers.Address, true); err != nil {
		return cols, err
	}
	if cols.city, err = find(s.Headers.City, true); err != nil {
		return cols, err
	}
	if cols.postal, err = find(s.Headers.Postal, true); err != nil {
		return cols, err
	}
	if cols.country, err = find(s.Headers.Country, true); err != nil {
		return cols, err
	}
	if cols.region, err = find(s.Headers.Region, true); err != nil {
		return cols, err
	}
	if cols.duns, err = find(s.Headers.DUNS, false); err != nil {
		return cols, err
	}
	return cols, nil
}

func cellAt(row *xlsx.Row, idx int) string {
	if idx < 0 || idx >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[idx].String())
}

func blank(rec model.InputRecord) bool {
	return rec.Name == "" && rec.Address == "" && rec.City == "" &&
		rec.Postal == "" && rec.Country == "" && rec.Region == ""
}
