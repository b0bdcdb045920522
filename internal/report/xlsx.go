// Package report renders run outcomes as an Excel workbook.
package report

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/pipeline"
)

var resultHeaders = []string{
	"Name", "Address", "City", "Region", "Country", "Postal Code",
	"DUNS Number", "Name Status", "Address Status", "Region Status",
	"Postal Status", "Record Status", "Remarks",
}

// WriteXLSX writes the run report to path: a "Validation Results" sheet
// with one row per unique record, and a "Summary" sheet with the run
// totals.
func WriteXLSX(rep *pipeline.Report, path string) error {
	f := xlsx.NewFile()

	results, err := f.AddSheet("Validation Results")
	if err != nil {
		return eris.Wrap(err, "report: add results sheet")
	}

	header := results.AddRow()
	for _, h := range resultHeaders {
		header.AddCell().SetString(h)
	}

	for _, row := range rep.Rows {
		r := results.AddRow()
		r.AddCell().SetString(row.Name)
		r.AddCell().SetString(row.FinalAddress)
		r.AddCell().SetString(row.City)
		r.AddCell().SetString(row.Region)
		r.AddCell().SetString(row.Country)
		r.AddCell().SetString(row.Postal)
		r.AddCell().SetString(row.ExternalID)
		r.AddCell().SetString(string(row.NameStatus))
		r.AddCell().SetString(string(row.AddressStatus))
		r.AddCell().SetString(string(row.RegionStatus))
		r.AddCell().SetString(string(row.PostalStatus))
		r.AddCell().SetString(string(row.RecordStatus))
		r.AddCell().SetString(row.Remarks)
	}

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	writeSummary(summary, rep)

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}

	zap.L().Info("report: workbook written",
		zap.String("path", path),
		zap.Int("rows", len(rep.Rows)))
	return nil
}

func writeSummary(sheet *xlsx.Sheet, rep *pipeline.Report) {
	addPair := func(label, value string) {
		row := sheet.AddRow()
		row.AddCell().SetString(label)
		row.AddCell().SetString(value)
	}

	t := rep.Totals
	addPair("Run ID", rep.RunID)
	addPair("Records Processed", fmt.Sprintf("%d", t.Records))
	addPair("Valid Records", fmt.Sprintf("%d", t.Valid))
	addPair("Invalid Records", fmt.Sprintf("%d", t.Invalid))
	addPair("Duplicate Records", fmt.Sprintf("%d", t.Duplicates))
	addPair("Rows Inserted", fmt.Sprintf("%d", t.Inserts))
	addPair("Rows Updated", fmt.Sprintf("%d", t.Updates))
	addPair("Persistence Failures", fmt.Sprintf("%d", t.Failures))

	sheet.AddRow()
	fieldHeader := sheet.AddRow()
	fieldHeader.AddCell().SetString("Field")
	fieldHeader.AddCell().SetString("Pass")
	fieldHeader.AddCell().SetString("Fail")

	addField := func(name string, ft pipeline.FieldTotals) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetString(fmt.Sprintf("%d", ft.Pass))
		row.AddCell().SetString(fmt.Sprintf("%d", ft.Fail))
	}
	addField("Name", t.Name)
	addField("Address", t.Address)
	addField("Region", t.Region)
	addField("Postal", t.Postal)
}
