// Package export turns enriched leads into host-facing outputs: spreadsheet
// files and Salesforce lead records. Nothing here feeds back into the
// pipeline.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

// leadHeader is the column order of the exported sheet.
var leadHeader = []string{
	"Name", "Role", "Company", "Domain", "Email", "Status", "Source", "Draft Email",
}

// WriteXLSX writes the leads to a single-sheet workbook at path.
func WriteXLSX(path string, leads []model.EnrichedLead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range leadHeader {
		header.AddCell().SetString(col)
	}

	for _, l := range leads {
		row := sheet.AddRow()
		for _, val := range []string{
			l.Name, l.Role, l.Company, l.Domain, l.Email,
			string(l.Status), l.SourceLink, l.DraftEmail,
		} {
			row.AddCell().SetString(val)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
