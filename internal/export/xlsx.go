package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/agent-miner/internal/model"
)

// XLSXHeader is the column layout of the exported sheet.
var XLSXHeader = []string{"Agencia", "Agente", "Menciones", "Testimonio"}

// WriteXLSX writes one row per (agency, agent, testimonial) and returns the
// number of data rows. No file is written when there are no rows.
func WriteXLSX(path string, reports []model.AgencyReport) (int, error) {
	rows := xlsxRows(reports)
	if len(rows) == 0 {
		return 0, nil
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Agentes")
	if err != nil {
		return 0, eris.Wrap(err, "export: add sheet")
	}

	addRow(sheet, XLSXHeader)
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.agency)
		row.AddCell().SetString(r.agent)
		row.AddCell().SetInt(r.mentions)
		row.AddCell().SetString(r.testimonial)
	}

	if err := f.Save(path); err != nil {
		return 0, eris.Wrapf(err, "export: save %s", path)
	}
	return len(rows), nil
}

type xlsxRow struct {
	agency      string
	agent       string
	mentions    int
	testimonial string
}

func xlsxRows(reports []model.AgencyReport) []xlsxRow {
	var rows []xlsxRow
	for _, rep := range reports {
		for _, a := range rep.Agents {
			for _, t := range a.SampleTestimonials {
				rows = append(rows, xlsxRow{
					agency:      rep.AgencyName,
					agent:       a.CanonicalName,
					mentions:    a.TotalMentions,
					testimonial: t,
				})
			}
		}
	}
	return rows
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}
