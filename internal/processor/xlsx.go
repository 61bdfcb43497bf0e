package processor

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// writeTableXLSX writes a table grid as a single-sheet XLSX workbook.
func writeTableXLSX(path string, rows [][]string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Table")
	if err != nil {
		return eris.Wrap(err, "processor: xlsx add sheet")
	}

	for _, row := range rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "processor: xlsx save %s", path)
	}
	return nil
}
