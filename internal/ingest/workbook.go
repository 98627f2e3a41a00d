package ingest

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"datalens/domain/dataset"
	"datalens/internal/errors"
)

// Sheet pairs a sheet name with its parsed dataset. Sheets that could not
// be parsed carry Err and a nil Data.
type Sheet struct {
	Name string
	Data *dataset.Dataset
	Err  error
}

// ReadWorkbook parses every sheet of an Excel file. A sheet with fewer
// than a header row and one data row is recorded as failed, not dropped,
// so callers can report it.
func ReadWorkbook(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, errors.InvalidInput("workbook has no sheets")
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		sheets = append(sheets, readSheet(f, name))
	}
	return sheets, nil
}

func readSheet(f *excelize.File, name string) Sheet {
	rows, err := f.GetRows(name)
	if err != nil {
		return Sheet{Name: name, Err: errors.Wrapf(err, "failed to read sheet %s", name)}
	}
	if len(rows) < 2 {
		return Sheet{Name: name, Err: errors.InvalidInput("sheet must have a header row and at least one data row")}
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}

	return Sheet{Name: name, Data: dataset.FromRows(header, rows[1:])}
}
