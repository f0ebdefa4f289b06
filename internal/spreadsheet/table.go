// Package spreadsheet downloads course spreadsheets and decodes them into
// tables of text cells.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
)

// Format is the export format requested from the spreadsheet host.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Table is a decoded worksheet: a header row and the data rows below it.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Records keys every row by column label. Every record carries every column,
// short rows are padded with "".
func (t Table) Records() []catalog.Row {
	records := make([]catalog.Row, 0, len(t.Rows))
	for _, cells := range t.Rows {
		record := make(catalog.Row, len(t.Columns))
		for i, column := range t.Columns {
			if column == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			record[column] = value
		}
		records = append(records, record)
	}
	return records
}

// Sheet pairs the header row with Records.
func (t Table) Sheet() catalog.Sheet {
	return catalog.Sheet{Columns: t.Columns, Rows: t.Records()}
}

// Decode reads a table in the given format. sheet selects a worksheet of an
// xlsx workbook; the first one is used when it is blank.
func Decode(body []byte, format Format, sheet string) (Table, error) {
	switch format {
	case FormatCSV:
		return DecodeCSV(bytes.NewReader(body))
	case FormatXLSX, "":
		return DecodeXLSX(bytes.NewReader(body), sheet)
	default:
		return Table{}, fmt.Errorf("unsupported spreadsheet format %q", format)
	}
}

func DecodeXLSX(r io.Reader, sheet string) (Table, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("excelize.OpenReader > %w", err)
	}
	defer func() {
		_ = workbook.Close()
	}()

	if sheet == "" {
		sheet = workbook.GetSheetName(0)
	}
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("workbook.GetRows(%s) > %w", sheet, err)
	}
	return newTable(rows), nil
}

func DecodeCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("csv.ReadAll > %w", err)
	}
	return newTable(rows), nil
}

// newTable uses the first non-blank row as the header and drops blank rows.
func newTable(rows [][]string) Table {
	var table Table
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if table.Columns == nil {
			table.Columns = make([]string, len(row))
			for i, cell := range row {
				table.Columns[i] = strings.TrimSpace(cell)
			}
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
