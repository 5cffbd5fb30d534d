package core

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Export column headers. Import reads columns by position in the same order.
const (
	HeaderIdentifier = "QR ID"
	HeaderSequence   = "Port ID"
	HeaderLabel      = "Label QR"
)

// ExportSheetName is the sheet written by ExportWorkbook and ImportTemplate.
const ExportSheetName = "QR Codes"

// ExportHeader is the header row of exported workbooks.
var ExportHeader = []string{HeaderIdentifier, HeaderSequence, HeaderLabel}

var exportColumnWidths = []float64{20, 12, 40}

// ExportWorkbook writes records to an .xlsx workbook, one row per record in
// the given order, below a bold frozen header row.
func ExportWorkbook(records []QRRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(ExportHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(ExportSheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, width := range exportColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(ExportSheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{rec.Identifier, rec.SequenceNumber, rec.Label}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(ExportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportTemplate returns an empty workbook with the import header row.
func ImportTemplate() ([]byte, error) {
	return ExportWorkbook(nil)
}
