package core

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook_ColumnMapping(t *testing.T) {
	data, err := ExportWorkbook([]QRRecord{{Identifier: "A", SequenceNumber: 3, Label: "L3"}})
	require.NoError(t, err)

	sheets, rows := readWorkbook(t, data)
	assert.Equal(t, []string{"QR Codes"}, sheets)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"QR ID", "Port ID", "Label QR"}, rows[0])
	assert.Equal(t, []string{"A", "3", "L3"}, rows[1])
}

func TestExportWorkbook_PreservesOrder(t *testing.T) {
	records := []QRRecord{
		{Identifier: "B", SequenceNumber: 2, Label: "second"},
		{Identifier: "A", SequenceNumber: 9, Label: "first"},
		{Identifier: "B", SequenceNumber: 2, Label: "second"},
	}

	data, err := ExportWorkbook(records)
	require.NoError(t, err)

	_, rows := readWorkbook(t, data)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"B", "2", "second"}, rows[1])
	assert.Equal(t, []string{"A", "9", "first"}, rows[2])
	assert.Equal(t, []string{"B", "2", "second"}, rows[3])
}

func TestExportWorkbook_HeaderStyleAndPanes(t *testing.T) {
	data, err := ExportWorkbook(seqRecords("X", 1, 2))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle(ExportSheetName, "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	panes, err := f.GetPanes(ExportSheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestImportTemplate(t *testing.T) {
	data, err := ImportTemplate()
	require.NoError(t, err)

	_, rows := readWorkbook(t, data)
	require.Len(t, rows, 1)
	assert.Equal(t, ExportHeader, rows[0])
}

func TestExportImportRoundTrip(t *testing.T) {
	original := seqRecords("100192", 1, 5)
	data, err := ExportWorkbook(original)
	require.NoError(t, err)

	store := NewMemoryRecordStore()
	result, err := NewImporter(store, nil).Import(context.Background(), "export.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 5, result.Inserted)

	found, err := store.FindByIdentifierAndRange(context.Background(), "100192", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, sequenceNumbers(found))
}
