package reports

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook(t *testing.T) {
	logger := zerolog.Nop()
	engine := newTestEngine(fullStubSource(), 10, 20)
	exporter := NewExporter(engine, t.TempDir(), &logger)

	path, err := exporter.ExportWorkbook(context.Background(), Params{})
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// one sheet per report kind, the default sheet dropped
	sheets := f.GetSheetList()
	require.Len(t, sheets, len(Kinds()))
	for _, kind := range Kinds() {
		assert.Contains(t, sheets, string(kind))
	}

	// title in A1, headers on row 2, data from row 3
	title, err := f.GetCellValue(string(KindGlobalTotals), "A1")
	require.NoError(t, err)
	assert.Equal(t, "Global totals", title)

	header, err := f.GetCellValue(string(KindGlobalTotals), "A2")
	require.NoError(t, err)
	assert.Equal(t, "Transactions", header)

	value, err := f.GetCellValue(string(KindGlobalTotals), "A3")
	require.NoError(t, err)
	assert.Equal(t, "5", value)
}

func TestExportWorkbookCreatesDirectory(t *testing.T) {
	logger := zerolog.Nop()
	engine := newTestEngine(fullStubSource(), 10, 20)
	exporter := NewExporter(engine, t.TempDir()+"/nested/exports", &logger)

	path, err := exporter.ExportWorkbook(context.Background(), Params{})
	require.NoError(t, err)
	assert.FileExists(t, path)
}
