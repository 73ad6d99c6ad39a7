package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes the full indicator set into an .xlsx workbook, one
// sheet per report kind.
type Exporter struct {
	engine *Engine
	path   string
	logger *zerolog.Logger
}

func NewExporter(engine *Engine, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		engine: engine,
		path:   path,
		logger: logger,
	}
}

// ExportWorkbook generates every report and saves the workbook, returning
// the file path.
func (e *Exporter) ExportWorkbook(ctx context.Context, params Params) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, kind := range Kinds() {
		report, err := e.engine.Report(ctx, kind, params)
		if err != nil {
			return "", err
		}
		if err := e.writeSheet(f, report); err != nil {
			return "", err
		}
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("indicators_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Indicator workbook created")
	return filePath, nil
}

func (e *Exporter) writeSheet(f *excelize.File, report *Report) error {
	sheetName := string(report.Kind)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", report.Title)
	lastCol, _ := excelize.ColumnNumberToName(len(report.Columns))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, column := range report.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, column)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range report.Rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+3)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 25)
	if len(report.Columns) > 1 {
		_ = f.SetColWidth(sheetName, "B", lastCol, 18)
	}

	return nil
}
