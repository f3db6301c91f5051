package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxSheet      = "Report"
	xlsxBaseWidth  = 14.0
	xlsxTitleSize  = 14.0
)

// XLSXExporter renders datasets into a single-sheet Excel workbook. Cells that
// parse as numbers are stored as numbers so spreadsheets can sum them.
type XLSXExporter struct{}

// NewXLSXExporter constructs an Excel exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType implements Renderer.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Renderer.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes the title block, a bold header row and one row per record.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	row := 1
	if data.Title != "" {
		titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: xlsxTitleSize}})
		if err != nil {
			return nil, fmt.Errorf("create title style: %w", err)
		}
		if err := e.setCell(f, 1, row, data.Title); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(xlsxSheet, "A1", "A1", titleStyle); err != nil {
			return nil, fmt.Errorf("style title: %w", err)
		}
		row++
		if data.Subtitle != "" {
			if err := e.setCell(f, 1, row, data.Subtitle); err != nil {
				return nil, err
			}
			row++
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	for i, col := range data.Columns {
		if err := e.setCell(f, i+1, row, col.header()); err != nil {
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		weight := col.Weight
		if weight <= 0 {
			weight = 1
		}
		if err := f.SetColWidth(xlsxSheet, name, name, xlsxBaseWidth*weight); err != nil {
			return nil, fmt.Errorf("size column %s: %w", name, err)
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(data.Columns), row)
	if err := f.SetCellStyle(xlsxSheet, first, last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for _, record := range data.Rows {
		row++
		for i, col := range data.Columns {
			if err := e.setCell(f, i+1, row, record[col.Key]); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *XLSXExporter) setCell(f *excelize.File, col, row int, raw string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	var value interface{} = raw
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		value = n
	} else if x, err := strconv.ParseFloat(raw, 64); err == nil {
		value = x
	}
	if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
