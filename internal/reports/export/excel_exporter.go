package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	IncludeHeader bool              `json:"include_header"`
	FreezeHeader  bool              `json:"freeze_header"`
	AutoFilter    bool              `json:"auto_filter"`
	NumberFormat  string            `json:"number_format"`
	HeaderStyle   *ExcelStyleConfig `json:"header_style,omitempty"`
	DataStyle     *ExcelStyleConfig `json:"data_style,omitempty"`
	AutoWidth     bool              `json:"auto_width"`
}

// ExcelStyleConfig defines style for cells
type ExcelStyleConfig struct {
	FontBold  bool   `json:"font_bold"`
	FontSize  int    `json:"font_size"`
	FontColor string `json:"font_color"`
	FillColor string `json:"fill_color"`
	Alignment string `json:"alignment"` // left, center, right
	Border    bool   `json:"border"`
	WrapText  bool   `json:"wrap_text"`
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		IncludeHeader: true,
		FreezeHeader:  true,
		AutoFilter:    true,
		NumberFormat:  "#,##0.00",
		AutoWidth:     true,
		HeaderStyle: &ExcelStyleConfig{
			FontBold:  true,
			FontSize:  11,
			FillColor: "10B981",
			FontColor: "FFFFFF",
			Alignment: "center",
			Border:    true,
		},
		DataStyle: &ExcelStyleConfig{
			FontSize:  11,
			Alignment: "left",
			Border:    true,
		},
	}
}

// WorkbookExporter writes one sheet per table
type WorkbookExporter struct {
	file    *excelize.File
	options ExcelOptions
	sheets  int

	headerStyle int
	dataStyle   int
	numberStyle int
}

// NewWorkbookExporter creates a workbook exporter and its shared styles
func NewWorkbookExporter(options ExcelOptions) (*WorkbookExporter, error) {
	e := &WorkbookExporter{
		file:    excelize.NewFile(),
		options: options,
	}

	var err error
	if options.HeaderStyle != nil {
		if e.headerStyle, err = e.createStyle(options.HeaderStyle, ""); err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
	}
	if options.DataStyle != nil {
		if e.dataStyle, err = e.createStyle(options.DataStyle, ""); err != nil {
			return nil, fmt.Errorf("failed to create data style: %w", err)
		}
		if options.NumberFormat != "" {
			if e.numberStyle, err = e.createStyle(options.DataStyle, options.NumberFormat); err != nil {
				return nil, fmt.Errorf("failed to create number style: %w", err)
			}
		}
	}

	return e, nil
}

// AddTable adds a sheet named after the table
func (e *WorkbookExporter) AddTable(table Table) error {
	// The new workbook starts with one default sheet that the first table takes over
	if e.sheets == 0 {
		if err := e.file.SetSheetName("Sheet1", table.Name); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
	} else if _, err := e.file.NewSheet(table.Name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	e.sheets++

	if err := e.writeHeader(table.Name, table.Columns); err != nil {
		return err
	}
	return e.writeRows(table.Name, table.Columns, table.Rows)
}

// writeHeader writes the header row with styling
func (e *WorkbookExporter) writeHeader(sheet string, columns []string) error {
	if !e.options.IncludeHeader {
		return nil
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := e.file.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if e.headerStyle > 0 {
			e.file.SetCellStyle(sheet, cell, cell, e.headerStyle)
		}
	}

	if e.options.FreezeHeader {
		e.file.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}

	return nil
}

// writeRows writes data rows below the header
func (e *WorkbookExporter) writeRows(sheet string, columns []string, rows [][]interface{}) error {
	startRow := 1
	if e.options.IncludeHeader {
		startRow = 2
	}

	columnWidths := make(map[int]float64)
	for i, col := range columns {
		columnWidths[i] = estimateCellWidth(col)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, startRow+rowIdx)
			if err := e.setCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}

			if width := estimateCellWidth(val); width > columnWidths[colIdx] {
				columnWidths[colIdx] = width
			}
		}
	}

	if e.options.AutoFilter && e.options.IncludeHeader && len(rows) > 0 {
		lastCol, _ := excelize.CoordinatesToCellName(len(columns), 1)
		e.file.AutoFilter(sheet, "A1:"+lastCol, nil)
	}

	if e.options.AutoWidth {
		for colIdx, width := range columnWidths {
			colName, _ := excelize.ColumnNumberToName(colIdx + 1)
			// Min width 10, max width 50
			if width < 10 {
				width = 10
			}
			if width > 50 {
				width = 50
			}
			e.file.SetColWidth(sheet, colName, colName, width)
		}
	}

	return nil
}

// setCellValue sets a cell value with the data or number style
func (e *WorkbookExporter) setCellValue(sheet, cell string, val interface{}) error {
	style := e.dataStyle

	switch v := val.(type) {
	case nil:
		val = ""
	case *float64:
		if v == nil {
			val = ""
		} else {
			val = *v
			if e.numberStyle > 0 {
				style = e.numberStyle
			}
		}
	case float32, float64:
		if e.numberStyle > 0 {
			style = e.numberStyle
		}
	}

	if err := e.file.SetCellValue(sheet, cell, val); err != nil {
		return err
	}
	if style > 0 {
		return e.file.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

// createStyle creates an Excel style from config
func (e *WorkbookExporter) createStyle(config *ExcelStyleConfig, numberFormat string) (int, error) {
	style := &excelize.Style{}

	style.Font = &excelize.Font{
		Bold: config.FontBold,
		Size: float64(config.FontSize),
	}
	if config.FontColor != "" {
		style.Font.Color = config.FontColor
	}

	if config.FillColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{config.FillColor},
		}
	}

	if config.Alignment != "" || config.WrapText {
		style.Alignment = &excelize.Alignment{
			Horizontal: config.Alignment,
			WrapText:   config.WrapText,
		}
	}

	if config.Border {
		style.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	}

	if numberFormat != "" {
		style.CustomNumFmt = &numberFormat
	}

	return e.file.NewStyle(style)
}

// estimateCellWidth estimates the display width of a cell value
func estimateCellWidth(val interface{}) float64 {
	if val == nil {
		return 0
	}

	str := fmt.Sprintf("%v", val)
	// Rough estimate: 1 character = 1 unit width, plus padding
	return float64(len([]rune(str))) * 1.2
}

// Write writes the workbook to a writer
func (e *WorkbookExporter) Write(w io.Writer) error {
	return e.file.Write(w)
}

// Close closes the workbook
func (e *WorkbookExporter) Close() error {
	return e.file.Close()
}

// WriteWorkbook encodes the tables as an xlsx workbook
func WriteWorkbook(w io.Writer, tables []Table, options ExcelOptions) error {
	exporter, err := NewWorkbookExporter(options)
	if err != nil {
		return err
	}
	defer exporter.Close()

	for _, table := range tables {
		if err := exporter.AddTable(table); err != nil {
			return fmt.Errorf("failed to add %s sheet: %w", table.Name, err)
		}
	}

	if err := exporter.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
