package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Table is a named block of rows sharing one header
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// CSVExporter exports data to CSV format
type CSVExporter struct {
	writer  *csv.Writer
	options CSVOptions
}

// CSVOptions configures CSV export behavior
type CSVOptions struct {
	Delimiter       rune   `json:"delimiter"`        // Field delimiter (default: comma)
	UseCRLF         bool   `json:"use_crlf"`         // Use \r\n for line terminator
	IncludeHeader   bool   `json:"include_header"`   // Include column headers
	DateFormat      string `json:"date_format"`      // Format for date fields
	TimestampFormat string `json:"timestamp_format"` // Format for timestamp fields
	NumberFormat    string `json:"number_format"`    // Format for numbers (e.g., "%.2f")
	NullValue       string `json:"null_value"`       // String to use for null values
	BoolTrueValue   string `json:"bool_true_value"`  // String for true
	BoolFalseValue  string `json:"bool_false_value"` // String for false
}

// DefaultCSVOptions returns default CSV export options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:       ',',
		UseCRLF:         false,
		IncludeHeader:   true,
		DateFormat:      "2006-01-02",
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		NumberFormat:    "",
		NullValue:       "",
		BoolTrueValue:   "true",
		BoolFalseValue:  "false",
	}
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(w io.Writer, options CSVOptions) *CSVExporter {
	writer := csv.NewWriter(w)
	writer.Comma = options.Delimiter
	writer.UseCRLF = options.UseCRLF

	return &CSVExporter{
		writer:  writer,
		options: options,
	}
}

// WriteHeader writes the CSV header row
func (e *CSVExporter) WriteHeader(columns []string) error {
	if !e.options.IncludeHeader {
		return nil
	}

	if err := e.writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteRow writes a single row of data
func (e *CSVExporter) WriteRow(row []interface{}) error {
	record := make([]string, len(row))
	for i, val := range row {
		record[i] = e.formatValue(val)
	}

	if err := e.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// WriteRows writes multiple rows of data
func (e *CSVExporter) WriteRows(rows [][]interface{}) error {
	for _, row := range rows {
		if err := e.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTables writes each table with its own header, separated by an empty line
func (e *CSVExporter) WriteTables(tables []Table) error {
	for i, table := range tables {
		if i > 0 {
			if err := e.writer.Write([]string{}); err != nil {
				return fmt.Errorf("failed to write separator: %w", err)
			}
		}
		if err := e.WriteHeader(table.Columns); err != nil {
			return fmt.Errorf("failed to write %s: %w", table.Name, err)
		}
		if err := e.WriteRows(table.Rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", table.Name, err)
		}
	}
	return e.Flush()
}

// Flush writes any buffered data to the underlying writer
func (e *CSVExporter) Flush() error {
	e.writer.Flush()
	return e.writer.Error()
}

// formatValue formats a value for CSV output
func (e *CSVExporter) formatValue(val interface{}) string {
	if val == nil {
		return e.options.NullValue
	}

	switch v := val.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		if e.options.NumberFormat != "" {
			return fmt.Sprintf(e.options.NumberFormat, v)
		}
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		if e.options.NumberFormat != "" {
			return fmt.Sprintf(e.options.NumberFormat, v)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return e.options.NullValue
		}
		return e.formatValue(*v)
	case bool:
		if v {
			return e.options.BoolTrueValue
		}
		return e.options.BoolFalseValue
	case time.Time:
		if v.IsZero() {
			return e.options.NullValue
		}
		// Use timestamp format for times with non-zero time component
		if v.Hour() != 0 || v.Minute() != 0 || v.Second() != 0 {
			return v.Format(e.options.TimestampFormat)
		}
		return v.Format(e.options.DateFormat)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// WriteCSV encodes the tables as one CSV document with default options
func WriteCSV(w io.Writer, tables []Table) error {
	return NewCSVExporter(w, DefaultCSVOptions()).WriteTables(tables)
}
