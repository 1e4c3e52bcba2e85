package reports

import (
	"time"
)

// =====================================================
// Enums
// =====================================================

// ExportFormat represents the output format of a report export
type ExportFormat string

const (
	ExportFormatCSV   ExportFormat = "csv"
	ExportFormatExcel ExportFormat = "excel"
	ExportFormatJSON  ExportFormat = "json"
)

// Valid reports whether the format is supported
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportFormatCSV, ExportFormatExcel, ExportFormatJSON:
		return true
	}
	return false
}

// Extension returns the file extension used for the format
func (f ExportFormat) Extension() string {
	if f == ExportFormatExcel {
		return "xlsx"
	}
	return string(f)
}

// ContentType returns the MIME type of the format
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv; charset=utf-8"
	case ExportFormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Performance levels derived from the calculated total
const (
	PerformanceGood             = "Good"
	PerformanceAverage          = "Average"
	PerformanceNeedsImprovement = "Needs Improvement"
)

// Insight types
const (
	InsightWarning = "warning"
	InsightInfo    = "info"
)

// =====================================================
// Report Tables
// =====================================================

// UserMetrics is the single-row summary of a user's footprint. The calculated
// total and the next-month prediction come from different sources and are
// reported side by side.
type UserMetrics struct {
	UserID              string  `json:"userId"`
	UserName            string  `json:"userName"`
	City                string  `json:"city"`
	Area                string  `json:"area"`
	CalculatedTotal     float64 `json:"calculatedTotal"`
	RecyclingCredit     float64 `json:"recyclingCredit"`
	EcoScore            int     `json:"ecoScore"`
	PerformanceLevel    string  `json:"performanceLevel"`
	ReportDate          string  `json:"reportDate"`
	NextMonthPrediction float64 `json:"nextMonthPrediction"`
	ExpectedChange      float64 `json:"expectedChange"`
	PredictionSource    string  `json:"predictionSource"`
	ModelUsed           string  `json:"modelUsed"`
}

// BreakdownRow is one category of the CO2 breakdown
type BreakdownRow struct {
	Category    string  `json:"category"`
	Value       float64 `json:"value"`
	Percentage  float64 `json:"percentage"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// ForecastRow is one month of the forecast with its climate profile
type ForecastRow struct {
	Month       string   `json:"month"`
	MonthNumber int      `json:"monthNumber"`
	Year        int      `json:"year"`
	Current     *float64 `json:"current"`
	Predicted   float64  `json:"predicted"`
	Season      string   `json:"season"`
	Temperature string   `json:"temperature"`
	Activities  string   `json:"activities"`
	Icon        string   `json:"icon"`
}

// SeasonalRow is one month of the regional seasonal profile
type SeasonalRow struct {
	Season      string  `json:"season"`
	Month       string  `json:"month"`
	CO2Value    float64 `json:"co2Value"`
	Temperature string  `json:"temperature"`
	Activities  string  `json:"activities"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
}

// PeerRow compares the user against one peer group
type PeerRow struct {
	Label          string  `json:"label"`
	Emissions      float64 `json:"emissions"`
	PercentageDiff float64 `json:"percentageDiff"`
	Percentile     float64 `json:"percentile"`
	Color          string  `json:"color"`
}

// AreaRow is the sector profile of the user's area
type AreaRow struct {
	Area         string  `json:"area"`
	City         string  `json:"city"`
	Residential  float64 `json:"residential"`
	Corporate    float64 `json:"corporate"`
	Industrial   float64 `json:"industrial"`
	Vehicular    float64 `json:"vehicular"`
	Construction float64 `json:"construction"`
	Airport      float64 `json:"airport"`
	Total        float64 `json:"total"`
}

// Insight is a short observation about the breakdown
type Insight struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Icon     string `json:"icon"`
	Priority int    `json:"priority"`
	Category string `json:"category"`
}

// PowerBIReport is the full dataset exported for BI tools
type PowerBIReport struct {
	UserMetrics    UserMetrics    `json:"userMetrics"`
	CO2Breakdown   []BreakdownRow `json:"co2Breakdown"`
	ForecastData   []ForecastRow  `json:"forecastData"`
	SeasonalData   []SeasonalRow  `json:"seasonalData"`
	PeerComparison []PeerRow      `json:"peerComparison"`
	AreaAnalysis   []AreaRow      `json:"areaAnalysis"`
	Insights       []Insight      `json:"insights"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

// ExportResult is an encoded report ready to be served or stored
type ExportResult struct {
	Format      ExportFormat `json:"format"`
	FileName    string       `json:"file_name"`
	ContentType string       `json:"content_type"`
	Data        []byte       `json:"-"`
	Size        int          `json:"size"`
}
