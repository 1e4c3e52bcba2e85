package reports

import (
	"fmt"
	"math"

	"carbon-footprint/footprint-backend/internal/areas"
	"carbon-footprint/footprint-backend/internal/emissions"
	"carbon-footprint/footprint-backend/internal/reports/benchmarks"
	"carbon-footprint/footprint-backend/internal/reports/export"
)

// EcoScore maps a monthly total onto 0-100, where 100 is zero emissions and
// twice the regional baseline scores 0.
func EcoScore(total float64) int {
	score := emissions.RoundInt(100 * (1 - total/(2*emissions.BaseMonthlyCO2)))
	return int(math.Max(0, math.Min(100, score)))
}

// PerformanceLevel classifies a monthly total
func PerformanceLevel(total float64) string {
	switch {
	case total > 300:
		return PerformanceNeedsImprovement
	case total > 250:
		return PerformanceAverage
	default:
		return PerformanceGood
	}
}

func breakdownRows(breakdown []emissions.CategoryEmission, total float64) []BreakdownRow {
	rows := make([]BreakdownRow, 0, len(breakdown))
	for _, e := range breakdown {
		rows = append(rows, BreakdownRow{
			Category:    string(e.Name),
			Value:       e.Value,
			Percentage:  emissions.Round2(emissions.Percentage(e.Value, total)),
			Color:       e.Color,
			Icon:        e.Icon,
			Description: e.Name.Info().Description,
		})
	}
	return rows
}

func forecastRows(points []emissions.ForecastPoint) []ForecastRow {
	rows := make([]ForecastRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, ForecastRow{
			Month:       p.Month,
			MonthNumber: p.MonthNumber,
			Year:        p.Year,
			Current:     p.Current,
			Predicted:   emissions.Round2(p.Predicted),
			Season:      string(p.Season),
			Temperature: fmt.Sprintf("%d°C", p.Temperature),
			Activities:  p.Activities,
			Icon:        p.Season.Info().Icon,
		})
	}
	return rows
}

func seasonalRows(analysis emissions.SeasonalAnalysis) []SeasonalRow {
	rows := make([]SeasonalRow, 0, len(analysis.MonthlyData))
	for _, m := range analysis.MonthlyData {
		rows = append(rows, SeasonalRow{
			Season:      string(m.Season),
			Month:       m.Month,
			CO2Value:    m.Emissions,
			Temperature: fmt.Sprintf("%d°C", m.Temperature),
			Activities:  m.Activities,
			Icon:        m.Icon,
			Color:       m.Color,
		})
	}
	return rows
}

func peerRows(result *benchmarks.ComparisonResult) []PeerRow {
	if result == nil {
		return []PeerRow{}
	}
	data := result.ComparisonData
	user := data.User
	return []PeerRow{
		{Label: user.Label, Emissions: user.Emissions, PercentageDiff: user.PercentageDiff, Percentile: result.PercentileRanking, Color: user.Color},
		{Label: data.AreaAvg.Label, Emissions: data.AreaAvg.Emissions, PercentageDiff: data.AreaAvg.PercentageDiff, Color: data.AreaAvg.Color},
		{Label: data.CityAvg.Label, Emissions: data.CityAvg.Emissions, PercentageDiff: data.CityAvg.PercentageDiff, Color: data.CityAvg.Color},
	}
}

func areaRows(city, area string) []AreaRow {
	f := areas.SectorEmissions(city, area)
	return []AreaRow{{
		Area:         area,
		City:         city,
		Residential:  f.Residential,
		Corporate:    f.Corporate,
		Industrial:   f.Industrial,
		Vehicular:    f.Vehicular,
		Construction: f.Construction,
		Airport:      f.Airport,
		Total:        emissions.Round2(f.Total()),
	}}
}

// GenerateInsights flags categories that dominate the breakdown
func GenerateInsights(rows []BreakdownRow) []Insight {
	insights := []Insight{}
	for _, row := range rows {
		switch emissions.Category(row.Category) {
		case emissions.CategoryTransportation:
			if row.Percentage > 30 {
				insights = append(insights, Insight{
					Type:     InsightWarning,
					Title:    "High Transportation Impact",
					Message:  fmt.Sprintf("Transportation accounts for %.1f%% of your emissions.", row.Percentage),
					Icon:     "🚗",
					Priority: 1,
					Category: row.Category,
				})
			}
		case emissions.CategoryElectricity:
			if row.Percentage > 25 {
				insights = append(insights, Insight{
					Type:     InsightInfo,
					Title:    "Electricity Optimization",
					Message:  fmt.Sprintf("Electricity usage is %.1f%% of your footprint.", row.Percentage),
					Icon:     "⚡",
					Priority: 2,
					Category: row.Category,
				})
			}
		case emissions.CategoryAirTravel:
			if row.Value > 50 {
				insights = append(insights, Insight{
					Type:     InsightWarning,
					Title:    "Air Travel Impact",
					Message:  fmt.Sprintf("Air travel contributes %.1f kg CO₂.", row.Value),
					Icon:     "✈️",
					Priority: 1,
					Category: row.Category,
				})
			}
		}
	}
	return insights
}

// Tables lays the report out as the tables shared by the CSV and Excel exports
func (r *PowerBIReport) Tables() []export.Table {
	m := r.UserMetrics
	metrics := export.Table{
		Name:    "UserMetrics",
		Columns: []string{"Table", "Field", "Value"},
	}
	for _, field := range []struct {
		name  string
		value interface{}
	}{
		{"userId", m.UserID},
		{"userName", m.UserName},
		{"city", m.City},
		{"area", m.Area},
		{"calculatedTotal", m.CalculatedTotal},
		{"recyclingCredit", m.RecyclingCredit},
		{"ecoScore", m.EcoScore},
		{"performanceLevel", m.PerformanceLevel},
		{"reportDate", m.ReportDate},
		{"nextMonthPrediction", m.NextMonthPrediction},
		{"expectedChange", m.ExpectedChange},
		{"predictionSource", m.PredictionSource},
		{"modelUsed", m.ModelUsed},
	} {
		metrics.Rows = append(metrics.Rows, []interface{}{"UserMetrics", field.name, field.value})
	}

	breakdown := export.Table{
		Name:    "CO2Breakdown",
		Columns: []string{"Category", "Value", "Percentage", "Color", "Description"},
	}
	for _, b := range r.CO2Breakdown {
		breakdown.Rows = append(breakdown.Rows, []interface{}{b.Category, b.Value, b.Percentage, b.Color, b.Description})
	}

	forecast := export.Table{
		Name:    "ForecastData",
		Columns: []string{"Month", "MonthNumber", "Year", "Current", "Predicted", "Season", "Temperature", "Activities", "Icon"},
	}
	for _, f := range r.ForecastData {
		forecast.Rows = append(forecast.Rows, []interface{}{f.Month, f.MonthNumber, f.Year, f.Current, f.Predicted, f.Season, f.Temperature, f.Activities, f.Icon})
	}

	seasonal := export.Table{
		Name:    "SeasonalData",
		Columns: []string{"Season", "Month", "CO2Value", "Temperature", "Activities", "Icon", "Color"},
	}
	for _, s := range r.SeasonalData {
		seasonal.Rows = append(seasonal.Rows, []interface{}{s.Season, s.Month, s.CO2Value, s.Temperature, s.Activities, s.Icon, s.Color})
	}

	peers := export.Table{
		Name:    "PeerComparison",
		Columns: []string{"Label", "Emissions", "PercentageDiff", "Percentile", "Color"},
	}
	for _, p := range r.PeerComparison {
		peers.Rows = append(peers.Rows, []interface{}{p.Label, p.Emissions, p.PercentageDiff, p.Percentile, p.Color})
	}

	area := export.Table{
		Name:    "AreaAnalysis",
		Columns: []string{"Area", "City", "Residential", "Corporate", "Industrial", "Vehicular", "Construction", "Airport", "Total"},
	}
	for _, a := range r.AreaAnalysis {
		area.Rows = append(area.Rows, []interface{}{a.Area, a.City, a.Residential, a.Corporate, a.Industrial, a.Vehicular, a.Construction, a.Airport, a.Total})
	}

	insights := export.Table{
		Name:    "Insights",
		Columns: []string{"Type", "Title", "Message", "Icon", "Priority", "Category"},
	}
	for _, i := range r.Insights {
		insights.Rows = append(insights.Rows, []interface{}{i.Type, i.Title, i.Message, i.Icon, i.Priority, i.Category})
	}

	return []export.Table{metrics, breakdown, forecast, seasonal, peers, area, insights}
}
