package emissions

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Regional baseline for per-person monthly emissions across the surveyed areas
const (
	BaseMonthlyCO2      = 235.0
	postMonsoonBaseline = 240.50
)

var seasonMultipliers = map[Season]float64{
	SeasonWinter:  1.00,
	SeasonSummer:  1.05,
	SeasonMonsoon: 0.95,
}

// SeasonalMonth is one calendar month of the seasonal analysis
type SeasonalMonth struct {
	Month       string  `json:"month"`
	Season      Season  `json:"season"`
	Emissions   float64 `json:"emissions"`
	Temperature int     `json:"temperature"`
	SeasonInfo
}

// SeasonStats summarises the monthly emissions that fall in one season
type SeasonStats struct {
	Season       Season  `json:"season"`
	AvgEmissions float64 `json:"avg_emissions"`
	StdEmissions float64 `json:"std_emissions"`
	MinEmissions float64 `json:"min_emissions"`
	MaxEmissions float64 `json:"max_emissions"`
	Count        int     `json:"count"`
}

// SeasonalAnalysis is the seasonal view of regional emissions
type SeasonalAnalysis struct {
	MonthlyData   []SeasonalMonth `json:"monthly_data"`
	SeasonalStats []SeasonStats   `json:"seasonal_stats"`
	CurrentSeason Season          `json:"current_season"`
}

func seasonBaseline(s Season) float64 {
	if m, ok := seasonMultipliers[s]; ok {
		return BaseMonthlyCO2 * m
	}
	return postMonsoonBaseline
}

// ComputeSeasonalAnalysis builds the January to December profile and per-season
// statistics for the given moment.
func ComputeSeasonalAnalysis(now time.Time) SeasonalAnalysis {
	monthly := make([]SeasonalMonth, 0, 12)
	bySeason := make(map[Season][]float64)

	for i := 0; i < 12; i++ {
		month := time.Month(i + 1)
		season := IndianSeason(month)
		variation := float64(i%3-1)*3.5 + float64(i%2)*1.25
		value := Round2(seasonBaseline(season) + variation)

		monthly = append(monthly, SeasonalMonth{
			Month:       month.String()[:3],
			Season:      season,
			Emissions:   value,
			Temperature: ProfileForMonth(month).Temperature,
			SeasonInfo:  season.Info(),
		})
		bySeason[season] = append(bySeason[season], value)
	}

	var stats []SeasonStats
	for _, season := range []Season{SeasonWinter, SeasonSummer, SeasonMonsoon, SeasonPostMonsoon} {
		values := bySeason[season]
		if len(values) == 0 {
			continue
		}
		s := SeasonStats{
			Season:       season,
			AvgEmissions: Round2(stat.Mean(values, nil)),
			MinEmissions: Round2(floats.Min(values)),
			MaxEmissions: Round2(floats.Max(values)),
			Count:        len(values),
		}
		if len(values) > 1 {
			s.StdEmissions = Round2(stat.StdDev(values, nil))
		}
		stats = append(stats, s)
	}

	return SeasonalAnalysis{
		MonthlyData:   monthly,
		SeasonalStats: stats,
		CurrentSeason: IndianSeason(now.Month()),
	}
}
