package benchmarks

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Fallback averages used when no submissions exist for the area or city
const (
	DefaultAreaAverage = 240.0
	DefaultCityAverage = 235.0
)

// Request defaults applied to missing fields
const (
	DefaultCity          = "Mumbai"
	DefaultArea          = "Andheri"
	DefaultUserEmissions = 1150.0
)

// Comparator compares a user's emissions against their peers
type Comparator struct {
	repository TotalsRepository
	logger     *zap.Logger
}

// TotalsRepository returns stored submission totals for a city, or one area
// of it when area is not empty
type TotalsRepository interface {
	Totals(ctx context.Context, city, area string) ([]float64, error)
}

// BenchmarkStats represents statistics over a set of totals
type BenchmarkStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	Count  int     `json:"count"`
}

// ComparisonRequest represents a peer comparison request
type ComparisonRequest struct {
	City          string   `json:"city"`
	Area          string   `json:"area"`
	UserEmissions *float64 `json:"user_emissions,omitempty"`
}

// PeerEntry is one bar of the comparison chart
type PeerEntry struct {
	Emissions      float64 `json:"emissions"`
	Label          string  `json:"label"`
	Color          string  `json:"color"`
	PercentageDiff float64 `json:"percentage_diff"`
}

// ComparisonData groups the user against both averages
type ComparisonData struct {
	User    PeerEntry `json:"user"`
	AreaAvg PeerEntry `json:"area_avg"`
	CityAvg PeerEntry `json:"city_avg"`
}

// GapItem represents the gap between the user and one average
type GapItem struct {
	Metric        string  `json:"metric"`
	CurrentValue  float64 `json:"current_value"`
	TargetValue   float64 `json:"target_value"`
	Gap           float64 `json:"gap"`
	GapPercentage float64 `json:"gap_percentage"`
	Priority      string  `json:"priority"`  // high, medium, low
	Direction     string  `json:"direction"` // above, below, at_target
}

// Insights holds the sentences shown under the chart
type Insights struct {
	AreaMessage string `json:"area_message"`
	CityMessage string `json:"city_message"`
}

// ComparisonResult represents the result of a peer comparison
type ComparisonResult struct {
	ComparisonData    ComparisonData `json:"comparison_data"`
	AreaStats         BenchmarkStats `json:"area_stats"`
	CityStats         BenchmarkStats `json:"city_stats"`
	PercentileRanking float64        `json:"percentile_ranking"`
	GapAnalysis       []GapItem      `json:"gap_analysis"`
	Insights          Insights       `json:"insights"`
}

// NewComparator creates a new comparator
func NewComparator(repository TotalsRepository, logger *zap.Logger) *Comparator {
	return &Comparator{
		repository: repository,
		logger:     logger,
	}
}

// Compare performs a peer comparison
func (c *Comparator) Compare(ctx context.Context, req *ComparisonRequest) (*ComparisonResult, error) {
	city, area := req.City, req.Area
	if city == "" {
		city = DefaultCity
	}
	if area == "" {
		area = DefaultArea
	}
	user := DefaultUserEmissions
	if req.UserEmissions != nil {
		user = *req.UserEmissions
	}

	areaTotals, err := c.repository.Totals(ctx, city, area)
	if err != nil {
		return nil, fmt.Errorf("failed to get area totals: %w", err)
	}
	cityTotals, err := c.repository.Totals(ctx, city, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get city totals: %w", err)
	}

	c.logger.Debug("Comparing against peers",
		zap.String("city", city),
		zap.String("area", area),
		zap.Int("area_submissions", len(areaTotals)),
		zap.Int("city_submissions", len(cityTotals)))

	areaAvg := average(areaTotals, DefaultAreaAverage)
	cityAvg := average(cityTotals, DefaultCityAverage)
	areaDiff := PercentageDiff(user, areaAvg)
	cityDiff := PercentageDiff(user, cityAvg)

	return &ComparisonResult{
		ComparisonData: ComparisonData{
			User:    PeerEntry{Emissions: user, Label: "You", Color: "#3B82F6"},
			AreaAvg: PeerEntry{Emissions: areaAvg, Label: area + " Avg", Color: "#10B981", PercentageDiff: areaDiff},
			CityAvg: PeerEntry{Emissions: cityAvg, Label: city + " Avg", Color: "#F59E0B", PercentageDiff: cityDiff},
		},
		AreaStats:         CalculateStatistics(areaTotals),
		CityStats:         CalculateStatistics(cityTotals),
		PercentileRanking: percentileRanking(user, cityTotals),
		GapAnalysis: analyzeGaps(user, map[string]float64{
			"area_average": areaAvg,
			"city_average": cityAvg,
		}),
		Insights: Insights{
			AreaMessage: fmt.Sprintf("You emit %.1f%% %s than the average resident in %s", math.Abs(areaDiff), moreOrLess(areaDiff), area),
			CityMessage: fmt.Sprintf("You emit %.1f%% %s than the %s average", math.Abs(cityDiff), moreOrLess(cityDiff), city),
		},
	}, nil
}

// PercentageDiff returns how far value is from avg in percent, rounded to one
// decimal. A non-positive average yields 0.
func PercentageDiff(value, avg float64) float64 {
	if avg <= 0 {
		return 0
	}
	return round1((value - avg) / avg * 100)
}

func moreOrLess(diff float64) string {
	if diff > 0 {
		return "more"
	}
	return "less"
}

// average returns the mean of values rounded to one decimal, or fallback when empty
func average(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return round1(stat.Mean(values, nil))
}

func round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// percentileRanking places value among the peer totals, 0 to 100
func percentileRanking(value float64, peers []float64) float64 {
	if len(peers) == 0 {
		return 50
	}

	sorted := make([]float64, len(peers))
	copy(sorted, peers)
	sort.Float64s(sorted)

	// Find position in sorted array
	position := 0
	for i, v := range sorted {
		if value <= v {
			position = i
			break
		}
		position = i + 1
	}

	percentile := float64(position) / float64(len(sorted)) * 100
	return math.Round(percentile*100) / 100
}

// analyzeGaps analyzes gaps between the user and each target
func analyzeGaps(value float64, targets map[string]float64) []GapItem {
	gaps := make([]GapItem, 0, len(targets))

	for metric, target := range targets {
		gap := value - target
		gapPercentage := 0.0
		if target != 0 {
			gapPercentage = (gap / target) * 100
		}

		direction := "at_target"
		if gap > 0 {
			direction = "above"
		} else if gap < 0 {
			direction = "below"
		}

		gaps = append(gaps, GapItem{
			Metric:        metric,
			CurrentValue:  value,
			TargetValue:   target,
			Gap:           math.Round(gap*100) / 100,
			GapPercentage: math.Round(gapPercentage*100) / 100,
			Priority:      determinePriority(gapPercentage),
			Direction:     direction,
		})
	}

	// Sort by priority, then metric for a stable response
	priorityOrder := map[string]int{"high": 0, "medium": 1, "low": 2}
	sort.Slice(gaps, func(i, j int) bool {
		if priorityOrder[gaps[i].Priority] != priorityOrder[gaps[j].Priority] {
			return priorityOrder[gaps[i].Priority] < priorityOrder[gaps[j].Priority]
		}
		return gaps[i].Metric < gaps[j].Metric
	})

	return gaps
}

// determinePriority determines the priority based on gap percentage
func determinePriority(gapPercentage float64) string {
	absGap := math.Abs(gapPercentage)
	if absGap > 25 {
		return "high"
	} else if absGap > 10 {
		return "medium"
	}
	return "low"
}

// CalculateStatistics calculates statistics from raw values
func CalculateStatistics(values []float64) BenchmarkStats {
	if len(values) == 0 {
		return BenchmarkStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	mean, stdDev := stat.PopMeanStdDev(sorted, nil)

	// Median
	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}

	return BenchmarkStats{
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    sorted[0],
		Max:    sorted[n-1],
		P25:    percentile(sorted, 25),
		P75:    percentile(sorted, 75),
		P90:    percentile(sorted, 90),
		Count:  n,
	}
}

// percentile calculates the p-th percentile of a sorted slice
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
