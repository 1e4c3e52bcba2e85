package emissions

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// ForecastMonths is the length of the rolling forecast window
const ForecastMonths = 12

// Default totals used when no prediction is available upstream
const (
	DefaultCurrentTotal   = 366.3
	DefaultPredictedTotal = 402.9
)

// ForecastPoint is one month of the forecast series. Point 0 carries the
// supplied next-month prediction as is; later points are never negative.
type ForecastPoint struct {
	Month       string   `json:"month"` // e.g. "Oct 2026"
	MonthNumber int      `json:"monthNumber"`
	Year        int      `json:"year"`
	IsCurrent   bool     `json:"isCurrent"`
	Current     *float64 `json:"current"`
	Predicted   float64  `json:"predicted"`
	MonthProfile
}

// Forecaster projects totals forward. Its random source and clock are
// injectable so series can be reproduced.
type Forecaster struct {
	rand func() float64
	now  func() time.Time
}

// ForecastOption configures a Forecaster
type ForecastOption func(*Forecaster)

// WithRand sets the uniform [0,1) random source
func WithRand(r func() float64) ForecastOption {
	return func(f *Forecaster) { f.rand = r }
}

// WithClock sets the clock used to anchor the window
func WithClock(now func() time.Time) ForecastOption {
	return func(f *Forecaster) { f.now = now }
}

// SeededRand returns a deterministic uniform source for the given seed
func SeededRand(seed uint64) func() float64 {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Float64
}

// NewForecaster creates a forecaster using math/rand and the wall clock by default
func NewForecaster(opts ...ForecastOption) *Forecaster {
	f := &Forecaster{
		rand: rand.Float64,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Now returns the forecaster's notion of the current time
func (f *Forecaster) Now() time.Time {
	return f.now()
}

// Float64 draws from the forecaster's random source
func (f *Forecaster) Float64() float64 {
	return f.rand()
}

// ComputeForecast builds 12 monthly points starting at the current month.
// The first point carries both totals unchanged. Later points add a linear
// trend, a seasonal offset and up to ±10 of jitter, clamped at zero.
func (f *Forecaster) ComputeForecast(currentTotal, predictedNextMonth float64) []ForecastPoint {
	now := f.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthlyTrend := (predictedNextMonth - currentTotal) / ForecastMonths

	points := make([]ForecastPoint, 0, ForecastMonths)
	for i := 0; i < ForecastMonths; i++ {
		target := start.AddDate(0, i, 0)
		point := ForecastPoint{
			Month:        fmt.Sprintf("%s %d", target.Month().String()[:3], target.Year()),
			MonthNumber:  int(target.Month()),
			Year:         target.Year(),
			MonthProfile: ProfileForMonth(target.Month()),
		}

		if i == 0 {
			current := currentTotal
			point.IsCurrent = true
			point.Current = &current
			point.Predicted = predictedNextMonth
		} else {
			seasonal := (SeasonalFactor(target.Month()) - 1) * 40
			jitter := (f.rand() - 0.5) * 20
			predicted := predictedNextMonth + monthlyTrend*float64(i) + seasonal + jitter
			point.Predicted = math.Max(0, predicted)
		}

		points = append(points, point)
	}
	return points
}

// PredictNextMonth estimates next month's total from the current one when no
// external prediction exists: a 5% baseline rise, a seasonal offset and up to
// ±5 of jitter, clamped at zero.
func (f *Forecaster) PredictNextMonth(currentTotal float64) float64 {
	now := f.now()
	next := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	seasonal := (SeasonalFactor(next.Month()) - 1) * 20
	variation := (f.rand() - 0.5) * 10
	return math.Max(0, currentTotal+currentTotal*0.05+seasonal+variation)
}

// Peak returns the forecast point with the highest prediction
func Peak(points []ForecastPoint) (ForecastPoint, bool) {
	if len(points) == 0 {
		return ForecastPoint{}, false
	}
	peak := points[0]
	for _, p := range points[1:] {
		if p.Predicted > peak.Predicted {
			peak = p
		}
	}
	return peak, true
}
