package benchmarks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTotalsRepository is a mock implementation of the TotalsRepository interface
type MockTotalsRepository struct {
	mock.Mock
}

func (m *MockTotalsRepository) Totals(ctx context.Context, city, area string) ([]float64, error) {
	args := m.Called(ctx, city, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func floatPtr(v float64) *float64 { return &v }

func TestCompareWithPeers(t *testing.T) {
	repo := new(MockTotalsRepository)
	repo.On("Totals", mock.Anything, "Mumbai", "Worli").Return([]float64{230, 250}, nil)
	repo.On("Totals", mock.Anything, "Mumbai", "").Return([]float64{230, 250, 260, 220}, nil)

	c := NewComparator(repo, zap.NewNop())
	result, err := c.Compare(context.Background(), &ComparisonRequest{
		City:          "Mumbai",
		Area:          "Worli",
		UserEmissions: floatPtr(300),
	})

	require.NoError(t, err)
	assert.Equal(t, 240.0, result.ComparisonData.AreaAvg.Emissions)
	assert.Equal(t, "Worli Avg", result.ComparisonData.AreaAvg.Label)
	assert.Equal(t, 25.0, result.ComparisonData.AreaAvg.PercentageDiff)
	assert.Equal(t, 240.0, result.ComparisonData.CityAvg.Emissions)
	assert.Equal(t, "You", result.ComparisonData.User.Label)
	assert.Equal(t, "You emit 25.0% more than the average resident in Worli", result.Insights.AreaMessage)
	assert.Equal(t, "You emit 25.0% more than the Mumbai average", result.Insights.CityMessage)
	assert.Equal(t, 100.0, result.PercentileRanking)
	assert.Equal(t, 2, result.AreaStats.Count)

	require.Len(t, result.GapAnalysis, 2)
	assert.Equal(t, "area_average", result.GapAnalysis[0].Metric)
	assert.Equal(t, "medium", result.GapAnalysis[0].Priority)
	assert.Equal(t, "above", result.GapAnalysis[0].Direction)
	repo.AssertExpectations(t)
}

func TestCompareFallsBackWithoutSubmissions(t *testing.T) {
	repo := new(MockTotalsRepository)
	repo.On("Totals", mock.Anything, DefaultCity, DefaultArea).Return([]float64{}, nil)
	repo.On("Totals", mock.Anything, DefaultCity, "").Return(nil, nil)

	c := NewComparator(repo, zap.NewNop())
	result, err := c.Compare(context.Background(), &ComparisonRequest{UserEmissions: floatPtr(235)})

	require.NoError(t, err)
	assert.Equal(t, DefaultAreaAverage, result.ComparisonData.AreaAvg.Emissions)
	assert.Equal(t, DefaultCityAverage, result.ComparisonData.CityAvg.Emissions)
	assert.Equal(t, -2.1, result.ComparisonData.AreaAvg.PercentageDiff)
	assert.Equal(t, "You emit 2.1% less than the average resident in Andheri", result.Insights.AreaMessage)
	assert.Equal(t, "You emit 0.0% less than the Mumbai average", result.Insights.CityMessage)
	assert.Equal(t, 50.0, result.PercentileRanking)
	assert.Equal(t, BenchmarkStats{}, result.CityStats)
}

func TestCompareDefaultsUserEmissions(t *testing.T) {
	repo := new(MockTotalsRepository)
	repo.On("Totals", mock.Anything, mock.Anything, mock.Anything).Return([]float64{}, nil)

	c := NewComparator(repo, zap.NewNop())
	result, err := c.Compare(context.Background(), &ComparisonRequest{City: "Navi Mumbai", Area: "Vashi"})

	require.NoError(t, err)
	assert.Equal(t, DefaultUserEmissions, result.ComparisonData.User.Emissions)
	assert.Equal(t, "Navi Mumbai Avg", result.ComparisonData.CityAvg.Label)
}

func TestCompareRepositoryError(t *testing.T) {
	repo := new(MockTotalsRepository)
	repo.On("Totals", mock.Anything, "Mumbai", "Sion").Return(nil, errors.New("connection refused"))

	c := NewComparator(repo, zap.NewNop())
	_, err := c.Compare(context.Background(), &ComparisonRequest{City: "Mumbai", Area: "Sion"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get area totals")
}

func TestPercentageDiff(t *testing.T) {
	assert.Equal(t, 0.0, PercentageDiff(100, 0))
	assert.Equal(t, 0.0, PercentageDiff(100, -5))
	assert.Equal(t, 50.0, PercentageDiff(150, 100))
	assert.Equal(t, -33.3, PercentageDiff(200, 300))
}

func TestDeterminePriority(t *testing.T) {
	assert.Equal(t, "high", determinePriority(-30))
	assert.Equal(t, "medium", determinePriority(25))
	assert.Equal(t, "low", determinePriority(10))
}

func TestCalculateStatistics(t *testing.T) {
	stats := CalculateStatistics([]float64{4, 1, 3, 2})

	assert.Equal(t, 2.5, stats.Mean)
	assert.Equal(t, 2.5, stats.Median)
	assert.InDelta(t, 1.118, stats.StdDev, 0.001)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 4.0, stats.Max)
	assert.InDelta(t, 1.75, stats.P25, 1e-9)
	assert.InDelta(t, 3.25, stats.P75, 1e-9)
	assert.InDelta(t, 3.7, stats.P90, 1e-9)
	assert.Equal(t, 4, stats.Count)

	assert.Equal(t, BenchmarkStats{}, CalculateStatistics(nil))
}
