package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, s *Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) Recent(ctx context.Context, city, area string, limit int) ([]Submission, error) {
	args := m.Called(ctx, city, area, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Submission), args.Error(1)
}

func (m *MockRepository) Totals(ctx context.Context, city, area string) ([]float64, error) {
	args := m.Called(ctx, city, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo Repository, start time.Time) *Service {
	s := NewService(repo, zap.NewNop())
	tick := start
	s.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return s
}

func TestRecordComputesTotal(t *testing.T) {
	repo := NewMemoryRepository()
	s := newTestService(repo, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	sub, err := s.Record(context.Background(), "user-1", &SubmissionRequest{
		Survey: map[string]interface{}{
			"city":           "Mumbai",
			"area":           "Worli",
			"transportation": "30",
			"electricity":    150,
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "user-1", sub.UserID)
	assert.Equal(t, 73.8, sub.CalculatedCO2)
	assert.Nil(t, sub.PredictedCO2)

	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(sub.Survey, &stored))
	assert.Equal(t, 30.0, stored["transportation"])

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRecordRequiresLocation(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, time.Now())

	_, err := s.Record(context.Background(), "user-1", &SubmissionRequest{
		Survey: map[string]interface{}{"city": "Mumbai"},
	})

	assert.ErrorIs(t, err, ErrLocationRequired)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*history.Submission")).Return(errors.New("disk full"))
	s := newTestService(repo, time.Now())

	_, err := s.Record(context.Background(), "user-1", &SubmissionRequest{
		Survey: map[string]interface{}{"city": "Mumbai", "area": "Sion"},
	})

	assert.EqualError(t, err, "disk full")
	repo.AssertExpectations(t)
}

func TestRecentUsers(t *testing.T) {
	repo := NewMemoryRepository()
	s := newTestService(repo, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := s.Record(ctx, "user", &SubmissionRequest{
			Survey: map[string]interface{}{"city": "Mumbai", "area": "Worli", "waste": i},
		})
		require.NoError(t, err)
	}
	_, err := s.Record(ctx, "other", &SubmissionRequest{
		Survey: map[string]interface{}{"city": "Mumbai", "area": "Sion", "waste": 100},
	})
	require.NoError(t, err)

	recent, err := s.RecentUsers(ctx, "Mumbai", "Worli", 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, 3.0, recent[0].CalculatedCO2) // waste 6 at 0.5 per kg
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].CreatedAt.After(recent[i].CreatedAt))
	}

	empty, err := s.RecentUsers(ctx, "Navi Mumbai", "Vashi", 3)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestAreaStatsUsesPredictedTotal(t *testing.T) {
	repo := NewMemoryRepository()
	s := newTestService(repo, time.Now())
	ctx := context.Background()

	predicted := 300.0
	requests := []*SubmissionRequest{
		{Survey: map[string]interface{}{"city": "Mumbai", "area": "Worli", "electricity": 200}},
		{Survey: map[string]interface{}{"city": "Mumbai", "area": "Worli", "electricity": 400}},
		{Survey: map[string]interface{}{"city": "Mumbai", "area": "Worli"}, PredictedCO2: &predicted},
	}
	for _, req := range requests {
		_, err := s.Record(ctx, "user", req)
		require.NoError(t, err)
	}

	stats, err := s.AreaStats(ctx, "Mumbai", "Worli")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 90.0, stats.MinCO2)
	assert.Equal(t, 300.0, stats.MaxCO2)
	assert.Equal(t, 180.0, stats.MedianCO2)
	assert.Equal(t, 190.0, stats.AvgCO2)

	totals, err := s.Totals(ctx, "Mumbai", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{90, 180, 300}, totals)
}

func TestAreaStatsRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Totals", mock.Anything, "Mumbai", "Worli").Return(nil, errors.New("timeout"))
	s := newTestService(repo, time.Now())

	_, err := s.AreaStats(context.Background(), "Mumbai", "Worli")
	assert.Error(t, err)
}
