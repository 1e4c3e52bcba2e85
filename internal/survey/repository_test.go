package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
)

// MockBlobStore is a mock implementation of BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Get(ctx context.Context, userID, key string) ([]byte, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) Put(ctx context.Context, userID, key string, data []byte) error {
	args := m.Called(ctx, userID, key, data)
	return args.Error(0)
}

func (m *MockBlobStore) Delete(ctx context.Context, userID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

func TestRepositoryLoadMalformedFallsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "u1", emissions.SurveyStorageKey, []byte(`{"transportation": 3`)))

	repo := NewRepository(store, "u1", zap.NewNop())
	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, emissions.ErrNoSurvey)

	input, stored, err := emissions.LoadOrDefault(ctx, repo)
	assert.NoError(t, err)
	assert.False(t, stored)
	assert.Equal(t, emissions.DefaultSurvey(), input)
}

func TestRepositoryLoadMissing(t *testing.T) {
	repo := NewRepository(NewMemoryStore(), "nobody", zap.NewNop())

	_, err := repo.Load(context.Background())

	assert.ErrorIs(t, err, emissions.ErrNoSurvey)
}

func TestRepositorySaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store, "u1", zap.NewNop())

	require.NoError(t, repo.Save(ctx, &emissions.SurveyInput{Transportation: 42, Diet: "Vegan"}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42.0, loaded.Transportation)
	assert.Equal(t, "Vegan", loaded.Diet)

	// other users are isolated
	_, err = NewRepository(store, "u2", zap.NewNop()).Load(ctx)
	assert.ErrorIs(t, err, emissions.ErrNoSurvey)
}

func TestRepositoryLoadStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockBlobStore)
	store.On("Get", ctx, "u1", emissions.SurveyStorageKey).Return(nil, errors.New("timeout"))

	_, err := NewRepository(store, "u1", zap.NewNop()).Load(ctx)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, emissions.ErrNoSurvey)
	store.AssertExpectations(t)
}

func TestServiceSaveCoercesInput(t *testing.T) {
	ctx := context.Background()
	store := new(MockBlobStore)
	store.On("Put", ctx, "u1", emissions.SurveyStorageKey, mock.AnythingOfType("[]uint8")).Return(nil)

	service := NewService(store, zap.NewNop())
	input, err := service.Save(ctx, "u1", map[string]interface{}{
		"transportation": "12.5",
		"electricity":    "lots",
	})

	require.NoError(t, err)
	assert.Equal(t, 12.5, input.Transportation)
	assert.Equal(t, 0.0, input.Electricity)
	store.AssertExpectations(t)
}
