package survey

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
)

// Service provides survey persistence per user
type Service struct {
	store  BlobStore
	logger *zap.Logger
}

// NewService creates a new survey service
func NewService(store BlobStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// RepositoryFor returns the survey repository of one user
func (s *Service) RepositoryFor(userID string) emissions.SurveyRepository {
	return NewRepository(s.store, userID, s.logger)
}

// Get returns the user's survey, or the default survey when none is usable.
// The boolean reports whether the stored survey was used.
func (s *Service) Get(ctx context.Context, userID string) (*emissions.SurveyInput, bool, error) {
	input, stored, err := emissions.LoadOrDefault(ctx, s.RepositoryFor(userID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to get survey: %w", err)
	}
	return input, stored, nil
}

// Save decodes a loosely typed survey and stores it
func (s *Service) Save(ctx context.Context, userID string, raw map[string]interface{}) (*emissions.SurveyInput, error) {
	input, err := emissions.DecodeSurvey(raw)
	if err != nil {
		return nil, err
	}
	if err := s.RepositoryFor(userID).Save(ctx, input); err != nil {
		return nil, err
	}

	s.logger.Info("Survey saved", zap.String("user_id", userID))
	return input, nil
}

// Delete removes the user's survey
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID, emissions.SurveyStorageKey); err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}
	return nil
}
