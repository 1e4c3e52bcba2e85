package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
)

// Repository adapts a BlobStore to emissions.SurveyRepository for one user
type Repository struct {
	store  BlobStore
	userID string
	logger *zap.Logger
}

// NewRepository creates a survey repository scoped to userID
func NewRepository(store BlobStore, userID string, logger *zap.Logger) *Repository {
	return &Repository{
		store:  store,
		userID: userID,
		logger: logger,
	}
}

// Load returns emissions.ErrNoSurvey when nothing is stored or the stored
// document cannot be parsed.
func (r *Repository) Load(ctx context.Context) (*emissions.SurveyInput, error) {
	data, err := r.store.Get(ctx, r.userID, emissions.SurveyStorageKey)
	if errors.Is(err, ErrNotFound) {
		return nil, emissions.ErrNoSurvey
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load survey: %w", err)
	}

	input, err := emissions.ParseSurvey(data)
	if err != nil {
		r.logger.Warn("Discarding malformed survey data",
			zap.String("user_id", r.userID),
			zap.Error(err))
		return nil, emissions.ErrNoSurvey
	}
	return input, nil
}

// Save stores the survey as JSON
func (r *Repository) Save(ctx context.Context, input *emissions.SurveyInput) error {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to encode survey: %w", err)
	}
	if err := r.store.Put(ctx, r.userID, emissions.SurveyStorageKey, data); err != nil {
		return fmt.Errorf("failed to save survey: %w", err)
	}
	return nil
}
