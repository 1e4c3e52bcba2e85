package emissions

import (
	"context"
	"errors"
)

// SurveyStorageKey is the key the survey blob is persisted under
const SurveyStorageKey = "userSurveyData"

// ErrNoSurvey is returned by repositories when nothing usable is stored
var ErrNoSurvey = errors.New("no survey data")

// SurveyRepository persists the survey input
type SurveyRepository interface {
	// Load returns ErrNoSurvey when nothing is stored or the stored blob is malformed.
	Load(ctx context.Context) (*SurveyInput, error)
	Save(ctx context.Context, input *SurveyInput) error
}

// LoadOrDefault loads the stored survey and falls back to DefaultSurvey when
// none is usable. The boolean reports whether stored data was used.
func LoadOrDefault(ctx context.Context, repo SurveyRepository) (*SurveyInput, bool, error) {
	input, err := repo.Load(ctx)
	if errors.Is(err, ErrNoSurvey) {
		return DefaultSurvey(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return input, true, nil
}
