package history

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultRecentLimit is the number of recent submissions returned per area
const DefaultRecentLimit = 5

// Submission is one stored survey together with its totals
type Submission struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        string         `gorm:"index" json:"user_id"`
	City          string         `gorm:"not null;index:idx_submission_location" json:"city"`
	Area          string         `gorm:"not null;index:idx_submission_location" json:"area"`
	Survey        datatypes.JSON `json:"survey"`
	CalculatedCO2 float64        `gorm:"not null" json:"calculated_co2"`
	PredictedCO2  *float64       `json:"predicted_co2,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

// TableName overrides the default table name
func (Submission) TableName() string {
	return "footprint_submissions"
}

// BeforeCreate assigns an ID when the database default is not available
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Total is the predicted total when one was stored, otherwise the calculated total
func (s Submission) Total() float64 {
	if s.PredictedCO2 != nil {
		return *s.PredictedCO2
	}
	return s.CalculatedCO2
}

// SubmissionRequest is the body of a new submission
type SubmissionRequest struct {
	Survey       map[string]interface{} `json:"survey" binding:"required"`
	PredictedCO2 *float64               `json:"predicted_co2,omitempty"`
}

// AreaStats summarises the submissions of one area
type AreaStats struct {
	City      string  `json:"city"`
	Area      string  `json:"area"`
	Count     int     `json:"count"`
	AvgCO2    float64 `json:"avg_co2"`
	MedianCO2 float64 `json:"median_co2"`
	MinCO2    float64 `json:"min_co2"`
	MaxCO2    float64 `json:"max_co2"`
	StdDevCO2 float64 `json:"std_dev_co2"`
}
