package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
)

type MockSurveySource struct {
	mock.Mock
}

func (m *MockSurveySource) Get(ctx context.Context, userID string) (*emissions.SurveyInput, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*emissions.SurveyInput), args.Bool(1), args.Error(2)
}

func setupRouter(surveys SurveySource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})
	NewHandler(surveys, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

type listResponse struct {
	HighImpactAreas []Group          `json:"high_impact_areas"`
	Recommendations []Recommendation `json:"recommendations"`
	City            string           `json:"city"`
	Area            string           `json:"area"`
}

func TestHandlerRecommendationsForStoredSurvey(t *testing.T) {
	surveys := new(MockSurveySource)
	surveys.On("Get", mock.Anything, "user-1").Return(&emissions.SurveyInput{MeatMeals: 30, Diet: "Omnivore"}, true, nil)
	router := setupRouter(surveys)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []Group{GroupDiet, GroupWaste}, body.HighImpactAreas)
	assert.NotEmpty(t, body.Recommendations)
	assert.LessOrEqual(t, len(body.Recommendations), MaxRecommendations)
}

func TestHandlerRecommendationsStoreError(t *testing.T) {
	surveys := new(MockSurveySource)
	surveys.On("Get", mock.Anything, "user-1").Return(nil, false, errors.New("connection refused"))
	router := setupRouter(surveys)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandlerAreaRecommendationsExplicit(t *testing.T) {
	surveys := new(MockSurveySource)
	router := setupRouter(surveys)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/area?city=Navi%20Mumbai&area=Taloja&co2=5000", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Taloja", body.Area)

	titles := make([]string, len(body.Recommendations))
	for i, r := range body.Recommendations {
		titles[i] = r.Title
	}
	assert.Contains(t, titles, "Air Quality Awareness")
	assert.Contains(t, titles, "Comprehensive Carbon Audit")
	surveys.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestHandlerAreaRecommendationsFromSurvey(t *testing.T) {
	surveys := new(MockSurveySource)
	surveys.On("Get", mock.Anything, "user-1").Return(&emissions.SurveyInput{City: "Mumbai", Area: "Worli", Electricity: 100}, true, nil)
	router := setupRouter(surveys)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/area", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Mumbai", body.City)
	assert.Equal(t, "Worli", body.Area)
	assert.NotEmpty(t, body.Recommendations)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/area?city=Mumbai&co2=high", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
