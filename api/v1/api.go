package v1

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"carbon-footprint/footprint-backend/internal/areas"
	"carbon-footprint/footprint-backend/internal/config"
	"carbon-footprint/footprint-backend/internal/emissions"
	"carbon-footprint/footprint-backend/internal/footprint"
	"carbon-footprint/footprint-backend/internal/history"
	"carbon-footprint/footprint-backend/internal/metrics"
	"carbon-footprint/footprint-backend/internal/prediction"
	"carbon-footprint/footprint-backend/internal/recommendations"
	"carbon-footprint/footprint-backend/internal/reports"
	"carbon-footprint/footprint-backend/internal/reports/benchmarks"
	"carbon-footprint/footprint-backend/internal/reports/dashboard"
	"carbon-footprint/footprint-backend/internal/survey"
	"carbon-footprint/footprint-backend/pkg/storage"
)

// UserHeader carries the caller's user ID
const UserHeader = "X-User-ID"

// DefaultUserID is used when a request carries no user ID
const DefaultUserID = "default"

// Stores holds the persistence backends shared by the API, the worker and the CLI
type Stores struct {
	Surveys survey.BlobStore
	History history.Repository

	db *sqlx.DB
}

// Close releases the database connection, if any
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenStores connects to Postgres when a database host is configured and
// falls back to in-memory stores otherwise. The survey store uses sqlx and
// the submission history uses gorm over the same connection pool.
func OpenStores(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*Stores, error) {
	if !cfg.Enabled() {
		logger.Warn("No database configured, using in-memory stores")
		return &Stores{
			Surveys: survey.NewMemoryStore(),
			History: history.NewMemoryRepository(),
		}, nil
	}

	logger.Info("Connecting to database",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db_name", cfg.DBName))

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	surveys := survey.NewPostgresStore(db)
	if err := surveys.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	historyRepo, err := history.NewGormRepository(gormDB)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Stores{
		Surveys: surveys,
		History: historyRepo,
		db:      db,
	}, nil
}

// OpenObjectStore returns the S3 bucket when one is configured and an
// in-memory store otherwise
func OpenObjectStore(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (storage.ObjectStore, error) {
	if cfg.Bucket == "" {
		logger.Warn("No storage bucket configured, keeping snapshots in memory")
		return storage.NewMemoryStore(), nil
	}
	return storage.NewS3Client(ctx, storage.S3Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UsePathStyle:    cfg.UsePathStyle,
	})
}

// API holds the handlers and services of the footprint API
type API struct {
	Survey          *survey.Handler
	Footprint       *footprint.Handler
	Areas           *areas.Handler
	Recommendations *recommendations.Handler
	History         *history.Handler
	Reports         *reports.Handler

	ReportService *reports.Service
	Cache         *dashboard.ResponseCache
	Metrics       *metrics.Metrics
}

// SetupAPI wires services and handlers over the given stores
func SetupAPI(cfg *config.Config, stores *Stores, m *metrics.Metrics, logger *zap.Logger) *API {
	forecaster := emissions.NewForecaster()
	cache := dashboard.NewResponseCache(cfg.Cache.TTL, m)

	surveyService := survey.NewService(stores.Surveys, logger)
	historyService := history.NewService(stores.History, logger)
	comparator := benchmarks.NewComparator(historyService, logger)
	predictor := prediction.NewClient(cfg.Prediction.URL, cfg.Prediction.Timeout, cfg.Prediction.Retries, forecaster, logger)

	footprintService := footprint.NewService(surveyService, predictor, comparator, forecaster, cache, m, logger)
	reportService := reports.NewService(surveyService, predictor, comparator, forecaster, cache, m, logger)

	return &API{
		Survey:          survey.NewHandler(surveyService, logger),
		Footprint:       footprint.NewHandler(footprintService, logger),
		Areas:           areas.NewHandler(forecaster.Float64, logger),
		Recommendations: recommendations.NewHandler(surveyService, logger),
		History:         history.NewHandler(historyService, logger),
		Reports:         reports.NewHandler(reportService, logger),
		ReportService:   reportService,
		Cache:           cache,
		Metrics:         m,
	}
}

// RegisterRoutes registers every v1 route on the router group
func RegisterRoutes(router *gin.RouterGroup, api *API) {
	router.Use(UserMiddleware())

	api.Survey.RegisterRoutes(router)
	api.Footprint.RegisterRoutes(router)
	api.Areas.RegisterRoutes(router)
	api.Recommendations.RegisterRoutes(router)
	api.History.RegisterRoutes(router)
	api.Reports.RegisterRoutes(router)

	router.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.Cache.Stats())
	})
}

// UserMiddleware stores the caller's user ID under "user_id"
func UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserHeader))
		if userID == "" {
			userID = DefaultUserID
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// CORSMiddleware allows the configured dashboard origins. A "*" entry
// allows every origin.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed["*"] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, "+UserHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
