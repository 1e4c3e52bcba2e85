package history

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// Repository stores and queries submissions
type Repository interface {
	Create(ctx context.Context, s *Submission) error
	Recent(ctx context.Context, city, area string, limit int) ([]Submission, error)
	// Totals returns the effective total of every submission in a city, or in
	// one area of it when area is not empty.
	Totals(ctx context.Context, city, area string) ([]float64, error)
	Count(ctx context.Context) (int64, error)
}

// GormRepository implements Repository on PostgreSQL
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository migrates the submissions table and returns the repository
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&Submission{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Create(ctx context.Context, s *Submission) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *GormRepository) Recent(ctx context.Context, city, area string, limit int) ([]Submission, error) {
	var submissions []Submission
	err := r.db.WithContext(ctx).
		Where("city = ? AND area = ?", city, area).
		Order("created_at DESC").
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent submissions: %w", err)
	}
	return submissions, nil
}

func (r *GormRepository) Totals(ctx context.Context, city, area string) ([]float64, error) {
	query := r.db.WithContext(ctx).Model(&Submission{}).Where("city = ?", city)
	if area != "" {
		query = query.Where("area = ?", area)
	}

	var totals []float64
	if err := query.Pluck("COALESCE(predicted_co2, calculated_co2)", &totals).Error; err != nil {
		return nil, fmt.Errorf("failed to get submission totals: %w", err)
	}
	return totals, nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Submission{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

// MemoryRepository keeps submissions in process memory
type MemoryRepository struct {
	mu          sync.RWMutex
	submissions []Submission
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, s *Submission) error {
	if err := s.BeforeCreate(nil); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, *s)
	return nil
}

func (r *MemoryRepository) Recent(_ context.Context, city, area string, limit int) ([]Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Submission
	for _, s := range r.submissions {
		if s.City == city && s.Area == area {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) Totals(_ context.Context, city, area string) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var totals []float64
	for _, s := range r.submissions {
		if s.City != city || (area != "" && s.Area != area) {
			continue
		}
		totals = append(totals, s.Total())
	}
	return totals, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.submissions)), nil
}
