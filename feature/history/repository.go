package history

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// DefaultLimit is the number of runs returned when no limit is given.
const DefaultLimit = 20

// MaxLimit caps the number of runs returned by List.
const MaxLimit = 500

// Repository stores runs in a gorm database.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the runs table.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate history: %w", err)
	}
	return nil
}

// Record inserts run.
func (r *Repository) Record(ctx context.Context, run *Run) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Run, error) {
	limit = clampLimit(limit)

	var runs []Run
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
