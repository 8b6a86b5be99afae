package repository

import (
	"context"

	"gorm.io/gorm"

	"questboard/internal/model"
)

// LevelRepository reads the static tier table.
type LevelRepository interface {
	// ListOrdered returns all tiers sorted by RequiredXP ascending.
	ListOrdered(ctx context.Context) ([]model.Level, error)
	Seed(ctx context.Context, levels []model.Level) error
}

type levelRepository struct {
	db *gorm.DB
}

// NewLevelRepository builds a GORM-backed repository.
func NewLevelRepository(db *gorm.DB) LevelRepository {
	return &levelRepository{db: db}
}

func (r *levelRepository) ListOrdered(ctx context.Context) ([]model.Level, error) {
	var levels []model.Level
	if err := r.db.WithContext(ctx).Order("required_xp ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Seed inserts the tier table once; an already-populated table is left alone.
func (r *levelRepository) Seed(ctx context.Context, levels []model.Level) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Level{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&levels).Error
}
