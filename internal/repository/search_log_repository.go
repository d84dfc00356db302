package repository

import (
	"fmt"

	"gorm.io/gorm"

	"resumescout/internal/model"
)

type SearchLogRepository struct {
	db *gorm.DB
}

func NewSearchLogRepository(db *gorm.DB) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

func (r *SearchLogRepository) Create(entry *model.SearchLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create search log failed: %w", err)
	}
	return nil
}

func (r *SearchLogRepository) ListByRecruiterID(recruiterID uint, limit int) ([]model.SearchLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []model.SearchLog
	if err := r.db.
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list search logs failed: %w", err)
	}
	return entries, nil
}
