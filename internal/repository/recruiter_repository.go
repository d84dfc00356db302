package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resumescout/internal/model"
)

type RecruiterRepository struct {
	db *gorm.DB
}

func NewRecruiterRepository(db *gorm.DB) *RecruiterRepository {
	return &RecruiterRepository{db: db}
}

func (r *RecruiterRepository) Create(recruiter *model.Recruiter) error {
	if err := r.db.Create(recruiter).Error; err != nil {
		return fmt.Errorf("create recruiter failed: %w", err)
	}
	return nil
}

func (r *RecruiterRepository) GetByUsername(username string) (*model.Recruiter, error) {
	var recruiter model.Recruiter
	if err := r.db.Where("username = ?", username).First(&recruiter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query recruiter by username failed: %w", err)
	}
	return &recruiter, nil
}

func (r *RecruiterRepository) GetByEmail(email string) (*model.Recruiter, error) {
	var recruiter model.Recruiter
	if err := r.db.Where("email = ?", email).First(&recruiter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query recruiter by email failed: %w", err)
	}
	return &recruiter, nil
}

func (r *RecruiterRepository) GetByID(id uint) (*model.Recruiter, error) {
	var recruiter model.Recruiter
	if err := r.db.First(&recruiter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query recruiter by id failed: %w", err)
	}
	return &recruiter, nil
}
