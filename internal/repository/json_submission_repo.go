package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/flowcoach-api/internal/models"
)

// JSONSubmissionRepository stores uploaded workflow graph evaluations.
type JSONSubmissionRepository interface {
	Create(ctx context.Context, submission *models.JSONSubmission) error
	LatestByUser(ctx context.Context, userID string) (models.JSONSubmission, error)
	ListByUser(ctx context.Context, userID string) ([]models.JSONSubmission, error)
	ListSince(ctx context.Context, since time.Time) ([]models.JSONSubmission, error)
}

type jsonSubmissionRepository struct {
	db *gorm.DB
}

// NewJSONSubmissionRepository constructs the repository.
func NewJSONSubmissionRepository(db *gorm.DB) JSONSubmissionRepository {
	return &jsonSubmissionRepository{db: db}
}

func (r *jsonSubmissionRepository) Create(ctx context.Context, submission *models.JSONSubmission) error {
	return r.db.WithContext(ctx).Omit("User").Create(submission).Error
}

func (r *jsonSubmissionRepository) LatestByUser(ctx context.Context, userID string) (models.JSONSubmission, error) {
	var submission models.JSONSubmission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&submission).Error; err != nil {
		return models.JSONSubmission{}, err
	}
	return submission, nil
}

func (r *jsonSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]models.JSONSubmission, error) {
	var submissions []models.JSONSubmission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListSince returns every user's submissions created at or after since, with the author loaded.
func (r *jsonSubmissionRepository) ListSince(ctx context.Context, since time.Time) ([]models.JSONSubmission, error) {
	var submissions []models.JSONSubmission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}
