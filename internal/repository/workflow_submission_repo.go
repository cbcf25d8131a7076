package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/flowcoach-api/internal/models"
)

// WorkflowSubmissionRepository stores free-text workflow evaluations.
type WorkflowSubmissionRepository interface {
	Create(ctx context.Context, submission *models.WorkflowSubmission) error
	LatestByUser(ctx context.Context, userID string) (models.WorkflowSubmission, error)
	ListByUser(ctx context.Context, userID string) ([]models.WorkflowSubmission, error)
	ListSince(ctx context.Context, since time.Time) ([]models.WorkflowSubmission, error)
}

type workflowSubmissionRepository struct {
	db *gorm.DB
}

// NewWorkflowSubmissionRepository constructs the repository.
func NewWorkflowSubmissionRepository(db *gorm.DB) WorkflowSubmissionRepository {
	return &workflowSubmissionRepository{db: db}
}

func (r *workflowSubmissionRepository) Create(ctx context.Context, submission *models.WorkflowSubmission) error {
	return r.db.WithContext(ctx).Omit("User").Create(submission).Error
}

func (r *workflowSubmissionRepository) LatestByUser(ctx context.Context, userID string) (models.WorkflowSubmission, error) {
	var submission models.WorkflowSubmission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&submission).Error; err != nil {
		return models.WorkflowSubmission{}, err
	}
	return submission, nil
}

func (r *workflowSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]models.WorkflowSubmission, error) {
	var submissions []models.WorkflowSubmission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListSince returns every user's submissions created at or after since, with the author loaded.
func (r *workflowSubmissionRepository) ListSince(ctx context.Context, since time.Time) ([]models.WorkflowSubmission, error) {
	var submissions []models.WorkflowSubmission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}
