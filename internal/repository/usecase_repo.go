package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/flowcoach-api/internal/models"
)

// UseCaseRepository stores generated use-case sets.
type UseCaseRepository interface {
	Create(ctx context.Context, set *models.UseCaseSet) error
	LatestByUser(ctx context.Context, userID string) (models.UseCaseSet, error)
}

type useCaseRepository struct {
	db *gorm.DB
}

// NewUseCaseRepository constructs a use-case repository.
func NewUseCaseRepository(db *gorm.DB) UseCaseRepository {
	return &useCaseRepository{db: db}
}

func (r *useCaseRepository) Create(ctx context.Context, set *models.UseCaseSet) error {
	return r.db.WithContext(ctx).Create(set).Error
}

func (r *useCaseRepository) LatestByUser(ctx context.Context, userID string) (models.UseCaseSet, error) {
	var set models.UseCaseSet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&set).Error; err != nil {
		return models.UseCaseSet{}, err
	}
	return set, nil
}
