package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines data access for per-user favorite rows
type FavoriteRepository interface {
	ListApplicationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Add(ctx context.Context, userID, applicationID uuid.UUID) error
	Remove(ctx context.Context, userID, applicationID uuid.UUID) error
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) ListApplicationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.UserFavorite{}).
		Where("user_id = ?", userID).
		Pluck("application_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Add is idempotent — a duplicate toggle races to the same row and is ignored
func (r *favoriteRepository) Add(ctx context.Context, userID, applicationID uuid.UUID) error {
	fav := model.UserFavorite{UserID: userID, ApplicationID: applicationID}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, applicationID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Delete(&model.UserFavorite{}).Error
}
