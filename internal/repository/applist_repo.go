package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppListRepository defines data access for the user's personal application list
type AppListRepository interface {
	ListEntries(ctx context.Context, userID uuid.UUID) ([]model.UserApplicationListEntry, error)
	ListApplicationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	NextOrderIndex(ctx context.Context, userID uuid.UUID) (int, error)
	Add(ctx context.Context, entry *model.UserApplicationListEntry) error
	Remove(ctx context.Context, userID, applicationID uuid.UUID) error
	SetOrderIndex(ctx context.Context, userID, applicationID uuid.UUID, orderIndex int) error
}

type appListRepository struct {
	db *gorm.DB
}

func NewAppListRepository(db *gorm.DB) AppListRepository {
	return &appListRepository{db: db}
}

func (r *appListRepository) ListEntries(ctx context.Context, userID uuid.UUID) ([]model.UserApplicationListEntry, error) {
	var entries []model.UserApplicationListEntry
	err := GetDB(ctx, r.db).
		Preload("Application.Departments").
		Where("user_id = ?", userID).
		Order("order_index ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *appListRepository) ListApplicationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.UserApplicationListEntry{}).
		Where("user_id = ?", userID).
		Order("order_index ASC").
		Pluck("application_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// NextOrderIndex returns current max + 1, or 0 for an empty list
func (r *appListRepository) NextOrderIndex(ctx context.Context, userID uuid.UUID) (int, error) {
	var last model.UserApplicationListEntry
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("order_index DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.OrderIndex + 1, nil
}

func (r *appListRepository) Add(ctx context.Context, entry *model.UserApplicationListEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *appListRepository) Remove(ctx context.Context, userID, applicationID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Delete(&model.UserApplicationListEntry{}).Error
}

func (r *appListRepository) SetOrderIndex(ctx context.Context, userID, applicationID uuid.UUID, orderIndex int) error {
	return GetDB(ctx, r.db).Model(&model.UserApplicationListEntry{}).
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Update("order_index", orderIndex).Error
}
