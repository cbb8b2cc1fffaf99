package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationRepository defines data access for catalog Application entities
type ApplicationRepository interface {
	List(ctx context.Context) ([]model.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Create(ctx context.Context, app *model.Application) error
	Update(ctx context.Context, app *model.Application) error
	ReplaceDepartments(ctx context.Context, app *model.Application, departments []model.Department) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) List(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	if err := GetDB(ctx, r.db).Preload("Departments").Order("name ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := GetDB(ctx, r.db).Preload("Departments").First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return GetDB(ctx, r.db).Create(app).Error
}

func (r *applicationRepository) Update(ctx context.Context, app *model.Application) error {
	return GetDB(ctx, r.db).Save(app).Error
}

// ReplaceDepartments rewrites the application's department set in one shot
func (r *applicationRepository) ReplaceDepartments(ctx context.Context, app *model.Application, departments []model.Department) error {
	return GetDB(ctx, r.db).Model(app).Association("Departments").Replace(departments)
}

func (r *applicationRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Application{})
	return res.RowsAffected, res.Error
}
