package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	FindOrCreateByEmail(ctx context.Context, email, name string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateByEmail resolves a user row lazily. Lookup is case-sensitive on
// purpose — the upstream identity provider is the single writer of emails.
func (r *userRepository) FindOrCreateByEmail(ctx context.Context, email, name string) (*model.User, error) {
	db := GetDB(ctx, r.db)

	var user model.User
	err := db.First(&user, "email = ?", email).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = model.User{Email: email, Name: name}
	if createErr := db.Create(&user).Error; createErr != nil {
		// A concurrent first call may have created the row between the
		// select and the insert — the unique index wins, re-read.
		if retryErr := db.First(&user, "email = ?", email).Error; retryErr != nil {
			return nil, createErr
		}
	}

	return &user, nil
}
