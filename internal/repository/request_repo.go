package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestRepository defines data access for ApplicationRequest entities
type RequestRepository interface {
	List(ctx context.Context, requesterID *uuid.UUID) ([]model.ApplicationRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ApplicationRequest, error)
	Create(ctx context.Context, req *model.ApplicationRequest) error
	Update(ctx context.Context, req *model.ApplicationRequest) error
	MarkApproved(ctx context.Context, id uuid.UUID, adminNotes *string) (int64, error)
	AddDepartments(ctx context.Context, req *model.ApplicationRequest, departments []model.Department) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// List returns all requests when requesterID is nil, otherwise only the
// requester's own, newest first.
func (r *requestRepository) List(ctx context.Context, requesterID *uuid.UUID) ([]model.ApplicationRequest, error) {
	var requests []model.ApplicationRequest
	query := GetDB(ctx, r.db).
		Preload("Requester").
		Preload("Departments").
		Order("created_at DESC")
	if requesterID != nil {
		query = query.Where("requested_by = ?", *requesterID)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ApplicationRequest, error) {
	var req model.ApplicationRequest
	err := GetDB(ctx, r.db).
		Preload("Requester").
		Preload("Departments").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) Create(ctx context.Context, req *model.ApplicationRequest) error {
	// Associations are persisted separately (best-effort) — see request service
	return GetDB(ctx, r.db).Omit("Departments").Create(req).Error
}

func (r *requestRepository) Update(ctx context.Context, req *model.ApplicationRequest) error {
	return GetDB(ctx, r.db).Omit("Departments", "Requester").Save(req).Error
}

// MarkApproved flips a pending request to approved in one conditional update.
// The returned row count is the concurrency guard: 0 means the row was not
// pending anymore — another transaction already claimed it.
func (r *requestRepository) MarkApproved(ctx context.Context, id uuid.UUID, adminNotes *string) (int64, error) {
	updates := map[string]interface{}{"status": model.RequestApproved}
	if adminNotes != nil {
		updates["admin_notes"] = *adminNotes
	}
	res := GetDB(ctx, r.db).Model(&model.ApplicationRequest{}).
		Where("id = ? AND status = ?", id, model.RequestPending).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *requestRepository) AddDepartments(ctx context.Context, req *model.ApplicationRequest, departments []model.Department) error {
	return GetDB(ctx, r.db).Model(req).Association("Departments").Append(departments)
}

func (r *requestRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ApplicationRequest{})
	return res.RowsAffected, res.Error
}
