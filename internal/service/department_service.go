package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Interface ---

type DepartmentService interface {
	ListDepartments(ctx context.Context) ([]DepartmentResponse, error)
	CreateDepartment(ctx context.Context, req CreateDepartmentRequest, actorID uuid.UUID) (DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, id string, req UpdateDepartmentRequest, actorID uuid.UUID) (DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id string, actorID uuid.UUID) error
}

type departmentService struct {
	depts repository.DepartmentRepository
	audit repository.AuditRepository
}

func NewDepartmentService(depts repository.DepartmentRepository, audit repository.AuditRepository) DepartmentService {
	return &departmentService{depts: depts, audit: audit}
}

// --- Implementation ---

func (s *departmentService) ListDepartments(ctx context.Context) ([]DepartmentResponse, error) {
	depts, err := s.depts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departments: %w", err)
	}
	return toDepartmentResponses(depts), nil
}

func (s *departmentService) CreateDepartment(ctx context.Context, req CreateDepartmentRequest, actorID uuid.UUID) (DepartmentResponse, error) {
	dept := model.Department{Name: req.Name}
	if err := s.depts.Create(ctx, &dept); err != nil {
		return DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	recordAudit(ctx, s.audit, &actorID, model.ActionCreateDepartment, dept.ID.String(), dept.Name, req)
	return toDepartmentResponse(dept), nil
}

func (s *departmentService) UpdateDepartment(ctx context.Context, id string, req UpdateDepartmentRequest, actorID uuid.UUID) (DepartmentResponse, error) {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return DepartmentResponse{}, fmt.Errorf("%w: invalid department id", ErrValidation)
	}

	dept, err := s.depts.GetByID(ctx, deptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, fmt.Errorf("%w: department %s", ErrNotFound, id)
		}
		return DepartmentResponse{}, fmt.Errorf("failed to load department: %w", err)
	}

	dept.Name = req.Name
	if err := s.depts.Update(ctx, dept); err != nil {
		return DepartmentResponse{}, fmt.Errorf("failed to update department: %w", err)
	}

	recordAudit(ctx, s.audit, &actorID, model.ActionUpdateDepartment, id, dept.Name, req)
	return toDepartmentResponse(*dept), nil
}

func (s *departmentService) DeleteDepartment(ctx context.Context, id string, actorID uuid.UUID) error {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid department id", ErrValidation)
	}

	affected, err := s.depts.Delete(ctx, deptID)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: department %s", ErrNotFound, id)
	}

	recordAudit(ctx, s.audit, &actorID, model.ActionDeleteDepartment, id, "", nil)
	return nil
}
