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

// Broadcaster pushes catalog-change events to connected portals
type Broadcaster interface {
	BroadcastJSON(v interface{})
}

// CatalogEvent is the payload broadcast over the websocket hub
type CatalogEvent struct {
	Event         string `json:"event"`
	ApplicationID string `json:"application_id,omitempty"`
}

const (
	EventApplicationCreated = "application_created"
	EventApplicationUpdated = "application_updated"
	EventApplicationDeleted = "application_deleted"
)

// --- DTOs ---

type CreateApplicationRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	URL           string   `json:"url" binding:"required,url"`
	ImageURL      string   `json:"image_url"`
	AuthType      string   `json:"auth_type" binding:"required,oneof=username_password sso api_key oauth other"`
	DepartmentIDs []string `json:"departmentIds"`
}

type UpdateApplicationRequest struct {
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	URL           string    `json:"url" binding:"omitempty,url"`
	ImageURL      *string   `json:"image_url"`
	AuthType      string    `json:"auth_type" binding:"omitempty,oneof=username_password sso api_key oauth other"`
	DepartmentIDs *[]string `json:"departmentIds"`
}

// --- Interface ---

type ApplicationService interface {
	ListApplications(ctx context.Context) ([]ApplicationResponse, error)
	CreateApplication(ctx context.Context, req CreateApplicationRequest, actorID uuid.UUID) (ApplicationResponse, error)
	UpdateApplication(ctx context.Context, id string, req UpdateApplicationRequest, actorID uuid.UUID) (ApplicationResponse, error)
	DeleteApplication(ctx context.Context, id string, actorID uuid.UUID) error
}

type applicationService struct {
	apps  repository.ApplicationRepository
	depts repository.DepartmentRepository
	audit repository.AuditRepository
	txm   repository.TransactionManager
	hub   Broadcaster
}

func NewApplicationService(
	apps repository.ApplicationRepository,
	depts repository.DepartmentRepository,
	audit repository.AuditRepository,
	txm repository.TransactionManager,
	hub Broadcaster,
) ApplicationService {
	return &applicationService{apps: apps, depts: depts, audit: audit, txm: txm, hub: hub}
}

// --- Implementation ---

// ListApplications returns the full catalog ordered by name with tags embedded
func (s *applicationService) ListApplications(ctx context.Context) ([]ApplicationResponse, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}

	res := make([]ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		res = append(res, toApplicationResponse(app))
	}
	return res, nil
}

func (s *applicationService) CreateApplication(ctx context.Context, req CreateApplicationRequest, actorID uuid.UUID) (ApplicationResponse, error) {
	deptIDs, err := parseUUIDs(req.DepartmentIDs)
	if err != nil {
		return ApplicationResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	app := model.Application{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		ImageURL:    req.ImageURL,
		AuthType:    req.AuthType,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.apps.Create(txCtx, &app); createErr != nil {
			return fmt.Errorf("failed to create application: %w", createErr)
		}

		depts, deptErr := s.depts.GetByIDs(txCtx, deptIDs)
		if deptErr != nil {
			return fmt.Errorf("failed to load departments: %w", deptErr)
		}
		if len(depts) != len(deptIDs) {
			return fmt.Errorf("%w: unknown department id in %v", ErrValidation, req.DepartmentIDs)
		}
		if len(depts) > 0 {
			if assocErr := s.apps.ReplaceDepartments(txCtx, &app, depts); assocErr != nil {
				return fmt.Errorf("failed to associate departments: %w", assocErr)
			}
		}
		app.Departments = depts
		return nil
	})
	if err != nil {
		return ApplicationResponse{}, err
	}

	recordAudit(ctx, s.audit, &actorID, model.ActionCreateApplication, app.ID.String(), app.Name, req)
	s.broadcast(EventApplicationCreated, app.ID)

	return toApplicationResponse(app), nil
}

func (s *applicationService) UpdateApplication(ctx context.Context, id string, req UpdateApplicationRequest, actorID uuid.UUID) (ApplicationResponse, error) {
	appID, err := uuid.Parse(id)
	if err != nil {
		return ApplicationResponse{}, fmt.Errorf("%w: invalid application id", ErrValidation)
	}

	var deptIDs []uuid.UUID
	if req.DepartmentIDs != nil {
		if deptIDs, err = parseUUIDs(*req.DepartmentIDs); err != nil {
			return ApplicationResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	var app *model.Application
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		app, loadErr = s.apps.GetByID(txCtx, appID)
		if loadErr != nil {
			if errors.Is(loadErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: application %s", ErrNotFound, id)
			}
			return fmt.Errorf("failed to load application: %w", loadErr)
		}

		if req.Name != "" {
			app.Name = req.Name
		}
		if req.Description != nil {
			app.Description = *req.Description
		}
		if req.URL != "" {
			app.URL = req.URL
		}
		if req.ImageURL != nil {
			app.ImageURL = *req.ImageURL
		}
		if req.AuthType != "" {
			app.AuthType = req.AuthType
		}

		if saveErr := s.apps.Update(txCtx, app); saveErr != nil {
			return fmt.Errorf("failed to update application: %w", saveErr)
		}

		// Replace the association set only when the caller provided one
		if req.DepartmentIDs != nil {
			depts, deptErr := s.depts.GetByIDs(txCtx, deptIDs)
			if deptErr != nil {
				return fmt.Errorf("failed to load departments: %w", deptErr)
			}
			if len(depts) != len(deptIDs) {
				return fmt.Errorf("%w: unknown department id in %v", ErrValidation, *req.DepartmentIDs)
			}
			if assocErr := s.apps.ReplaceDepartments(txCtx, app, depts); assocErr != nil {
				return fmt.Errorf("failed to replace departments: %w", assocErr)
			}
			app.Departments = depts
		}
		return nil
	})
	if err != nil {
		return ApplicationResponse{}, err
	}

	recordAudit(ctx, s.audit, &actorID, model.ActionUpdateApplication, app.ID.String(), app.Name, req)
	s.broadcast(EventApplicationUpdated, app.ID)

	return toApplicationResponse(*app), nil
}

func (s *applicationService) DeleteApplication(ctx context.Context, id string, actorID uuid.UUID) error {
	appID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid application id", ErrValidation)
	}

	affected, err := s.apps.Delete(ctx, appID)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: application %s", ErrNotFound, id)
	}

	recordAudit(ctx, s.audit, &actorID, model.ActionDeleteApplication, id, "", nil)
	s.broadcast(EventApplicationDeleted, appID)

	return nil
}

func (s *applicationService) broadcast(event string, appID uuid.UUID) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastJSON(CatalogEvent{Event: event, ApplicationID: appID.String()})
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
