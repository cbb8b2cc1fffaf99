package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRequestDTO struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	URL           string   `json:"url" binding:"required,url"`
	ImageURL      string   `json:"image_url"`
	AuthType      string   `json:"auth_type" binding:"required,oneof=username_password sso api_key oauth other"`
	DepartmentIDs []string `json:"departmentIds"`
}

// UpdateRequestDTO carries a partial field update and the approve switch.
// With Approve set the field updates are ignored — edit-and-approve is two
// sequential calls and the approve step re-reads the stored row.
type UpdateRequestDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	URL         string  `json:"url" binding:"omitempty,url"`
	ImageURL    *string `json:"image_url"`
	AuthType    string  `json:"auth_type" binding:"omitempty,oneof=username_password sso api_key oauth other"`
	Status      string  `json:"status" binding:"omitempty,oneof=pending approved rejected"`
	AdminNotes  *string `json:"admin_notes"`
	Approve     bool    `json:"approve"`
}

type RequesterResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type RequestResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	URL         string               `json:"url"`
	ImageURL    string               `json:"image_url"`
	AuthType    string               `json:"auth_type"`
	Status      string               `json:"status"`
	AdminNotes  string               `json:"admin_notes"`
	RequestedBy *RequesterResponse   `json:"requestedBy,omitempty"`
	Departments []DepartmentResponse `json:"departments"`
	CreatedAt   string               `json:"created_at"`
}

// --- Interface ---

// RequestService owns the application-request lifecycle:
// pending -> approved (materializes a catalog Application) or rejected
// (the request row is deleted).
type RequestService interface {
	ListRequests(ctx context.Context, userID uuid.UUID, isAdmin bool) ([]RequestResponse, error)
	CreateRequest(ctx context.Context, userID uuid.UUID, req CreateRequestDTO) (RequestResponse, error)
	UpdateRequest(ctx context.Context, id string, req UpdateRequestDTO, actorID uuid.UUID) (RequestResponse, error)
	ApproveRequest(ctx context.Context, id string, adminNotes *string, actorID uuid.UUID) (ApplicationResponse, error)
	RejectRequest(ctx context.Context, id string, actorID uuid.UUID) error
}

type requestService struct {
	requests repository.RequestRepository
	apps     repository.ApplicationRepository
	depts    repository.DepartmentRepository
	audit    repository.AuditRepository
	txm      repository.TransactionManager
	hub      Broadcaster
}

func NewRequestService(
	requests repository.RequestRepository,
	apps repository.ApplicationRepository,
	depts repository.DepartmentRepository,
	audit repository.AuditRepository,
	txm repository.TransactionManager,
	hub Broadcaster,
) RequestService {
	return &requestService{requests: requests, apps: apps, depts: depts, audit: audit, txm: txm, hub: hub}
}

// --- Implementation ---

// ListRequests returns all requests for admins, only the caller's own otherwise
func (s *requestService) ListRequests(ctx context.Context, userID uuid.UUID, isAdmin bool) ([]RequestResponse, error) {
	var requesterID *uuid.UUID
	if !isAdmin {
		requesterID = &userID
	}

	requests, err := s.requests.List(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch application requests: %w", err)
	}

	res := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		res = append(res, toRequestResponse(r))
	}
	return res, nil
}

// CreateRequest persists a pending request. Department associations are
// best-effort: a failure there is logged and the create still succeeds —
// the request row is the primary record, tags are advisory.
func (s *requestService) CreateRequest(ctx context.Context, userID uuid.UUID, req CreateRequestDTO) (RequestResponse, error) {
	// Binding tags enforce this on the HTTP path; the service re-checks so
	// the contract holds for every caller.
	if req.Name == "" || req.URL == "" || req.AuthType == "" {
		return RequestResponse{}, fmt.Errorf("%w: name, url and auth_type are required", ErrValidation)
	}

	deptIDs, err := parseUUIDs(req.DepartmentIDs)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	request := model.ApplicationRequest{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		ImageURL:    req.ImageURL,
		AuthType:    req.AuthType,
		Status:      model.RequestPending,
		RequestedBy: &userID,
	}

	if err := s.requests.Create(ctx, &request); err != nil {
		return RequestResponse{}, fmt.Errorf("failed to create application request: %w", err)
	}

	if len(deptIDs) > 0 {
		depts, deptErr := s.depts.GetByIDs(ctx, deptIDs)
		if deptErr == nil && len(depts) > 0 {
			deptErr = s.requests.AddDepartments(ctx, &request, depts)
		}
		if deptErr != nil {
			log.Printf("request %s: failed to associate departments: %v", request.ID, deptErr)
		} else {
			request.Departments = depts
		}
	}

	recordAudit(ctx, s.audit, &userID, model.ActionCreateAppRequest, request.ID.String(), request.Name, req)

	return toRequestResponse(request), nil
}

// UpdateRequest applies a partial admin edit; it never creates an Application
func (s *requestService) UpdateRequest(ctx context.Context, id string, req UpdateRequestDTO, actorID uuid.UUID) (RequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("%w: invalid request id", ErrValidation)
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, fmt.Errorf("%w: application request %s", ErrNotFound, id)
		}
		return RequestResponse{}, fmt.Errorf("failed to load application request: %w", err)
	}

	if req.Name != "" {
		request.Name = req.Name
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.URL != "" {
		request.URL = req.URL
	}
	if req.ImageURL != nil {
		request.ImageURL = *req.ImageURL
	}
	if req.AuthType != "" {
		request.AuthType = req.AuthType
	}
	if req.Status != "" {
		request.Status = req.Status
	}
	if req.AdminNotes != nil {
		request.AdminNotes = *req.AdminNotes
	}

	if err := s.requests.Update(ctx, request); err != nil {
		return RequestResponse{}, fmt.Errorf("failed to update application request: %w", err)
	}

	recordAudit(ctx, s.audit, &actorID, model.ActionUpdateAppRequest, id, request.Name, req)

	return toRequestResponse(*request), nil
}

// ApproveRequest promotes a pending request into a catalog Application as one
// transaction: load the request with its tags, claim the pending row, copy
// the proposed fields into a new Application, copy every department
// association. The claim is a conditional update on status=pending — under
// concurrent approves only one transaction flips the row, so the loser gets
// a conflict instead of creating a duplicate Application.
func (s *requestService) ApproveRequest(ctx context.Context, id string, adminNotes *string, actorID uuid.UUID) (ApplicationResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return ApplicationResponse{}, fmt.Errorf("%w: invalid request id", ErrValidation)
	}

	var app model.Application
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		request, loadErr := s.requests.GetByID(txCtx, requestID)
		if loadErr != nil {
			if errors.Is(loadErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: application request %s", ErrNotFound, id)
			}
			return fmt.Errorf("failed to load application request: %w", loadErr)
		}

		claimed, claimErr := s.requests.MarkApproved(txCtx, requestID, adminNotes)
		if claimErr != nil {
			return fmt.Errorf("failed to update request status: %w", claimErr)
		}
		if claimed == 0 {
			return fmt.Errorf("%w: request has already been processed", ErrConflict)
		}

		// Copy proposed fields verbatim into the new catalog entry
		app = model.Application{
			Name:        request.Name,
			Description: request.Description,
			URL:         request.URL,
			ImageURL:    request.ImageURL,
			AuthType:    request.AuthType,
		}
		if createErr := s.apps.Create(txCtx, &app); createErr != nil {
			return fmt.Errorf("failed to create application from request: %w", createErr)
		}

		if len(request.Departments) > 0 {
			if assocErr := s.apps.ReplaceDepartments(txCtx, &app, request.Departments); assocErr != nil {
				return fmt.Errorf("failed to copy department associations: %w", assocErr)
			}
			app.Departments = request.Departments
		}

		// Audit rows commit or roll back together with the approval
		recordAudit(txCtx, s.audit, &actorID, model.ActionApproveAppRequest, id, app.Name, nil)
		recordAudit(txCtx, s.audit, &actorID, model.ActionCreateApplicationFromApproval, app.ID.String(), app.Name,
			map[string]interface{}{"request_id": id})

		return nil
	})
	if err != nil {
		return ApplicationResponse{}, err
	}

	if s.hub != nil {
		s.hub.BroadcastJSON(CatalogEvent{Event: EventApplicationCreated, ApplicationID: app.ID.String()})
	}

	res := toApplicationResponse(app)
	res.RequestApproved = true
	return res, nil
}

// RejectRequest deletes the request row outright. Irreversible, no
// Application is created.
func (s *requestService) RejectRequest(ctx context.Context, id string, actorID uuid.UUID) error {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid request id", ErrValidation)
	}

	affected, err := s.requests.Delete(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to delete application request: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: application request %s", ErrNotFound, id)
	}

	recordAudit(ctx, s.audit, &actorID, model.ActionRejectAppRequest, id, "", nil)
	return nil
}

// --- Helpers ---

func toRequestResponse(r model.ApplicationRequest) RequestResponse {
	res := RequestResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		URL:         r.URL,
		ImageURL:    r.ImageURL,
		AuthType:    r.AuthType,
		Status:      r.Status,
		AdminNotes:  r.AdminNotes,
		Departments: toDepartmentResponses(r.Departments),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}

	if r.Requester != nil {
		res.RequestedBy = &RequesterResponse{Email: r.Requester.Email, Name: r.Requester.Name}
	}

	return res
}
