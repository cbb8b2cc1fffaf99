package service

import (
	"time"

	"backend/internal/model"
)

// DepartmentResponse is the wire shape of a department tag
type DepartmentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ApplicationResponse is the wire shape of a catalog entry with its tags.
// RequestApproved is set only on applications materialized by an approval.
type ApplicationResponse struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	URL             string               `json:"url"`
	ImageURL        string               `json:"image_url"`
	AuthType        string               `json:"auth_type"`
	Departments     []DepartmentResponse `json:"departments"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
	RequestApproved bool                 `json:"request_approved,omitempty"`
}

func toDepartmentResponse(d model.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:        d.ID.String(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}

func toDepartmentResponses(depts []model.Department) []DepartmentResponse {
	res := make([]DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		res = append(res, toDepartmentResponse(d))
	}
	return res
}

func toApplicationResponse(app model.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          app.ID.String(),
		Name:        app.Name,
		Description: app.Description,
		URL:         app.URL,
		ImageURL:    app.ImageURL,
		AuthType:    app.AuthType,
		Departments: toDepartmentResponses(app.Departments),
		CreatedAt:   app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   app.UpdatedAt.Format(time.RFC3339),
	}
}
