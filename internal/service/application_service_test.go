package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApplicationService(db *gorm.DB) ApplicationService {
	return NewApplicationService(
		repository.NewApplicationRepository(db),
		repository.NewDepartmentRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func TestCreateApplicationWithDepartments(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	admin := seedUser(t, db, "admin@example.com")
	sales := seedDepartment(t, db, "Sales")

	app, err := svc.CreateApplication(context.Background(), CreateApplicationRequest{
		Name:          "CRM",
		URL:           "https://crm.example.com",
		AuthType:      model.AuthTypeSSO,
		DepartmentIDs: []string{sales.ID.String()},
	}, admin.ID)
	require.NoError(t, err)

	require.Len(t, app.Departments, 1)
	assert.Equal(t, "Sales", app.Departments[0].Name)

	var stored model.Application
	require.NoError(t, db.Preload("Departments").First(&stored, "id = ?", app.ID).Error)
	assert.Len(t, stored.Departments, 1)
}

func TestCreateApplicationUnknownDepartment(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	admin := seedUser(t, db, "admin@example.com")

	_, err := svc.CreateApplication(context.Background(), CreateApplicationRequest{
		Name:          "CRM",
		URL:           "https://crm.example.com",
		AuthType:      model.AuthTypeSSO,
		DepartmentIDs: []string{uuid.NewString()},
	}, admin.ID)
	require.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, db.Model(&model.Application{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateApplicationReplacesDepartmentSet(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	admin := seedUser(t, db, "admin@example.com")
	sales := seedDepartment(t, db, "Sales")
	hr := seedDepartment(t, db, "HR")

	app, err := svc.CreateApplication(context.Background(), CreateApplicationRequest{
		Name:          "CRM",
		URL:           "https://crm.example.com",
		AuthType:      model.AuthTypeSSO,
		DepartmentIDs: []string{sales.ID.String()},
	}, admin.ID)
	require.NoError(t, err)

	newDepts := []string{hr.ID.String()}
	updated, err := svc.UpdateApplication(context.Background(), app.ID, UpdateApplicationRequest{
		Name:          "CRM v2",
		DepartmentIDs: &newDepts,
	}, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, "CRM v2", updated.Name)
	require.Len(t, updated.Departments, 1)
	assert.Equal(t, "HR", updated.Departments[0].Name)
}

func TestUpdateApplicationWithoutDepartmentsKeepsAssociations(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	admin := seedUser(t, db, "admin@example.com")
	sales := seedDepartment(t, db, "Sales")

	app, err := svc.CreateApplication(context.Background(), CreateApplicationRequest{
		Name:          "CRM",
		URL:           "https://crm.example.com",
		AuthType:      model.AuthTypeSSO,
		DepartmentIDs: []string{sales.ID.String()},
	}, admin.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateApplication(context.Background(), app.ID, UpdateApplicationRequest{
		Name: "CRM v2",
	}, admin.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Departments, 1)
}

func TestDeleteApplicationNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	admin := seedUser(t, db, "admin@example.com")

	err := svc.DeleteApplication(context.Background(), uuid.NewString(), admin.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
