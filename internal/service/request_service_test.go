package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRequestService(db *gorm.DB) RequestService {
	return NewRequestService(
		repository.NewRequestRepository(db),
		repository.NewApplicationRepository(db),
		repository.NewDepartmentRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func TestCreateRequestRejectsMalformedDepartmentIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")

	_, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:          "New Tool",
		URL:           "https://tool.example.com",
		AuthType:      model.AuthTypeSSO,
		DepartmentIDs: []string{"not-a-uuid"},
	})
	require.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, db.Model(&model.ApplicationRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRequestRequiresCoreFields(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")

	cases := map[string]CreateRequestDTO{
		"missing name":      {URL: "https://tool.example.com", AuthType: model.AuthTypeSSO},
		"missing url":       {Name: "Tool", AuthType: model.AuthTypeSSO},
		"missing auth type": {Name: "Tool", URL: "https://tool.example.com"},
	}

	for name, dto := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateRequest(context.Background(), user.ID, dto)
			require.ErrorIs(t, err, ErrValidation)

			var count int64
			require.NoError(t, db.Model(&model.ApplicationRequest{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

// deptAssocFailingRepo fails every department association write while leaving
// the rest of the repository intact.
type deptAssocFailingRepo struct {
	repository.RequestRepository
}

func (deptAssocFailingRepo) AddDepartments(context.Context, *model.ApplicationRequest, []model.Department) error {
	return errors.New("association write failed")
}

func TestCreateRequestSucceedsWhenDepartmentAssociationFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewRequestService(
		deptAssocFailingRepo{repository.NewRequestRepository(db)},
		repository.NewApplicationRepository(db),
		repository.NewDepartmentRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
	user := seedUser(t, db, "alice@example.com")
	sales := seedDepartment(t, db, "Sales")

	// The tags are advisory: a failed association is logged and the request
	// row still lands
	res, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:          "New Tool",
		URL:           "https://tool.example.com",
		AuthType:      model.AuthTypeSSO,
		DepartmentIDs: []string{sales.ID.String()},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Departments)

	var count int64
	require.NoError(t, db.Model(&model.ApplicationRequest{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var joins int64
	require.NoError(t, db.Table("application_request_departments").Count(&joins).Error)
	assert.Zero(t, joins)
}

func TestCreateRequestPersistsPendingWithDepartments(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")
	sales := seedDepartment(t, db, "Sales")
	hr := seedDepartment(t, db, "HR")

	res, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:          "New Tool",
		Description:   "A tool we need",
		URL:           "https://tool.example.com",
		AuthType:      model.AuthTypeOAuth,
		DepartmentIDs: []string{sales.ID.String(), hr.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, model.RequestPending, res.Status)
	assert.Len(t, res.Departments, 2)

	var stored model.ApplicationRequest
	require.NoError(t, db.Preload("Departments").First(&stored, "id = ?", res.ID).Error)
	assert.Equal(t, "New Tool", stored.Name)
	assert.Equal(t, user.ID, *stored.RequestedBy)
	assert.Len(t, stored.Departments, 2)
}

func TestApproveRequestNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	admin := seedUser(t, db, "admin@example.com")

	_, err := svc.ApproveRequest(context.Background(), uuid.NewString(), nil, admin.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApproveRequestMaterializesApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")
	admin := seedUser(t, db, "admin@example.com")
	sales := seedDepartment(t, db, "Sales")
	eng := seedDepartment(t, db, "Engineering")

	created, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:          "Expense Tracker",
		Description:   "Tracks expenses",
		URL:           "https://expenses.example.com",
		ImageURL:      "https://cdn.example.com/expenses.png",
		AuthType:      model.AuthTypeSSO,
		DepartmentIDs: []string{sales.ID.String(), eng.ID.String()},
	})
	require.NoError(t, err)

	notes := "looks good"
	app, err := svc.ApproveRequest(context.Background(), created.ID, &notes, admin.ID)
	require.NoError(t, err)

	// Every proposed field is carried over verbatim
	assert.Equal(t, "Expense Tracker", app.Name)
	assert.Equal(t, "Tracks expenses", app.Description)
	assert.Equal(t, "https://expenses.example.com", app.URL)
	assert.Equal(t, "https://cdn.example.com/expenses.png", app.ImageURL)
	assert.Equal(t, model.AuthTypeSSO, app.AuthType)
	assert.True(t, app.RequestApproved)
	assert.Len(t, app.Departments, 2)

	var stored model.Application
	require.NoError(t, db.Preload("Departments").First(&stored, "id = ?", app.ID).Error)
	assert.Len(t, stored.Departments, 2)

	var request model.ApplicationRequest
	require.NoError(t, db.First(&request, "id = ?", created.ID).Error)
	assert.Equal(t, model.RequestApproved, request.Status)
	assert.Equal(t, "looks good", request.AdminNotes)
}

func TestApproveRequestTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")
	admin := seedUser(t, db, "admin@example.com")

	created, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:     "Tool",
		URL:      "https://tool.example.com",
		AuthType: model.AuthTypeOther,
	})
	require.NoError(t, err)

	_, err = svc.ApproveRequest(context.Background(), created.ID, nil, admin.ID)
	require.NoError(t, err)

	_, err = svc.ApproveRequest(context.Background(), created.ID, nil, admin.ID)
	require.ErrorIs(t, err, ErrConflict)

	// The second approve must not create a duplicate catalog entry
	var count int64
	require.NoError(t, db.Model(&model.Application{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApproveRequestClaimedElsewhereConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")
	admin := seedUser(t, db, "admin@example.com")

	created, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:     "Tool",
		URL:      "https://tool.example.com",
		AuthType: model.AuthTypeSSO,
	})
	require.NoError(t, err)

	// Another writer flips the row off pending before this approve claims it
	require.NoError(t, db.Model(&model.ApplicationRequest{}).
		Where("id = ?", created.ID).
		Update("status", model.RequestApproved).Error)

	_, err = svc.ApproveRequest(context.Background(), created.ID, nil, admin.ID)
	require.ErrorIs(t, err, ErrConflict)

	// The losing approve must not materialize an Application
	var count int64
	require.NoError(t, db.Model(&model.Application{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApproveRequestWritesAuditTrail(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")
	admin := seedUser(t, db, "admin@example.com")

	created, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:     "Tool",
		URL:      "https://tool.example.com",
		AuthType: model.AuthTypeSSO,
	})
	require.NoError(t, err)

	app, err := svc.ApproveRequest(context.Background(), created.ID, nil, admin.ID)
	require.NoError(t, err)

	var approveRows int64
	require.NoError(t, db.Model(&model.AuditLog{}).
		Where("action = ? AND entity_id = ?", model.ActionApproveAppRequest, created.ID).
		Count(&approveRows).Error)
	assert.EqualValues(t, 1, approveRows)

	var materializeRows int64
	require.NoError(t, db.Model(&model.AuditLog{}).
		Where("action = ? AND entity_id = ?", model.ActionCreateApplicationFromApproval, app.ID).
		Count(&materializeRows).Error)
	assert.EqualValues(t, 1, materializeRows)
}

func TestEditThenApproveUsesStoredFields(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")
	admin := seedUser(t, db, "admin@example.com")

	created, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:     "Foo",
		URL:      "https://foo.example.com",
		AuthType: model.AuthTypeSSO,
	})
	require.NoError(t, err)

	_, err = svc.UpdateRequest(context.Background(), created.ID, UpdateRequestDTO{Name: "Bar"}, admin.ID)
	require.NoError(t, err)

	app, err := svc.ApproveRequest(context.Background(), created.ID, nil, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bar", app.Name)
}

func TestUpdateRequestNeverCreatesApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")
	admin := seedUser(t, db, "admin@example.com")

	created, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:     "Tool",
		URL:      "https://tool.example.com",
		AuthType: model.AuthTypeSSO,
	})
	require.NoError(t, err)

	notes := "needs more detail"
	res, err := svc.UpdateRequest(context.Background(), created.ID, UpdateRequestDTO{AdminNotes: &notes}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "needs more detail", res.AdminNotes)
	assert.Equal(t, model.RequestPending, res.Status)

	var count int64
	require.NoError(t, db.Model(&model.Application{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRejectRequestDeletesRow(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	user := seedUser(t, db, "alice@example.com")
	admin := seedUser(t, db, "admin@example.com")

	created, err := svc.CreateRequest(context.Background(), user.ID, CreateRequestDTO{
		Name:     "Tool",
		URL:      "https://tool.example.com",
		AuthType: model.AuthTypeSSO,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RejectRequest(context.Background(), created.ID, admin.ID))

	var count int64
	require.NoError(t, db.Model(&model.ApplicationRequest{}).Count(&count).Error)
	assert.Zero(t, count)

	// Rejecting again reports not found
	err = svc.RejectRequest(context.Background(), created.ID, admin.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListRequestsScopedToRequesterForNonAdmins(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	_, err := svc.CreateRequest(context.Background(), alice.ID, CreateRequestDTO{
		Name: "Alice Tool", URL: "https://a.example.com", AuthType: model.AuthTypeSSO,
	})
	require.NoError(t, err)
	_, err = svc.CreateRequest(context.Background(), bob.ID, CreateRequestDTO{
		Name: "Bob Tool", URL: "https://b.example.com", AuthType: model.AuthTypeSSO,
	})
	require.NoError(t, err)

	own, err := svc.ListRequests(context.Background(), alice.ID, false)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Alice Tool", own[0].Name)

	all, err := svc.ListRequests(context.Background(), alice.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
