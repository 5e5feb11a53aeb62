package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jflow/juridica-flow-api/internal/dto"
	"github.com/jflow/juridica-flow-api/internal/models"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
)

type fakeUnitRepo struct {
	byID   map[string]*models.Unit
	byName map[string]*models.Unit
	units  []models.Unit
	err    error
}

func (f *fakeUnitRepo) Create(_ context.Context, unit *models.Unit) error {
	if f.err != nil {
		return f.err
	}
	if unit.ID == "" {
		unit.ID = "unit-new"
	}
	f.units = append(f.units, *unit)
	return nil
}

func (f *fakeUnitRepo) FindByID(_ context.Context, id string) (*models.Unit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if unit, ok := f.byID[id]; ok {
		return unit, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUnitRepo) FindByName(_ context.Context, name string) (*models.Unit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if unit, ok := f.byName[name]; ok {
		return unit, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUnitRepo) List(_ context.Context) ([]models.Unit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.units, nil
}

type fakeUserRepo struct {
	byID  map[string]*models.User
	users []models.User
	err   error
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	if user.ID == "" {
		user.ID = "user-new"
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

type fakeRequestRepo struct {
	requests    map[string]*models.LegalRequest
	assignments []models.Assignment
	created     []*models.LegalRequest
	deleted     []string
	statusCalls []models.RequestStatus
	err         error
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]*models.LegalRequest{}}
}

func (f *fakeRequestRepo) Create(_ context.Context, req *models.LegalRequest) error {
	if f.err != nil {
		return f.err
	}
	if req.ID == "" {
		req.ID = "req-new"
	}
	req.Status = models.StatusPendiente
	if req.Complexity == 0 {
		req.Complexity = models.ComplexityMedia
	}
	f.requests[req.ID] = req
	f.created = append(f.created, req)
	return nil
}

func (f *fakeRequestRepo) FindByID(_ context.Context, id string) (*models.LegalRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	if req, ok := f.requests[id]; ok {
		copied := *req
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRequestRepo) List(_ context.Context) ([]models.LegalRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.LegalRequest, 0, len(f.requests))
	for _, req := range f.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (f *fakeRequestRepo) SetStatus(_ context.Context, id string, status models.RequestStatus) error {
	if f.err != nil {
		return f.err
	}
	f.statusCalls = append(f.statusCalls, status)
	if req, ok := f.requests[id]; ok {
		req.Status = status
	}
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.requests, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRequestRepo) FindAssignment(_ context.Context, requestID, assigneeID string) (*models.Assignment, error) {
	for i := range f.assignments {
		if f.assignments[i].RequestID == requestID && f.assignments[i].AssigneeID == assigneeID {
			return &f.assignments[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRequestRepo) CreateAssignment(_ context.Context, assignment *models.Assignment) error {
	if f.err != nil {
		return f.err
	}
	if assignment.ID == "" {
		assignment.ID = "assign-new"
	}
	f.assignments = append(f.assignments, *assignment)
	return nil
}

func newRequestServiceForTest(requests *fakeRequestRepo, units *fakeUnitRepo, users *fakeUserRepo) *RequestService {
	return NewRequestService(RequestServiceParams{
		Requests: requests,
		Units:    units,
		Users:    users,
	})
}

func TestRequestServiceCreate(t *testing.T) {
	units := &fakeUnitRepo{byID: map[string]*models.Unit{"unit-1": {ID: "unit-1", Name: "SECPLA"}}}
	requests := newFakeRequestRepo()
	svc := newRequestServiceForTest(requests, units, &fakeUserRepo{})

	due := "2025-04-01"
	req, err := svc.Create(context.Background(), dto.CreateLegalRequestRequest{
		Title:   "Informe en derecho",
		UnitID:  "unit-1",
		DueDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendiente, req.Status)
	assert.Equal(t, models.ComplexityMedia, req.Complexity)
	require.NotNil(t, req.DueDate)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *req.DueDate)
}

func TestRequestServiceCreateUnknownUnit(t *testing.T) {
	svc := newRequestServiceForTest(newFakeRequestRepo(), &fakeUnitRepo{byID: map[string]*models.Unit{}}, &fakeUserRepo{})

	_, err := svc.Create(context.Background(), dto.CreateLegalRequestRequest{Title: "x", UnitID: "missing"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRequestServiceCreateRejectsOutOfRangeComplexity(t *testing.T) {
	units := &fakeUnitRepo{byID: map[string]*models.Unit{"unit-1": {ID: "unit-1"}}}
	requests := newFakeRequestRepo()
	svc := newRequestServiceForTest(requests, units, &fakeUserRepo{})

	_, err := svc.Create(context.Background(), dto.CreateLegalRequestRequest{Title: "x", UnitID: "unit-1", Complexity: 5})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, requests.created)
}

func TestRequestServiceCreateInvalidDueDate(t *testing.T) {
	units := &fakeUnitRepo{byID: map[string]*models.Unit{"unit-1": {ID: "unit-1"}}}
	svc := newRequestServiceForTest(newFakeRequestRepo(), units, &fakeUserRepo{})

	bad := "01-04-2025"
	_, err := svc.Create(context.Background(), dto.CreateLegalRequestRequest{Title: "x", UnitID: "unit-1", DueDate: &bad})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRequestServiceAssignIsIdempotent(t *testing.T) {
	requests := newFakeRequestRepo()
	requests.requests["req-1"] = &models.LegalRequest{ID: "req-1", Status: models.StatusPendiente}
	users := &fakeUserRepo{byID: map[string]*models.User{"user-1": {ID: "user-1"}}}
	svc := newRequestServiceForTest(requests, &fakeUnitRepo{}, users)

	first, err := svc.Assign(context.Background(), "req-1", "user-1")
	require.NoError(t, err)

	second, err := svc.Assign(context.Background(), "req-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, requests.assignments, 1)
}

func TestRequestServiceAssignResetsInProgressToPending(t *testing.T) {
	requests := newFakeRequestRepo()
	requests.requests["req-1"] = &models.LegalRequest{ID: "req-1", Status: models.StatusEnCurso}
	users := &fakeUserRepo{byID: map[string]*models.User{"user-1": {ID: "user-1"}}}
	svc := newRequestServiceForTest(requests, &fakeUnitRepo{}, users)

	_, err := svc.Assign(context.Background(), "req-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendiente, requests.requests["req-1"].Status)
}

func TestRequestServiceAssignKeepsCompletedStatus(t *testing.T) {
	requests := newFakeRequestRepo()
	requests.requests["req-1"] = &models.LegalRequest{ID: "req-1", Status: models.StatusCompletado}
	users := &fakeUserRepo{byID: map[string]*models.User{"user-1": {ID: "user-1"}}}
	svc := newRequestServiceForTest(requests, &fakeUnitRepo{}, users)

	_, err := svc.Assign(context.Background(), "req-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletado, requests.requests["req-1"].Status)
	assert.Empty(t, requests.statusCalls)
}

func TestRequestServiceAssignUnknownUser(t *testing.T) {
	requests := newFakeRequestRepo()
	requests.requests["req-1"] = &models.LegalRequest{ID: "req-1", Status: models.StatusPendiente}
	svc := newRequestServiceForTest(requests, &fakeUnitRepo{}, &fakeUserRepo{byID: map[string]*models.User{}})

	_, err := svc.Assign(context.Background(), "req-1", "ghost")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRequestServiceSetStatus(t *testing.T) {
	requests := newFakeRequestRepo()
	requests.requests["req-1"] = &models.LegalRequest{ID: "req-1", Status: models.StatusPendiente}
	svc := newRequestServiceForTest(requests, &fakeUnitRepo{}, &fakeUserRepo{})

	updated, err := svc.SetStatus(context.Background(), "req-1", models.StatusCompletado)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletado, updated.Status)
	assert.Equal(t, models.StatusCompletado, requests.requests["req-1"].Status)
}

func TestRequestServiceSetStatusRejectsInProgress(t *testing.T) {
	requests := newFakeRequestRepo()
	requests.requests["req-1"] = &models.LegalRequest{ID: "req-1", Status: models.StatusPendiente}
	svc := newRequestServiceForTest(requests, &fakeUnitRepo{}, &fakeUserRepo{})

	_, err := svc.SetStatus(context.Background(), "req-1", models.StatusEnCurso)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRequestServiceDelete(t *testing.T) {
	requests := newFakeRequestRepo()
	requests.requests["req-1"] = &models.LegalRequest{ID: "req-1"}
	svc := newRequestServiceForTest(requests, &fakeUnitRepo{}, &fakeUserRepo{})

	require.NoError(t, svc.Delete(context.Background(), "req-1"))
	assert.Equal(t, []string{"req-1"}, requests.deleted)

	err := svc.Delete(context.Background(), "req-1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRequestServiceListPropagatesRepositoryError(t *testing.T) {
	requests := newFakeRequestRepo()
	requests.err = errors.New("db down")
	svc := newRequestServiceForTest(requests, &fakeUnitRepo{}, &fakeUserRepo{})

	_, err := svc.List(context.Background())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
