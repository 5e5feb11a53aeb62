package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jflow/juridica-flow-api/internal/dto"
	"github.com/jflow/juridica-flow-api/internal/models"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
)

const dueDateLayout = "2006-01-02"

type requestRepository interface {
	Create(ctx context.Context, req *models.LegalRequest) error
	FindByID(ctx context.Context, id string) (*models.LegalRequest, error)
	List(ctx context.Context) ([]models.LegalRequest, error)
	SetStatus(ctx context.Context, id string, status models.RequestStatus) error
	Delete(ctx context.Context, id string) error
	FindAssignment(ctx context.Context, requestID, assigneeID string) (*models.Assignment, error)
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
}

// RequestService manages the legal request lifecycle: intake, assignment,
// status transitions and removal. Every mutation invalidates the derived
// priority and report caches.
type RequestService struct {
	requests  requestRepository
	units     unitRepository
	users     userRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// RequestServiceParams bundles RequestService dependencies.
type RequestServiceParams struct {
	Requests  requestRepository
	Units     unitRepository
	Users     userRepository
	Cache     *CacheService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewRequestService constructs a request service.
func NewRequestService(params RequestServiceParams) *RequestService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{
		requests:  params.Requests,
		units:     params.Units,
		users:     params.Users,
		cache:     params.Cache,
		validator: validate,
		logger:    logger,
	}
}

// Create opens a new legal request in PENDIENTE state. The referenced unit
// must exist.
func (s *RequestService) Create(ctx context.Context, payload dto.CreateLegalRequestRequest) (*models.LegalRequest, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.units.FindByID(ctx, payload.UnitID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "lookup unit")
	}

	req := &models.LegalRequest{
		Title:       payload.Title,
		Description: payload.Description,
		UnitID:      payload.UnitID,
		Complexity:  payload.Complexity,
	}
	if payload.DueDate != nil && *payload.DueDate != "" {
		due, err := time.Parse(dueDateLayout, *payload.DueDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "due_date must use YYYY-MM-DD")
		}
		req.DueDate = &due
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create request")
	}
	s.invalidateDerived(ctx)
	s.logger.Info("request created",
		zap.String("request_id", req.ID),
		zap.String("unit_id", req.UnitID),
		zap.Int("complexity", req.Complexity))
	return req, nil
}

// Get returns a single request by identifier.
func (s *RequestService) Get(ctx context.Context, id string) (*models.LegalRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find request")
	}
	return req, nil
}

// List returns every request, newest first.
func (s *RequestService) List(ctx context.Context) ([]models.LegalRequest, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list requests")
	}
	return requests, nil
}

// Assign links a user to a request. The operation is idempotent: assigning
// the same pair twice returns the existing assignment. Assigning a request
// that is not completed resets it to PENDIENTE.
func (s *RequestService) Assign(ctx context.Context, requestID, userID string) (*models.Assignment, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find request")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find user")
	}

	existing, err := s.requests.FindAssignment(ctx, requestID, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find assignment")
	}
	if existing != nil {
		return existing, nil
	}

	assignment := &models.Assignment{RequestID: requestID, AssigneeID: userID}
	if err := s.requests.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create assignment")
	}
	if req.Status != models.StatusCompletado && req.Status != models.StatusPendiente {
		if err := s.requests.SetStatus(ctx, requestID, models.StatusPendiente); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "reset request status")
		}
	}
	s.invalidateDerived(ctx)
	s.logger.Info("request assigned",
		zap.String("request_id", requestID),
		zap.String("assignee_id", userID))
	return assignment, nil
}

// SetStatus moves a request to PENDIENTE or COMPLETADO.
func (s *RequestService) SetStatus(ctx context.Context, id string, status models.RequestStatus) (*models.LegalRequest, error) {
	if status != models.StatusPendiente && status != models.StatusCompletado {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be PENDIENTE or COMPLETADO")
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find request")
	}
	if err := s.requests.SetStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "set request status")
	}
	req.Status = status
	s.invalidateDerived(ctx)
	s.logger.Info("request status updated",
		zap.String("request_id", id),
		zap.String("status", string(status)))
	return req, nil
}

// Delete removes a request and its assignments.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	if _, err := s.requests.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find request")
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete request")
	}
	s.invalidateDerived(ctx)
	s.logger.Info("request deleted", zap.String("request_id", id))
	return nil
}

func (s *RequestService) invalidateDerived(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, "priorities:*")
	_ = s.cache.Invalidate(ctx, "reports:*")
}
