package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jflow/juridica-flow-api/internal/dto"
	"github.com/jflow/juridica-flow-api/internal/models"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
)

type unitRepository interface {
	Create(ctx context.Context, unit *models.Unit) error
	FindByID(ctx context.Context, id string) (*models.Unit, error)
	FindByName(ctx context.Context, name string) (*models.Unit, error)
	List(ctx context.Context) ([]models.Unit, error)
}

// UnitService manages the immutable unit catalogue.
type UnitService struct {
	units     unitRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUnitService constructs a unit service.
func NewUnitService(units unitRepository, validate *validator.Validate, logger *zap.Logger) *UnitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitService{units: units, validator: validate, logger: logger}
}

// Create registers a new unit. Unit names are unique.
func (s *UnitService) Create(ctx context.Context, payload dto.CreateUnitRequest) (*models.Unit, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	existing, err := s.units.FindByName(ctx, payload.Name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "lookup unit")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "unit already exists")
	}

	unit := &models.Unit{Name: payload.Name}
	if err := s.units.Create(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create unit")
	}
	s.logger.Info("unit created", zap.String("unit_id", unit.ID), zap.String("name", unit.Name))
	return unit, nil
}

// List returns all units ordered by name.
func (s *UnitService) List(ctx context.Context) ([]models.Unit, error) {
	units, err := s.units.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list units")
	}
	return units, nil
}
