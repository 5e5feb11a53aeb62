package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jflow/juridica-flow-api/internal/dto"
	"github.com/jflow/juridica-flow-api/internal/models"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
)

func TestUnitServiceCreate(t *testing.T) {
	repo := &fakeUnitRepo{byID: map[string]*models.Unit{}, byName: map[string]*models.Unit{}}
	svc := NewUnitService(repo, nil, nil)

	unit, err := svc.Create(context.Background(), dto.CreateUnitRequest{Name: "DIDECO"})
	require.NoError(t, err)
	assert.NotEmpty(t, unit.ID)
	assert.Equal(t, "DIDECO", unit.Name)
}

func TestUnitServiceCreateDuplicateName(t *testing.T) {
	repo := &fakeUnitRepo{byName: map[string]*models.Unit{
		"SECPLA": {ID: "unit-1", Name: "SECPLA"},
	}}
	svc := NewUnitService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateUnitRequest{Name: "SECPLA"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.units)
}

func TestUnitServiceList(t *testing.T) {
	repo := &fakeUnitRepo{units: []models.Unit{
		{ID: "unit-1", Name: "DIDECO"},
		{ID: "unit-2", Name: "SECPLA"},
	}}
	svc := NewUnitService(repo, nil, nil)

	units, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "DIDECO", units[0].Name)
}
