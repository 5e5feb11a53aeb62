package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jflow/juridica-flow-api/internal/dto"
	"github.com/jflow/juridica-flow-api/internal/service"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
	"github.com/jflow/juridica-flow-api/pkg/response"
)

// UnitHandler handles unit endpoints.
type UnitHandler struct {
	service *service.UnitService
}

// NewUnitHandler constructs a unit handler.
func NewUnitHandler(svc *service.UnitService) *UnitHandler {
	return &UnitHandler{service: svc}
}

// Create godoc
// @Summary Create unit
// @Tags Units
// @Accept json
// @Produce json
// @Param payload body dto.CreateUnitRequest true "Unit payload"
// @Success 201 {object} response.Envelope
// @Router /units [post]
func (h *UnitHandler) Create(c *gin.Context) {
	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	unit, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}

// List godoc
// @Summary List units
// @Tags Units
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /units [get]
func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units, nil)
}
