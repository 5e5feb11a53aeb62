package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jflow/juridica-flow-api/internal/middleware"
	"github.com/jflow/juridica-flow-api/internal/priority"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
	"github.com/jflow/juridica-flow-api/pkg/response"
)

type priorityService interface {
	Ranked(ctx context.Context) ([]priority.RankedRequest, bool, error)
	Upcoming(ctx context.Context) ([]priority.RankedRequest, bool, error)
}

// PriorityHandler wires the priority service to HTTP endpoints.
type PriorityHandler struct {
	service priorityService
}

// NewPriorityHandler constructs the handler.
func NewPriorityHandler(svc priorityService) *PriorityHandler {
	return &PriorityHandler{service: svc}
}

// Ranked godoc
// @Summary Open requests ordered by priority score
// @Tags Priorities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /priorities [get]
func (h *PriorityHandler) Ranked(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	ranked, cacheHit, err := h.service.Ranked(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, ranked, nil, meta)
}

// Upcoming godoc
// @Summary Open requests due in the near-term window
// @Tags Priorities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /priorities/upcoming [get]
func (h *PriorityHandler) Upcoming(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	upcoming, cacheHit, err := h.service.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, upcoming, nil, meta)
}
