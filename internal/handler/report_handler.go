package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jflow/juridica-flow-api/internal/middleware"
	"github.com/jflow/juridica-flow-api/internal/priority"
	"github.com/jflow/juridica-flow-api/internal/service"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
	"github.com/jflow/juridica-flow-api/pkg/response"
)

type reportService interface {
	Report(ctx context.Context) (*priority.ReportBundle, bool, error)
	Export(ctx context.Context, format, report string) (*service.ExportResult, error)
}

// ReportHandler wires the report service to HTTP endpoints.
type ReportHandler struct {
	service       reportService
	exportEnabled bool
}

// NewReportHandler constructs the handler.
func NewReportHandler(svc reportService, exportEnabled bool) *ReportHandler {
	return &ReportHandler{service: svc, exportEnabled: exportEnabled}
}

// Report godoc
// @Summary Aggregate workload and status report
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) Report(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	bundle, cacheHit, err := h.service.Report(c.Request.Context())
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
	response.JSON(c, http.StatusOK, bundle, nil, meta)
}

// Export godoc
// @Summary Export the priority ranking
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv or pdf)"
// @Param report query string false "Report table (priorities or units)"
// @Success 200 {file} file
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if !h.exportEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "exports are disabled"))
		return
	}
	result, err := h.service.Export(c.Request.Context(), c.DefaultQuery("format", "csv"), c.DefaultQuery("report", "priorities"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
