package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jflow/juridica-flow-api/internal/models"
	"github.com/jflow/juridica-flow-api/internal/priority"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
	"github.com/jflow/juridica-flow-api/pkg/export"
)

// ExportResult carries a rendered export document.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService computes the aggregate report tables and renders exports.
type ReportService struct {
	snapshots snapshotLoader
	cache     *CacheService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
	weights   priority.Weights
	cacheTTL  time.Duration
	now       func() time.Time
}

// ReportServiceParams bundles ReportService dependencies.
type ReportServiceParams struct {
	Snapshots snapshotLoader
	Cache     *CacheService
	Logger    *zap.Logger
	Weights   priority.Weights
	CacheTTL  time.Duration
	Now       func() time.Time
}

// NewReportService constructs a report service.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	weights := params.Weights
	if weights == (priority.Weights{}) {
		weights = priority.DefaultWeights()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		snapshots: params.Snapshots,
		cache:     params.Cache,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		weights:   weights,
		cacheTTL:  params.CacheTTL,
		now:       now,
	}
}

// Report returns the full aggregate bundle. The second return value reports
// whether the result came from cache.
func (s *ReportService) Report(ctx context.Context) (*priority.ReportBundle, bool, error) {
	today := s.now().UTC()
	key := fmt.Sprintf("reports:bundle:%s", today.Format("2006-01-02"))

	var cached priority.ReportBundle
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	snap, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load snapshot")
	}
	bundle := priority.Aggregate(*snap, today, s.weights)

	if err := s.cache.Set(ctx, key, bundle, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.Error(err))
	}
	return &bundle, false, nil
}

// Exportable report tables.
const (
	ExportPriorities = "priorities"
	ExportUnits      = "units"
)

// Export renders the requested report table as CSV or PDF.
func (s *ReportService) Export(ctx context.Context, format, report string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	report = strings.ToLower(strings.TrimSpace(report))
	if report == "" {
		report = ExportPriorities
	}

	today := s.now().UTC()
	snap, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load snapshot")
	}

	var (
		dataset export.Dataset
		title   string
	)
	switch report {
	case ExportPriorities:
		dataset, title = s.buildPrioritiesDataset(snap, today)
	case ExportUnits:
		dataset, title = s.buildUnitsDataset(snap, today)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "report must be priorities or units")
	}

	stamp := today.Format("20060102")
	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("%s_%s.csv", report, stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	default:
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("%s_%s.pdf", report, stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	}
}

func (s *ReportService) buildPrioritiesDataset(snap *models.Snapshot, today time.Time) (export.Dataset, string) {
	ranked := priority.RankOpen(*snap, today, s.weights)
	dataset := export.Dataset{
		Headers: []string{"id", "title", "unit", "assignees", "due_date", "status", "score"},
		Rows:    make([]map[string]string, 0, len(ranked)),
	}
	for _, item := range ranked {
		unitName := priority.UnknownUnitLabel
		if unit, ok := snap.Units[item.Request.UnitID]; ok {
			unitName = unit.Name
		}
		names := make([]string, 0, len(item.Assignees))
		for _, assignee := range item.Assignees {
			names = append(names, assignee.FullName)
		}
		due := ""
		if item.Request.DueDate != nil {
			due = item.Request.DueDate.Format("2006-01-02")
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"id":        item.Request.ID,
			"title":     item.Request.Title,
			"unit":      unitName,
			"assignees": strings.Join(names, "; "),
			"due_date":  due,
			"status":    string(item.Request.Status),
			"score":     strconv.FormatFloat(item.Score, 'f', 4, 64),
		})
	}
	return dataset, "Prioridades Jurídicas"
}

func (s *ReportService) buildUnitsDataset(snap *models.Snapshot, today time.Time) (export.Dataset, string) {
	bundle := priority.Aggregate(*snap, today, s.weights)
	dataset := export.Dataset{
		Headers: []string{"unit", "total", "open", "overdue", "avg_complexity"},
		Rows:    make([]map[string]string, 0, len(bundle.UnitMetrics)),
	}
	for _, metrics := range bundle.UnitMetrics {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"unit":           metrics.UnitName,
			"total":          strconv.Itoa(metrics.Total),
			"open":           strconv.Itoa(metrics.Open),
			"overdue":        strconv.Itoa(metrics.Overdue),
			"avg_complexity": strconv.FormatFloat(metrics.AvgComplexity, 'f', 2, 64),
		})
	}
	return dataset, "Carga por Unidad"
}
