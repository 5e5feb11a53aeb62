package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jflow/juridica-flow-api/internal/models"
	"github.com/jflow/juridica-flow-api/internal/priority"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
)

type snapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// PriorityService produces the scored ranking and the upcoming-deadline view.
// Results are cached per civil day because scores only move when the data or
// the date does.
type PriorityService struct {
	snapshots snapshotLoader
	cache     *CacheService
	logger    *zap.Logger
	weights   priority.Weights
	cacheTTL  time.Duration
	now       func() time.Time
}

// PriorityServiceParams bundles PriorityService dependencies.
type PriorityServiceParams struct {
	Snapshots snapshotLoader
	Cache     *CacheService
	Logger    *zap.Logger
	Weights   priority.Weights
	CacheTTL  time.Duration
	Now       func() time.Time
}

// NewPriorityService constructs a priority service. Zero weights fall back
// to the default weighting.
func NewPriorityService(params PriorityServiceParams) *PriorityService {
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
	return &PriorityService{
		snapshots: params.Snapshots,
		cache:     params.Cache,
		logger:    logger,
		weights:   weights,
		cacheTTL:  params.CacheTTL,
		now:       now,
	}
}

// Ranked returns all open requests ordered by descending score. The second
// return value reports whether the result came from cache.
func (s *PriorityService) Ranked(ctx context.Context) ([]priority.RankedRequest, bool, error) {
	today := s.now().UTC()
	key := fmt.Sprintf("priorities:rank:%s", today.Format("2006-01-02"))

	var cached []priority.RankedRequest
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	snap, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load snapshot")
	}
	ranked := priority.RankOpen(*snap, today, s.weights)

	if err := s.cache.Set(ctx, key, ranked, s.cacheTTL); err != nil {
		s.logger.Warn("priorities cache write failed", zap.Error(err))
	}
	return ranked, false, nil
}

// Upcoming returns open requests due within the near-term window, ordered by
// due date.
func (s *PriorityService) Upcoming(ctx context.Context) ([]priority.RankedRequest, bool, error) {
	today := s.now().UTC()
	key := fmt.Sprintf("priorities:upcoming:%s", today.Format("2006-01-02"))

	var cached []priority.RankedRequest
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	snap, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load snapshot")
	}
	upcoming := priority.Upcoming(*snap, today, s.weights)

	if err := s.cache.Set(ctx, key, upcoming, s.cacheTTL); err != nil {
		s.logger.Warn("upcoming cache write failed", zap.Error(err))
	}
	return upcoming, false, nil
}
