package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jflow/juridica-flow-api/internal/models"
	appErrors "github.com/jflow/juridica-flow-api/pkg/errors"
)

type stubCacheRepo struct {
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{entries: map[string][]byte{}}
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	s.entries = map[string][]byte{}
	return nil
}

type fakeSnapshotLoader struct {
	snap  *models.Snapshot
	err   error
	calls int
}

func (f *fakeSnapshotLoader) LoadSnapshot(_ context.Context) (*models.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
}

func serviceSnapshot() *models.Snapshot {
	due := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	far := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return &models.Snapshot{
		Requests: []models.RequestRecord{
			{
				LegalRequest: models.LegalRequest{
					ID:         "req-1",
					Title:      "Informe de patentes",
					UnitID:     "unit-1",
					Complexity: models.ComplexityAlta,
					DueDate:    &due,
					Status:     models.StatusPendiente,
					CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				},
				AssigneeIDs: []string{"user-1"},
			},
			{
				LegalRequest: models.LegalRequest{
					ID:         "req-2",
					Title:      "Convenio de colaboración",
					UnitID:     "unit-1",
					Complexity: models.ComplexityBaja,
					DueDate:    &far,
					Status:     models.StatusPendiente,
					CreatedAt:  time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
				},
			},
			{
				LegalRequest: models.LegalRequest{
					ID:         "req-3",
					Title:      "Sumario cerrado",
					UnitID:     "unit-1",
					Complexity: models.ComplexityMedia,
					Status:     models.StatusCompletado,
					CreatedAt:  time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		Units: map[string]models.Unit{
			"unit-1": {ID: "unit-1", Name: "SECPLA"},
		},
		Users: map[string]models.User{
			"user-1": {ID: "user-1", FullName: "Luis Trujillo", Role: "Abogado"},
		},
	}
}

func newCacheForTest(repo CacheRepository) *CacheService {
	return NewCacheService(repo, nil, time.Minute, nil, true)
}

func TestPriorityServiceRankedOrdersAndResolvesAssignees(t *testing.T) {
	loader := &fakeSnapshotLoader{snap: serviceSnapshot()}
	svc := NewPriorityService(PriorityServiceParams{Snapshots: loader, Now: fixedNow})

	ranked, hit, err := svc.Ranked(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, ranked, 2)
	assert.Equal(t, "req-1", ranked[0].Request.ID)
	assert.Equal(t, "req-2", ranked[1].Request.ID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
	require.Len(t, ranked[0].Assignees, 1)
	assert.Equal(t, "Luis Trujillo", ranked[0].Assignees[0].FullName)
}

func TestPriorityServiceRankedUsesCacheOnSecondCall(t *testing.T) {
	loader := &fakeSnapshotLoader{snap: serviceSnapshot()}
	svc := NewPriorityService(PriorityServiceParams{
		Snapshots: loader,
		Cache:     newCacheForTest(newStubCacheRepo()),
		Now:       fixedNow,
	})

	first, hit, err := svc.Ranked(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.Ranked(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, loader.calls)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].Request.ID, second[0].Request.ID)
	assert.Equal(t, first[0].Score, second[0].Score)
}

func TestPriorityServiceUpcomingFiltersWindow(t *testing.T) {
	loader := &fakeSnapshotLoader{snap: serviceSnapshot()}
	svc := NewPriorityService(PriorityServiceParams{Snapshots: loader, Now: fixedNow})

	upcoming, hit, err := svc.Upcoming(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "req-1", upcoming[0].Request.ID)
}

func TestPriorityServiceRankedSnapshotError(t *testing.T) {
	loader := &fakeSnapshotLoader{err: errors.New("db down")}
	svc := NewPriorityService(PriorityServiceParams{Snapshots: loader, Now: fixedNow})

	_, _, err := svc.Ranked(context.Background())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestPriorityServiceCacheFailureFallsThrough(t *testing.T) {
	repo := newStubCacheRepo()
	repo.getErr = errors.New("redis timeout")
	loader := &fakeSnapshotLoader{snap: serviceSnapshot()}
	svc := NewPriorityService(PriorityServiceParams{
		Snapshots: loader,
		Cache:     newCacheForTest(repo),
		Now:       fixedNow,
	})

	ranked, hit, err := svc.Ranked(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, ranked, 2)
	assert.Equal(t, 1, loader.calls)
}
