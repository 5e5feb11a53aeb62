package priority

import (
	"sort"
	"time"

	"github.com/jflow/juridica-flow-api/internal/models"
)

// RankedRequest pairs a request with its resolved assignees and score.
type RankedRequest struct {
	Request   models.LegalRequest `json:"request"`
	Assignees []models.User       `json:"assignees"`
	Score     float64             `json:"score"`
}

// Upcoming-view window relative to today, in days.
const (
	upcomingWindowStart = -3
	upcomingWindowEnd   = 14
)

// RankOpen returns every non-completed request scored and ordered by
// descending score. Equal scores tie-break on ascending request ID so the
// ordering is deterministic.
func RankOpen(snap models.Snapshot, today time.Time, w Weights) []RankedRequest {
	ranked := make([]RankedRequest, 0, len(snap.Requests))
	for _, rec := range snap.Requests {
		if !rec.Open() {
			continue
		}
		ranked = append(ranked, RankedRequest{
			Request:   rec.LegalRequest,
			Assignees: resolveAssignees(snap, rec),
			Score:     Score(rec.LegalRequest, today, w),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Request.ID < ranked[j].Request.ID
	})
	return ranked
}

// Upcoming returns open requests whose due date falls within [-3, +14] days
// of today, ordered by ascending due date and then descending score.
func Upcoming(snap models.Snapshot, today time.Time, w Weights) []RankedRequest {
	upcoming := make([]RankedRequest, 0)
	for _, rec := range snap.Requests {
		if !rec.Open() || rec.DueDate == nil {
			continue
		}
		days := daysBetween(today, *rec.DueDate)
		if days < upcomingWindowStart || days > upcomingWindowEnd {
			continue
		}
		upcoming = append(upcoming, RankedRequest{
			Request:   rec.LegalRequest,
			Assignees: resolveAssignees(snap, rec),
			Score:     Score(rec.LegalRequest, today, w),
		})
	}
	sort.Slice(upcoming, func(i, j int) bool {
		di, dj := *upcoming[i].Request.DueDate, *upcoming[j].Request.DueDate
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if upcoming[i].Score != upcoming[j].Score {
			return upcoming[i].Score > upcoming[j].Score
		}
		return upcoming[i].Request.ID < upcoming[j].Request.ID
	})
	return upcoming
}

func resolveAssignees(snap models.Snapshot, rec models.RequestRecord) []models.User {
	assignees := make([]models.User, 0, len(rec.AssigneeIDs))
	for _, id := range rec.AssigneeIDs {
		if user, ok := snap.Users[id]; ok {
			assignees = append(assignees, user)
		}
	}
	return assignees
}
