package priority

import (
	"math"
	"sort"
	"time"

	"github.com/jflow/juridica-flow-api/internal/models"
)

// UnknownUnitLabel is reported for requests whose unit reference cannot be
// resolved in the snapshot. The foreign-key invariant should make this
// unreachable, but the aggregator tolerates it.
const UnknownUnitLabel = "¿(Sin unidad)?"

// slaWindowDays is the due-date window for the unassigned-at-risk count.
const slaWindowDays = 7

// ScoreBins is a histogram of scores over a closed partition of [0,1].
// Scores above 1.0 (possible with unconstrained weights) fall outside
// every bin.
type ScoreBins struct {
	Low  int `json:"low"`  // [0, 0.33]
	Mid  int `json:"mid"`  // (0.33, 0.66]
	High int `json:"high"` // (0.66, 1.0]
}

// UserLoad summarizes the open, assigned workload of a single user.
type UserLoad struct {
	UserID       string    `json:"user_id"`
	FullName     string    `json:"full_name"`
	OpenCount    int       `json:"open_count"`
	TotalScore   float64   `json:"total_score"`
	OverdueCount int       `json:"overdue_count"`
	Bins         ScoreBins `json:"bins"`
}

// UnitMetrics summarizes request load for a single unit.
type UnitMetrics struct {
	UnitName      string  `json:"unit_name"`
	Total         int     `json:"total"`
	Open          int     `json:"open"`
	Overdue       int     `json:"overdue"`
	AvgComplexity float64 `json:"avg_complexity"`
}

// StatusDistribution buckets every request into exactly one of three
// mutually exclusive states. A request with no assignees counts as
// unassigned regardless of its status field, so a completed request
// without assignees lands in Unassigned, not Completed.
type StatusDistribution struct {
	Unassigned int `json:"unassigned"`
	Pending    int `json:"pending"`
	Completed  int `json:"completed"`
}

// ComplexityDistribution counts requests per valid complexity value.
// Out-of-range complexities are excluded from this table.
type ComplexityDistribution struct {
	Baja  int `json:"baja"`
	Media int `json:"media"`
	Alta  int `json:"alta"`
}

// AgingHistogram buckets all requests by days since creation.
type AgingHistogram struct {
	UpTo7Days  int `json:"up_to_7_days"`
	UpTo30Days int `json:"up_to_30_days"`
	UpTo60Days int `json:"up_to_60_days"`
	Over60Days int `json:"over_60_days"`
}

// ReportBundle is the full set of aggregate tables computed from a snapshot.
type ReportBundle struct {
	UserLoads         []UserLoad             `json:"user_loads"`
	UnitMetrics       []UnitMetrics          `json:"unit_metrics"`
	Status            StatusDistribution     `json:"status"`
	Complexity        ComplexityDistribution `json:"complexity"`
	Aging             AgingHistogram         `json:"aging"`
	DueSoonUnassigned int                    `json:"due_soon_unassigned"`
}

type unitAccumulator struct {
	total         int
	open          int
	overdue       int
	complexitySum int
	complexityN   int
}

// Aggregate computes every report table in one pass over the snapshot. It is
// total over any well-formed snapshot: empty input yields zeroed tables and
// irregular records degrade via fallbacks instead of failing.
func Aggregate(snap models.Snapshot, today time.Time, w Weights) ReportBundle {
	bundle := ReportBundle{}

	userLoads := make(map[string]*UserLoad)
	unitAcc := make(map[string]*unitAccumulator)
	unitOrder := make([]string, 0)

	for _, rec := range snap.Requests {
		score := Score(rec.LegalRequest, today, w)
		overdue := rec.DueDate != nil && daysBetween(today, *rec.DueDate) < 0
		assigned := len(rec.AssigneeIDs) > 0

		// Per-user workload: open, assigned requests only.
		if rec.Open() && assigned {
			for _, uid := range rec.AssigneeIDs {
				load, ok := userLoads[uid]
				if !ok {
					load = &UserLoad{UserID: uid}
					if user, found := snap.Users[uid]; found {
						load.FullName = user.FullName
					}
					userLoads[uid] = load
				}
				load.OpenCount++
				load.TotalScore += score
				if overdue {
					load.OverdueCount++
				}
				switch {
				case score <= 0.33:
					load.Bins.Low++
				case score <= 0.66:
					load.Bins.Mid++
				case score <= 1.0:
					load.Bins.High++
				}
			}
		}

		// Per-unit metrics, keyed by unit name.
		unitName := UnknownUnitLabel
		if unit, ok := snap.Units[rec.UnitID]; ok {
			unitName = unit.Name
		}
		acc, ok := unitAcc[unitName]
		if !ok {
			acc = &unitAccumulator{}
			unitAcc[unitName] = acc
			unitOrder = append(unitOrder, unitName)
		}
		acc.total++
		if rec.Open() {
			acc.open++
		}
		if overdue && rec.Open() {
			acc.overdue++
		}
		if rec.Complexity != 0 {
			acc.complexitySum += rec.Complexity
			acc.complexityN++
		}

		// Global status distribution.
		switch {
		case !assigned:
			bundle.Status.Unassigned++
		case rec.Status == models.StatusCompletado:
			bundle.Status.Completed++
		default:
			bundle.Status.Pending++
		}

		// Global complexity distribution, valid values only.
		switch rec.Complexity {
		case models.ComplexityBaja:
			bundle.Complexity.Baja++
		case models.ComplexityMedia:
			bundle.Complexity.Media++
		case models.ComplexityAlta:
			bundle.Complexity.Alta++
		}

		// Aging histogram over all requests.
		age := 0
		if !rec.CreatedAt.IsZero() {
			age = daysBetween(rec.CreatedAt, today)
		}
		switch {
		case age <= 7:
			bundle.Aging.UpTo7Days++
		case age <= 30:
			bundle.Aging.UpTo30Days++
		case age <= 60:
			bundle.Aging.UpTo60Days++
		default:
			bundle.Aging.Over60Days++
		}

		// Open, unassigned and due within the SLA window.
		if rec.Open() && !assigned && rec.DueDate != nil {
			if days := daysBetween(today, *rec.DueDate); days >= 0 && days <= slaWindowDays {
				bundle.DueSoonUnassigned++
			}
		}
	}

	bundle.UserLoads = make([]UserLoad, 0, len(userLoads))
	for _, load := range userLoads {
		load.TotalScore = round3(load.TotalScore)
		bundle.UserLoads = append(bundle.UserLoads, *load)
	}
	sort.Slice(bundle.UserLoads, func(i, j int) bool {
		if bundle.UserLoads[i].FullName != bundle.UserLoads[j].FullName {
			return bundle.UserLoads[i].FullName < bundle.UserLoads[j].FullName
		}
		return bundle.UserLoads[i].UserID < bundle.UserLoads[j].UserID
	})

	bundle.UnitMetrics = make([]UnitMetrics, 0, len(unitAcc))
	sort.Strings(unitOrder)
	for _, name := range unitOrder {
		acc := unitAcc[name]
		metrics := UnitMetrics{
			UnitName: name,
			Total:    acc.total,
			Open:     acc.open,
			Overdue:  acc.overdue,
		}
		if acc.complexityN > 0 {
			metrics.AvgComplexity = round2(float64(acc.complexitySum) / float64(acc.complexityN))
		}
		bundle.UnitMetrics = append(bundle.UnitMetrics, metrics)
	}

	return bundle
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
