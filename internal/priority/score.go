// Package priority implements the urgency scoring, ranking and reporting
// core. Everything in this package is a pure function over a models.Snapshot
// and a reference date: no I/O, no retained state between calls.
package priority

import (
	"math"
	"time"

	"github.com/jflow/juridica-flow-api/internal/models"
)

// Weights holds the factor weights combined into a request score. The
// weights are not required to sum to 1, so scores can exceed 1.0.
type Weights struct {
	Deadline   float64
	Complexity float64
	Age        float64
}

// DefaultWeights returns the standard weight configuration.
func DefaultWeights() Weights {
	return Weights{Deadline: 0.6, Complexity: 0.3, Age: 0.1}
}

const (
	// deadlineHorizonDays is the window over which the deadline factor
	// decays linearly from 1 to 0.
	deadlineHorizonDays = 30.0
	// ageCapDays is the age at which the age factor saturates at 1.
	ageCapDays = 60.0
)

var complexityFactors = map[int]float64{
	models.ComplexityBaja:  0.2,
	models.ComplexityMedia: 0.6,
	models.ComplexityAlta:  1.0,
}

// DeadlineFactor maps the due date to [0,1]: 1.0 when due today or overdue,
// decaying linearly to 0 at 30 days out. A missing due date yields 0.
func DeadlineFactor(due *time.Time, today time.Time) float64 {
	if due == nil {
		return 0
	}
	daysLeft := daysBetween(today, *due)
	if daysLeft <= 0 {
		return 1.0
	}
	return math.Max(0, 1.0-float64(daysLeft)/deadlineHorizonDays)
}

// ComplexityFactor maps complexity 1/2/3 to 0.2/0.6/1.0. Any other value
// falls back to the medium factor 0.6.
func ComplexityFactor(complexity int) float64 {
	if f, ok := complexityFactors[complexity]; ok {
		return f
	}
	return complexityFactors[models.ComplexityMedia]
}

// AgeFactor maps the request age to [0,1], growing linearly and saturating
// at 60 days. A missing creation timestamp yields 0.
func AgeFactor(createdAt time.Time, today time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	ageDays := daysBetween(createdAt, today)
	if ageDays <= 0 {
		return 0
	}
	return math.Min(1.0, float64(ageDays)/ageCapDays)
}

// Score combines the deadline, complexity and age factors of a request into
// a single urgency value, rounded half away from zero to 4 decimal places.
func Score(req models.LegalRequest, today time.Time, w Weights) float64 {
	score := w.Deadline*DeadlineFactor(req.DueDate, today) +
		w.Complexity*ComplexityFactor(req.Complexity) +
		w.Age*AgeFactor(req.CreatedAt, today)
	return round4(score)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// daysBetween returns the whole calendar days from a to b, ignoring the
// time-of-day and timezone components of both instants.
func daysBetween(a, b time.Time) int {
	return int(civilDay(b).Sub(civilDay(a)).Hours() / 24)
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
