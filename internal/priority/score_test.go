package priority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jflow/juridica-flow-api/internal/models"
)

var today = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func TestDeadlineFactor_DueTodayOrOverdueSaturates(t *testing.T) {
	assert.Equal(t, 1.0, DeadlineFactor(datePtr(today), today))
	assert.Equal(t, 1.0, DeadlineFactor(datePtr(today.AddDate(0, 0, -1)), today))
	assert.Equal(t, 1.0, DeadlineFactor(datePtr(today.AddDate(0, 0, -90)), today))
}

func TestDeadlineFactor_LinearDecayToThirtyDays(t *testing.T) {
	assert.InDelta(t, 1.0-1.0/30.0, DeadlineFactor(datePtr(today.AddDate(0, 0, 1)), today), 1e-9)
	assert.InDelta(t, 0.5, DeadlineFactor(datePtr(today.AddDate(0, 0, 15)), today), 1e-9)
	assert.Equal(t, 0.0, DeadlineFactor(datePtr(today.AddDate(0, 0, 30)), today))
	assert.Equal(t, 0.0, DeadlineFactor(datePtr(today.AddDate(0, 0, 45)), today))
}

func TestDeadlineFactor_StrictlyDecreasingInsideWindow(t *testing.T) {
	prev := DeadlineFactor(datePtr(today.AddDate(0, 0, 1)), today)
	for days := 2; days < 30; days++ {
		cur := DeadlineFactor(datePtr(today.AddDate(0, 0, days)), today)
		assert.Less(t, cur, prev, "factor must strictly decrease at %d days", days)
		prev = cur
	}
}

func TestDeadlineFactor_MissingDueDate(t *testing.T) {
	assert.Equal(t, 0.0, DeadlineFactor(nil, today))
}

func TestComplexityFactor_Mapping(t *testing.T) {
	assert.Equal(t, 0.2, ComplexityFactor(models.ComplexityBaja))
	assert.Equal(t, 0.6, ComplexityFactor(models.ComplexityMedia))
	assert.Equal(t, 1.0, ComplexityFactor(models.ComplexityAlta))
}

func TestComplexityFactor_FallbackToMedia(t *testing.T) {
	for _, invalid := range []int{0, -1, 4, 99} {
		assert.Equal(t, 0.6, ComplexityFactor(invalid), "complexity %d", invalid)
	}
}

func TestAgeFactor_Boundaries(t *testing.T) {
	assert.Equal(t, 0.0, AgeFactor(today, today))
	assert.InDelta(t, 10.0/60.0, AgeFactor(today.AddDate(0, 0, -10), today), 1e-9)
	assert.Equal(t, 1.0, AgeFactor(today.AddDate(0, 0, -60), today))
	assert.Equal(t, 1.0, AgeFactor(today.AddDate(0, 0, -90), today))
}

func TestAgeFactor_MissingCreationTimestamp(t *testing.T) {
	assert.Equal(t, 0.0, AgeFactor(time.Time{}, today))
}

func TestScore_PinnedExampleDueTodayHighComplexity(t *testing.T) {
	req := models.LegalRequest{
		ID:         "req-1",
		Complexity: models.ComplexityAlta,
		DueDate:    datePtr(today),
		CreatedAt:  today.AddDate(0, 0, -10),
	}
	// 0.6*1 + 0.3*1 + 0.1*(10/60) = 0.91666... -> 0.9167
	assert.Equal(t, 0.9167, Score(req, today, DefaultWeights()))
}

func TestScore_PinnedExampleNoDueDateOldRequest(t *testing.T) {
	req := models.LegalRequest{
		ID:         "req-2",
		Complexity: models.ComplexityBaja,
		CreatedAt:  today.AddDate(0, 0, -90),
	}
	// 0 + 0.3*0.2 + 0.1*1 = 0.16
	assert.Equal(t, 0.16, Score(req, today, DefaultWeights()))
}

func TestScore_RoundsHalfAwayFromZeroAtFourthDecimal(t *testing.T) {
	// deadline 0, complexity 0.6, age 25/60. With weights {0, 1, 0.0015}:
	// 0.6 + 0.0015*(25/60) = 0.600625 -> 0.6006
	req := models.LegalRequest{
		ID:         "req-3",
		Complexity: models.ComplexityMedia,
		CreatedAt:  today.AddDate(0, 0, -25),
	}
	got := Score(req, today, Weights{Complexity: 1, Age: 0.0015})
	assert.Equal(t, 0.6006, got)

	// 0.6 + 0.0021*(25/60) = 0.600875 -> rounds up to 0.6009
	got = Score(req, today, Weights{Complexity: 1, Age: 0.0021})
	assert.Equal(t, 0.6009, got)
}

func TestScore_CanExceedOneWithUnconstrainedWeights(t *testing.T) {
	req := models.LegalRequest{
		ID:         "req-4",
		Complexity: models.ComplexityAlta,
		DueDate:    datePtr(today.AddDate(0, 0, -1)),
		CreatedAt:  today.AddDate(0, 0, -90),
	}
	assert.Equal(t, 3.0, Score(req, today, Weights{Deadline: 1, Complexity: 1, Age: 1}))
}

func TestScore_IgnoresTimeOfDayComponents(t *testing.T) {
	due := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	req := models.LegalRequest{
		ID:         "req-5",
		Complexity: models.ComplexityAlta,
		DueDate:    &due,
		CreatedAt:  today.AddDate(0, 0, -10),
	}
	noon := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.9167, Score(req, noon, DefaultWeights()))
}
