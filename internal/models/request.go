package models

import "time"

// RequestStatus enumerates the lifecycle states of a legal request.
type RequestStatus string

const (
	StatusPendiente  RequestStatus = "PENDIENTE"
	StatusEnCurso    RequestStatus = "EN_CURSO"
	StatusCompletado RequestStatus = "COMPLETADO"
)

// Complexity levels for a legal request. Anything outside 1..3 is treated as
// ComplexityMedia by the scoring fallback.
const (
	ComplexityBaja  = 1
	ComplexityMedia = 2
	ComplexityAlta  = 3
)

// LegalRequest represents a legal-service request raised by a unit.
// Status and assignments are the only fields mutated after creation.
type LegalRequest struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description *string       `db:"description" json:"description,omitempty"`
	UnitID      string        `db:"unit_id" json:"unit_id"`
	Complexity  int           `db:"complexity" json:"complexity"`
	DueDate     *time.Time    `db:"due_date" json:"due_date,omitempty"`
	Status      RequestStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// Open reports whether the request still needs work.
func (r LegalRequest) Open() bool {
	return r.Status != StatusCompletado
}

// Assignment links a legal request to an assigned user. At most one
// assignment exists per (request, user) pair; assignments are removed
// together with their request.
type Assignment struct {
	ID         string    `db:"id" json:"id"`
	RequestID  string    `db:"request_id" json:"request_id"`
	AssigneeID string    `db:"assignee_id" json:"assignee_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
