package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jflow/juridica-flow-api/internal/models"
)

// RequestRepository provides database access for legal requests and their
// assignments.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository creates a new instance of RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new legal request. Status is always initialized to
// PENDIENTE regardless of the caller's value.
func (r *RequestRepository) Create(ctx context.Context, req *models.LegalRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = models.StatusPendiente
	if req.Complexity == 0 {
		req.Complexity = models.ComplexityMedia
	}
	const query = `INSERT INTO legal_requests (id, title, description, unit_id, complexity, due_date, status, created_at) VALUES (:id, :title, :description, :unit_id, :complexity, :due_date, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create legal request: %w", err)
	}
	return nil
}

// FindByID returns a legal request by identifier.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*models.LegalRequest, error) {
	const query = `SELECT id, title, description, unit_id, complexity, due_date, status, created_at FROM legal_requests WHERE id = $1 LIMIT 1`
	var req models.LegalRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find legal request by id: %w", err)
	}
	return &req, nil
}

// List returns all legal requests ordered by creation time, newest first.
func (r *RequestRepository) List(ctx context.Context) ([]models.LegalRequest, error) {
	const query = `SELECT id, title, description, unit_id, complexity, due_date, status, created_at FROM legal_requests ORDER BY created_at DESC`
	var requests []models.LegalRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list legal requests: %w", err)
	}
	return requests, nil
}

// SetStatus updates the status of a request.
func (r *RequestRepository) SetStatus(ctx context.Context, id string, status models.RequestStatus) error {
	const query = `UPDATE legal_requests SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("set request status: %w", err)
	}
	return nil
}

// Delete removes a request together with its assignments.
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete request: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE request_id = $1`, id); err != nil {
		return fmt.Errorf("delete request assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM legal_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete request: %w", err)
	}
	return nil
}

// FindAssignment returns the assignment for a (request, user) pair.
func (r *RequestRepository) FindAssignment(ctx context.Context, requestID, assigneeID string) (*models.Assignment, error) {
	const query = `SELECT id, request_id, assignee_id, created_at FROM assignments WHERE request_id = $1 AND assignee_id = $2 LIMIT 1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, requestID, assigneeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// CreateAssignment inserts a new assignment.
func (r *RequestRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (id, request_id, assignee_id, created_at) VALUES (:id, :request_id, :assignee_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// ListAssignmentsByRequest returns the assignments of a request.
func (r *RequestRepository) ListAssignmentsByRequest(ctx context.Context, requestID string) ([]models.Assignment, error) {
	const query = `SELECT id, request_id, assignee_id, created_at FROM assignments WHERE request_id = $1 ORDER BY created_at`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, requestID); err != nil {
		return nil, fmt.Errorf("list assignments by request: %w", err)
	}
	return assignments, nil
}

// LoadSnapshot materializes the full request set with resolved assignee
// identifiers plus unit and user lookup tables. All reads run inside one
// read-only transaction so the snapshot is internally consistent.
func (r *RequestRepository) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var requests []models.LegalRequest
	if err := tx.SelectContext(ctx, &requests, `SELECT id, title, description, unit_id, complexity, due_date, status, created_at FROM legal_requests ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("snapshot requests: %w", err)
	}

	var assignments []models.Assignment
	if err := tx.SelectContext(ctx, &assignments, `SELECT id, request_id, assignee_id, created_at FROM assignments ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("snapshot assignments: %w", err)
	}

	var units []models.Unit
	if err := tx.SelectContext(ctx, &units, `SELECT id, name, created_at FROM units ORDER BY name`); err != nil {
		return nil, fmt.Errorf("snapshot units: %w", err)
	}

	var users []models.User
	if err := tx.SelectContext(ctx, &users, `SELECT id, full_name, role, created_at FROM users ORDER BY full_name`); err != nil {
		return nil, fmt.Errorf("snapshot users: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}

	assigneesByRequest := make(map[string][]string, len(requests))
	for _, assignment := range assignments {
		assigneesByRequest[assignment.RequestID] = append(assigneesByRequest[assignment.RequestID], assignment.AssigneeID)
	}

	snap := &models.Snapshot{
		Requests: make([]models.RequestRecord, 0, len(requests)),
		Units:    make(map[string]models.Unit, len(units)),
		Users:    make(map[string]models.User, len(users)),
	}
	for _, req := range requests {
		snap.Requests = append(snap.Requests, models.RequestRecord{
			LegalRequest: req,
			AssigneeIDs:  assigneesByRequest[req.ID],
		})
	}
	for _, unit := range units {
		snap.Units[unit.ID] = unit
	}
	for _, user := range users {
		snap.Users[user.ID] = user
	}
	return snap, nil
}
