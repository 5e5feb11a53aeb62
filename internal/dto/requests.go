package dto

// CreateUnitRequest is the payload for registering a new unit.
type CreateUnitRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// CreateUserRequest is the payload for registering a staff member.
type CreateUserRequest struct {
	FullName string `json:"full_name" validate:"required,max=160"`
	Role     string `json:"role" validate:"required,max=60"`
}

// CreateLegalRequestRequest is the payload for opening a legal request.
// DueDate uses YYYY-MM-DD; Complexity defaults to 2 when omitted.
type CreateLegalRequestRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
	UnitID      string  `json:"unit_id" validate:"required"`
	Complexity  int     `json:"complexity" validate:"omitempty,min=1,max=3"`
	DueDate     *string `json:"due_date"`
}

// UpdateStatusRequest changes the lifecycle state of a request. Only the
// two externally reachable states are accepted.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDIENTE COMPLETADO"`
}
