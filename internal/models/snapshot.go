package models

// RequestRecord is a legal request with its resolved assignee identifiers.
type RequestRecord struct {
	LegalRequest
	AssigneeIDs []string
}

// Snapshot is the consistent, read-only view of the request set that the
// prioritization core computes over. Units and Users are lookup tables keyed
// by identifier.
type Snapshot struct {
	Requests []RequestRecord
	Units    map[string]Unit
	Users    map[string]User
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
