package models

import "time"

// User represents a staff member who can be assigned to legal requests.
// Role is a free-text label, not an enumerated set.
type User struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
