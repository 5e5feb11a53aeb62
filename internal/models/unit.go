package models

import "time"

// Unit represents an organizational unit that originates legal requests.
// Units are created once and never edited or removed.
type Unit struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
