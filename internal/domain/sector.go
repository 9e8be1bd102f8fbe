package domain

import "time"

// Sector represents a geographic/administrative grouping of the congregation.
type Sector struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
