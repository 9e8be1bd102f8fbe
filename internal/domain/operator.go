package domain

import "time"

// OperatorRole enumerates registry operator roles.
type OperatorRole string

const (
	OperatorRoleAdmin OperatorRole = "ADMIN"
	OperatorRoleStaff OperatorRole = "STAFF"
	// OperatorRoleSystem marks the seeded non-interactive account that
	// attributes automatically captured ledger entries.
	OperatorRoleSystem OperatorRole = "SYSTEM"
)

// Operator models a registry staff account.
type Operator struct {
	ID           string
	Username     string
	FullName     string
	PasswordHash string
	Role         OperatorRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
