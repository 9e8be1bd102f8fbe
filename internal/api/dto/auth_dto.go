package dto

import (
	"time"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// OperatorResponse representation.
type OperatorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Operator  OperatorResponse `json:"operator"`
}

// NewOperatorResponse maps a domain operator.
func NewOperatorResponse(operator *domain.Operator) OperatorResponse {
	return OperatorResponse{
		ID:       operator.ID,
		Username: operator.Username,
		FullName: operator.FullName,
		Role:     string(operator.Role),
	}
}
