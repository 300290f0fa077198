package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID         uuid.UUID
	Role           enums.UserRole
	SessionVersion int
	JTI            string
}

// AccessTokenClaims represents the typed JWT issued to clients. SessionVersion
// mirrors the counter on the user row; incrementing that counter server-side
// invalidates every outstanding token at refresh time.
type AccessTokenClaims struct {
	UserID         uuid.UUID      `json:"user_id"`
	Role           enums.UserRole `json:"role"`
	SessionVersion int            `json:"sv"`
	jwt.RegisteredClaims
}
