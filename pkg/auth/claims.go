package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tradelink-io/tradelink-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	Role      enums.AccountRole
	ProfileID uuid.UUID
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. ProfileID is
// the company id for company users and the retailer id for retailer users.
type AccessTokenClaims struct {
	UserID    uuid.UUID         `json:"user_id"`
	Role      enums.AccountRole `json:"role"`
	ProfileID uuid.UUID         `json:"profile_id"`
	jwt.RegisteredClaims
}
