package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for session token operations
type TokenService interface {
	GenerateToken(ctx context.Context, sessionID, address string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the wallet session JWT claims
type Claims struct {
	Address   string `json:"address"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
