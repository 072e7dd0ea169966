package repository

import (
	"context"
	"time"

	"nft-drop/internal/wallet/domain/model"
)

// SessionRepository persists wallet sessions
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionByID(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// ChallengeStore keeps outstanding sign-in challenges, keyed by nonce.
// Get and Consume return errors.ErrChallengeExpired when the nonce is unknown.
type ChallengeStore interface {
	Save(ctx context.Context, challenge *model.Challenge, ttl time.Duration) error
	Get(ctx context.Context, nonce string) (*model.Challenge, error)
	// Consume removes the challenge. Only one caller wins for a given nonce.
	Consume(ctx context.Context, nonce string) error
}

// SignatureVerifier recovers the account that signed a personal message
type SignatureVerifier interface {
	RecoverAddress(message, signature string) (string, error)
}
