package model

import (
	"fmt"
	"time"
)

// Session is a connected wallet's server-side session
type Session struct {
	ID        string    `json:"id" bson:"_id"`
	Address   string    `json:"address" bson:"address"`
	UserAgent string    `json:"-" bson:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Challenge is a single-use message a wallet signs to prove control of Address
type Challenge struct {
	Nonce     string    `json:"nonce"`
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignInMessage renders the text the wallet is asked to sign
func SignInMessage(domain, uri, address, nonce string, issuedAt, expiresAt time.Time) string {
	return fmt.Sprintf("%s wants you to sign in with your Ethereum account:\n%s\n\n"+
		"Sign in to the Web3 NFT Marketplace.\n\n"+
		"URI: %s\nNonce: %s\nIssued At: %s\nExpiration Time: %s",
		domain, address, uri, nonce,
		issuedAt.UTC().Format(time.RFC3339), expiresAt.UTC().Format(time.RFC3339))
}
