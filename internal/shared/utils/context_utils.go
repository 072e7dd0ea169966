package utils

import (
	"context"
	"errors"

	"nft-drop/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrWalletAddressNotFound  = errors.New("wallet address not found in context")
	ErrWalletAddressNotString = errors.New("wallet address in context is not a string")
	ErrSessionIDNotFound      = errors.New("sessionID not found in context")
	ErrSessionIDNotString     = errors.New("sessionID in context is not a string")
	ErrRequestIDNotFound      = errors.New("requestID not found in context")
	ErrRequestIDNotString     = errors.New("requestID in context is not a string")
)

func stringValue(ctx context.Context, key interface{}, notFound, notString error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", notFound
	}
	s, ok := val.(string)
	if !ok {
		return "", notString
	}
	return s, nil
}

// GetWalletAddressFromContext retrieves the connected wallet address from the context.
// It returns an error if the address is not found or is not a string.
func GetWalletAddressFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.WalletAddressKey, ErrWalletAddressNotFound, ErrWalletAddressNotString)
}

// GetSessionIDFromContext retrieves the wallet session ID from the context.
func GetSessionIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.SessionIDKey, ErrSessionIDNotFound, ErrSessionIDNotString)
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

// Context builder functions

// WithWalletAddress adds the connected wallet address to context
func WithWalletAddress(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, contextkeys.WalletAddressKey, address)
}

// WithSessionID adds the wallet session ID to context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextkeys.SessionIDKey, sessionID)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithCollectionSlug adds the collection slug being served to context
func WithCollectionSlug(ctx context.Context, slug string) context.Context {
	return context.WithValue(ctx, contextkeys.CollectionSlugKey, slug)
}

// WithComponent adds component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// GetWalletAddressOrDefault retrieves the wallet address from context or returns a default value
func GetWalletAddressOrDefault(ctx context.Context, def string) string {
	if v, err := GetWalletAddressFromContext(ctx); err == nil {
		return v
	}
	return def
}

// HasWalletAddress reports whether a non-empty wallet address is present in context
func HasWalletAddress(ctx context.Context) bool {
	v, err := GetWalletAddressFromContext(ctx)
	return err == nil && v != ""
}
