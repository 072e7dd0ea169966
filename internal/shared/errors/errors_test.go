package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Behavior(t *testing.T) {
	err := NewValidationError("invalid input").WithCode("VAL001").WithDetail("field", "slug").WithComponent("catalog")
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "VAL001", err.Code)
	assert.Equal(t, "catalog", err.Component)
	assert.Equal(t, "slug", err.Details["field"])
	assert.Equal(t, "invalid input", err.Error())
}

func TestAppError_WithCause_Unwrap(t *testing.T) {
	err := NewNotFoundError("collection").WithCause(ErrCollectionNotFound)
	assert.Equal(t, ErrCollectionNotFound, err.Unwrap())
	assert.Equal(t, "collection not found: collection not found", err.Error())
}

func TestPredicates(t *testing.T) {
	nf := NewNotFoundError("collection")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsValidation(nf))
	assert.False(t, IsAuthentication(nf))

	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrCollectionNotFound)))
	assert.True(t, IsValidation(ErrInvalidAddress))
	assert.True(t, IsAuthentication(ErrInvalidSignature))
	assert.True(t, IsAuthentication(NewAuthenticationError("no session")))
	assert.True(t, IsUpstream(NewUpstreamError("rpc down")))
	assert.True(t, IsConflict(ErrSoldOut))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewNotFoundError("collection")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(fmt.Errorf("wrapped: %w", NewUpstreamError("cms"))))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCollectionNotFound))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrChallengeExpired))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrSoldOut))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrDropNotConfigured))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}

func TestWrapError_KeepsAppError(t *testing.T) {
	orig := NewConflictError("sold out")
	assert.Same(t, orig, WrapError(fmt.Errorf("ctx: %w", orig), "ignored"))

	wrapped := WrapError(fmt.Errorf("boom"), "render failed")
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.Equal(t, "render failed: boom", wrapped.Error())
}
