package security

import (
	"context"
	"testing"
	"time"

	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/wallet/config"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey: "a-very-long-secret-for-tests-only-0123",
		JWTIssuer:    "test-issuer",
		SessionTTL:   time.Hour,
	}
}

func TestNewJWTokenService_Validation(t *testing.T) {
	_, err := NewJWTokenService(&config.Config{JWTIssuer: "i", SessionTTL: time.Hour})
	assert.Error(t, err)
	_, err = NewJWTokenService(&config.Config{JWTSecretKey: "k", SessionTTL: time.Hour})
	assert.Error(t, err)
	_, err = NewJWTokenService(&config.Config{JWTSecretKey: "k", JWTIssuer: "i"})
	assert.Error(t, err)
}

func TestJWTokenService_RoundTrip(t *testing.T) {
	svc, err := NewJWTokenService(testConfig())
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "sid-1", "0xabc")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "0xabc", claims.Address)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestJWTokenService_Expired(t *testing.T) {
	svc, err := NewJWTokenService(testConfig())
	require.NoError(t, err)
	token, err := svc.GenerateToken(context.Background(), "sid-1", "0xabc")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTokenService_RejectsForeignTokens(t *testing.T) {
	svc, err := NewJWTokenService(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecretKey = "another-secret-another-secret-another"
	foreign, err := NewJWTokenService(other)
	require.NoError(t, err)
	token, err := foreign.GenerateToken(context.Background(), "sid", "0xabc")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func signPersonal(t *testing.T, message string) (string, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func TestPersonalSignVerifier_Recovers(t *testing.T) {
	sig, addr := signPersonal(t, "hello drop")

	got, err := NewPersonalSignVerifier().RecoverAddress("hello drop", sig)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestPersonalSignVerifier_DifferentMessage(t *testing.T) {
	sig, addr := signPersonal(t, "hello drop")

	got, err := NewPersonalSignVerifier().RecoverAddress("hello other", sig)
	if err == nil {
		assert.NotEqual(t, addr, got)
	}
}

func TestPersonalSignVerifier_Malformed(t *testing.T) {
	v := NewPersonalSignVerifier()
	_, err := v.RecoverAddress("m", "0x1234")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
	_, err = v.RecoverAddress("m", "zz")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}
