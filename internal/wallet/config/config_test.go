package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("WALLET_JWT_SECRET", "a-very-long-secret-for-tests-only-0123")
	t.Setenv("WALLET_COOKIE_SAME_SITE", "strict")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.ChallengeTTL)
	assert.Equal(t, "Strict", cfg.CookieSameSite)
	assert.Equal(t, "nft_wallet_session", cfg.CookieName)
}

func TestValidate(t *testing.T) {
	cfg := &Config{JWTSecretKey: "k", SessionTTL: time.Hour, ChallengeTTL: time.Minute, CookieSameSite: "sideways"}
	assert.Error(t, cfg.Validate())

	cfg.CookieSameSite = "NONE"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "None", cfg.CookieSameSite)

	cfg.JWTSecretKey = ""
	assert.Error(t, cfg.Validate())
}
