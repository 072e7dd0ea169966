package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/utils"
	"nft-drop/internal/wallet/config"
	"nft-drop/internal/wallet/domain/model"
	"nft-drop/internal/wallet/domain/repository"
	"nft-drop/internal/wallet/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func testConfig() *config.Config {
	return &config.Config{
		CookieName:     "nft_wallet_session",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
}

func setupApp(uc *mockWalletUsecase) *fiber.App {
	app := fiber.New()
	mw := NewWalletMiddleware(uc, "nft_wallet_session")
	NewWalletHTTPHandler(uc, testConfig()).SetupWalletRoutes(app.Group("/api/wallet"), mw)
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestChallenge(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)

	uc.On("IssueChallenge", mock.Anything, testAddress).
		Return(&model.Challenge{Address: testAddress, Nonce: "n1", Message: "sign me"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/challenge", strings.NewReader(`{"address":"`+testAddress+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "sign me", body["message"])
	assert.Equal(t, "n1", body["nonce"])
}

func TestChallenge_InvalidAddress(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)
	uc.On("IssueChallenge", mock.Anything, "nope").Return(nil, apperrors.ErrInvalidAddress)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/challenge", strings.NewReader(`{"address":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChallenge_RateLimitIgnoresForwardedFor(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)
	uc.On("IssueChallenge", mock.Anything, testAddress).
		Return(&model.Challenge{Address: testAddress, Nonce: "n1", Message: "sign me"}, nil)

	status := 0
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/wallet/challenge", strings.NewReader(`{"address":"`+testAddress+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		resp, err := app.Test(req)
		require.NoError(t, err)
		status = resp.StatusCode
	}
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}

func TestConnect_SetsCookie(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)

	uc.On("Connect", mock.Anything, mock.MatchedBy(func(r usecase.ConnectRequest) bool {
		return r.Address == testAddress && r.Nonce == "n1" && r.Signature == "0xsig"
	})).Return(&usecase.ConnectResponse{
		AccessToken:  "jwt-token",
		Address:      testAddress,
		ShortAddress: "0x5aA...BeAed",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/connect",
		strings.NewReader(`{"address":"`+testAddress+`","nonce":"n1","signature":"0xsig"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "nft_wallet_session" {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, "jwt-token", session.Value)
	assert.True(t, session.HttpOnly)
}

func TestConnect_BadSignature(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)
	uc.On("Connect", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidSignature)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/connect",
		strings.NewReader(`{"address":"`+testAddress+`","signature":"0xsig"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestDisconnect_ClearsCookie(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)
	uc.On("Disconnect", mock.Anything, "jwt-token").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/disconnect", nil)
	req.AddCookie(&http.Cookie{Name: "nft_wallet_session", Value: "jwt-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotEmpty(t, resp.Cookies())
	assert.Equal(t, "", resp.Cookies()[0].Value)
	uc.AssertExpectations(t)
}

func TestDisconnect_WithoutSession(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/disconnect", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	uc.AssertNotCalled(t, "Disconnect", mock.Anything, mock.Anything)
}

func TestMe(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)
	uc.On("ValidateToken", mock.Anything, "jwt-token").
		Return(&repository.Claims{Address: testAddress, SessionID: "sid"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/me", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, testAddress, body["address"])
	assert.Equal(t, "0x5aA...BeAed", body["shortAddress"])
}

func TestMe_Unauthenticated(t *testing.T) {
	uc := new(mockWalletUsecase)
	app := setupApp(uc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/wallet/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIdentify_IsNonBlocking(t *testing.T) {
	uc := new(mockWalletUsecase)
	mw := NewWalletMiddleware(uc, "nft_wallet_session")
	uc.On("ValidateToken", mock.Anything, "bad").Return(nil, apperrors.ErrInvalidToken)
	uc.On("ValidateToken", mock.Anything, "good").
		Return(&repository.Claims{Address: testAddress, SessionID: "sid"}, nil)

	app := fiber.New()
	app.Use(mw.Identify())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(utils.GetWalletAddressOrDefault(c.UserContext(), "anonymous"))
	})

	cases := map[string]string{"": "anonymous", "bad": "anonymous", "good": testAddress}
	for token, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: "nft_wallet_session", Value: token})
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, want, string(body), "token %q", token)
	}
}

func TestRequestContext(t *testing.T) {
	mw := NewWalletMiddleware(new(mockWalletUsecase), "nft_wallet_session")

	app := fiber.New()
	app.Use(mw.RequestID(), mw.RequestContext())
	app.Get("/", func(c *fiber.Ctx) error {
		id, err := utils.GetRequestIDFromContext(c.UserContext())
		if err != nil {
			return err
		}
		return c.SendString(id)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "req-42", string(body))
}
