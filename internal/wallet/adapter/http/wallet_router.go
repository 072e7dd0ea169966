package http

import (
	"errors"
	"time"

	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/wallet/config"
	"nft-drop/internal/wallet/domain/model"
	"nft-drop/internal/wallet/usecase"

	"github.com/gofiber/fiber/v2"
)

// WalletHTTPHandler handles the wallet connection endpoints
type WalletHTTPHandler struct {
	usecase usecase.WalletUsecaseInterface
	cookie  *config.Config
}

// NewWalletHTTPHandler creates a new wallet HTTP handler
func NewWalletHTTPHandler(uc usecase.WalletUsecaseInterface, cfg *config.Config) *WalletHTTPHandler {
	return &WalletHTTPHandler{usecase: uc, cookie: cfg}
}

// SetupWalletRoutes mounts the wallet routes under router
func (h *WalletHTTPHandler) SetupWalletRoutes(router fiber.Router, middleware *WalletMiddleware) {
	router.Post("/challenge", middleware.RateLimiter(), h.Challenge)
	router.Post("/connect", middleware.RateLimiter(), h.Connect)
	router.Post("/disconnect", h.Disconnect)
	router.Get("/me", middleware.Protect(), h.Me)
}

type challengeRequest struct {
	Address string `json:"address"`
}

// Challenge handles POST /wallet/challenge
func (h *WalletHTTPHandler) Challenge(c *fiber.Ctx) error {
	var req challengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	challenge, err := h.usecase.IssueChallenge(c.UserContext(), req.Address)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidAddress) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid wallet address",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"address":   challenge.Address,
		"nonce":     challenge.Nonce,
		"message":   challenge.Message,
		"expiresAt": challenge.ExpiresAt,
	})
}

// Connect handles POST /wallet/connect
func (h *WalletHTTPHandler) Connect(c *fiber.Ctx) error {
	var req usecase.ConnectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.UserAgent = c.Get(fiber.HeaderUserAgent)

	response, err := h.usecase.Connect(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidAddress):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid wallet address",
			})
		case errors.Is(err, apperrors.ErrChallengeExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sign-in request expired, please try again",
			})
		case errors.Is(err, apperrors.ErrInvalidSignature):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Signature does not match wallet",
			})
		default:
			return err
		}
	}

	h.setCookie(c, response.AccessToken, response.ExpiresAt)
	return c.JSON(response)
}

// Disconnect handles POST /wallet/disconnect
func (h *WalletHTTPHandler) Disconnect(c *fiber.Ctx) error {
	token := c.Cookies(h.cookie.CookieName)
	if token != "" {
		if err := h.usecase.Disconnect(c.UserContext(), token); err != nil {
			return err
		}
	}

	h.clearCookie(c)
	return c.JSON(fiber.Map{
		"message": "Wallet disconnected",
	})
}

// Me handles GET /wallet/me
func (h *WalletHTTPHandler) Me(c *fiber.Ctx) error {
	address, ok := GetWalletAddress(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Wallet not connected",
		})
	}
	return c.JSON(fiber.Map{
		"address":      address,
		"shortAddress": model.ShortAddress(address),
	})
}

func (h *WalletHTTPHandler) setCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    token,
		Path:     h.cookie.CookiePath,
		Domain:   h.cookie.CookieDomain,
		Expires:  expires,
		Secure:   h.cookie.CookieSecure,
		HTTPOnly: h.cookie.CookieHTTPOnly,
		SameSite: h.cookie.CookieSameSite,
	})
}

func (h *WalletHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     h.cookie.CookiePath,
		Domain:   h.cookie.CookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.cookie.CookieSecure,
		HTTPOnly: h.cookie.CookieHTTPOnly,
		SameSite: h.cookie.CookieSameSite,
	})
}
