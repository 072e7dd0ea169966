package http

import (
	"strings"
	"time"

	"nft-drop/internal/shared/contextkeys"
	"nft-drop/internal/shared/utils"
	"nft-drop/internal/wallet/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// LocalsWalletAddress is the fiber.Ctx locals key holding the connected address
const LocalsWalletAddress = "wallet_address"

// WalletMiddleware resolves the wallet session of incoming requests
type WalletMiddleware struct {
	usecase    usecase.WalletUsecaseInterface
	cookieName string
}

// NewWalletMiddleware creates a new wallet session middleware
func NewWalletMiddleware(uc usecase.WalletUsecaseInterface, cookieName string) *WalletMiddleware {
	return &WalletMiddleware{
		usecase:    uc,
		cookieName: cookieName,
	}
}

// SecurityHeaders adds security headers
func (m *WalletMiddleware) SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RateLimiter limits sign-in attempts per client. c.IP() only honours a proxy
// header when the app trusts the proxy that set it.
func (m *WalletMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// RequestID middleware
func (m *WalletMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RequestContext copies the request id assigned by RequestID into the user context
func (m *WalletMiddleware) RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(string(contextkeys.RequestIDKey)).(string); ok && id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// Identify attaches the connected wallet, if any, without rejecting anonymous requests
func (m *WalletMiddleware) Identify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := m.extractToken(c)
		if token == "" {
			return c.Next()
		}

		claims, err := m.usecase.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Next()
		}

		ctx := utils.WithWalletAddress(c.UserContext(), claims.Address)
		ctx = utils.WithSessionID(ctx, claims.SessionID)
		c.SetUserContext(ctx)
		c.Locals(LocalsWalletAddress, claims.Address)
		return c.Next()
	}
}

// Protect returns middleware that requires a connected wallet
func (m *WalletMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := m.extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Wallet not connected",
			})
		}

		claims, err := m.usecase.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		ctx := utils.WithWalletAddress(c.UserContext(), claims.Address)
		ctx = utils.WithSessionID(ctx, claims.SessionID)
		c.SetUserContext(ctx)
		c.Locals(LocalsWalletAddress, claims.Address)
		return c.Next()
	}
}

// extractToken reads the session token from the Authorization header or the session cookie
func (m *WalletMiddleware) extractToken(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Cookies(m.cookieName)
}

// GetWalletAddress returns the address attached by Identify or Protect
func GetWalletAddress(c *fiber.Ctx) (string, bool) {
	address, ok := c.Locals(LocalsWalletAddress).(string)
	return address, ok && address != ""
}
