package http

import (
	"crypto/subtle"

	"nft-drop/internal/catalog/domain/model"
	"nft-drop/internal/catalog/usecase"

	"github.com/gofiber/fiber/v2"
)

// WebhookSecretHeader carries the shared secret configured on the content store webhook
const WebhookSecretHeader = "X-Webhook-Secret"

// revalidateRequest is the document projection the content store posts on publish
type revalidateRequest struct {
	ID   string      `json:"_id"`
	Slug *model.Slug `json:"slug"`
}

// WebhookHandler purges cached catalog content when documents change
type WebhookHandler struct {
	usecase usecase.CatalogUsecaseInterface
	secret  string
}

// NewWebhookHandler creates a webhook handler; an empty secret disables the route
func NewWebhookHandler(uc usecase.CatalogUsecaseInterface, secret string) *WebhookHandler {
	return &WebhookHandler{usecase: uc, secret: secret}
}

// RegisterRoutes mounts the webhook under router
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	if h.secret == "" {
		return
	}
	router.Post("/catalog/revalidate", h.Revalidate)
}

// Revalidate handles POST /catalog/revalidate
func (h *WebhookHandler) Revalidate(c *fiber.Ctx) error {
	given := c.Get(WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid webhook secret",
		})
	}

	var req revalidateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	slug := ""
	if req.Slug != nil {
		slug = req.Slug.Current
	}
	if err := h.usecase.Revalidate(c.UserContext(), slug); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"revalidated": true, "slug": slug})
}
