package http

import (
	"context"
	"errors"
	"time"

	catalogmodel "nft-drop/internal/catalog/domain/model"
	catalogusecase "nft-drop/internal/catalog/usecase"
	dropmodel "nft-drop/internal/drop/domain/model"
	dropusecase "nft-drop/internal/drop/usecase"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/flash"
	"nft-drop/internal/shared/logger"
	"nft-drop/internal/shared/utils"
	walletmodel "nft-drop/internal/wallet/domain/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LayoutMain wraps every page
const LayoutMain = "layouts/main"

const (
	cardImageWidth    = 480
	previewImageWidth = 576
	mainImageWidth    = 640
)

// HealthChecker reports whether the backing stores answer
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type page struct {
	PageTitle string
}

type collectionCard struct {
	Title       string
	Description string
	ImageURL    string
	Href        string
}

type indexPage struct {
	page
	Collections []collectionCard
}

type dropPage struct {
	page
	Slug              string
	HasDrop           bool
	Title             string
	Description       string
	NFTCollectionName string
	CreatorName       string
	PreviewImageURL   string
	MainImageURL      string

	Connected    bool
	ShortAddress string

	SupplyLoaded bool
	Claimed      uint64
	Total        uint64

	Button dropmodel.ButtonState
	Toast  *flash.Message
}

type statusPage struct {
	page
	Status  int
	Message string
}

// PageHandler renders the landing and drop pages
type PageHandler struct {
	catalog catalogusecase.CatalogUsecaseInterface
	drops   dropusecase.DropUsecaseInterface
	health  HealthChecker
	log     logger.Logger
}

// NewPageHandler creates a new page handler. health may be nil.
func NewPageHandler(
	catalog catalogusecase.CatalogUsecaseInterface,
	drops dropusecase.DropUsecaseInterface,
	health HealthChecker,
	log logger.Logger,
) *PageHandler {
	return &PageHandler{
		catalog: catalog,
		drops:   drops,
		health:  health,
		log:     log.WithComponent("pages"),
	}
}

// SetupPageRoutes mounts the pages; identify attaches the connected wallet without requiring one
func (h *PageHandler) SetupPageRoutes(router fiber.Router, identify fiber.Handler) {
	router.Get("/", h.Index)
	router.Get("/nft/:id", identify, h.Drop)
	router.Get("/health", h.Health)
}

// Index handles GET /
func (h *PageHandler) Index(c *fiber.Ctx) error {
	collections, err := h.catalog.ListCollections(c.UserContext())
	if err != nil {
		return err
	}

	cards := make([]collectionCard, 0, len(collections))
	for _, col := range collections {
		// Without a slug there is no drop page to link to.
		if col.SlugValue() == "" {
			h.log.WithContext(c.UserContext()).Warnf("collection %q has no slug, hiding it", col.Title)
			continue
		}
		cards = append(cards, collectionCard{
			Title:       col.Title,
			Description: col.Description,
			ImageURL:    h.catalog.ImageURL(col.MainImage, cardImageWidth),
			Href:        "/nft/" + col.SlugValue(),
		})
	}

	return c.Render("index", indexPage{Collections: cards}, LayoutMain)
}

// Drop handles GET /nft/:id
func (h *PageHandler) Drop(c *fiber.Ctx) error {
	slug := c.Params("id")
	ctx := utils.WithCollectionSlug(c.UserContext(), slug)
	c.SetUserContext(ctx)

	collection, err := h.catalog.GetCollection(ctx, slug)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return RenderNotFound(c, "This drop does not exist.")
		}
		return err
	}

	address := utils.GetWalletAddressOrDefault(ctx, "")

	state, err := h.drops.LoadDrop(ctx, collection)
	if err != nil {
		fields := logger.Fields(zap.String("contract", collection.Address))
		if errors.Is(err, apperrors.ErrDropNotConfigured) {
			h.log.WithContext(ctx).WithFields(fields).Debug("collection has no drop yet")
		} else {
			h.log.WithContext(ctx).WithFields(fields).WithError(err).Warn("failed to load drop state")
		}
	}

	view := dropPage{
		page:              page{PageTitle: collection.Title},
		Slug:              collection.SlugValue(),
		HasDrop:           collection.HasDrop(),
		Title:             collection.Title,
		Description:       collection.Description,
		NFTCollectionName: collection.NFTCollectionName,
		PreviewImageURL:   h.catalog.ImageURL(collection.PreviewImage, previewImageWidth),
		MainImageURL:      h.catalog.ImageURL(collection.MainImage, mainImageWidth),
		Connected:         address != "",
		ShortAddress:      walletmodel.ShortAddress(address),
		Button:            dropmodel.MintButton(state, address),
		Toast:             flash.Pop(c),
	}
	if view.NFTCollectionName == "" {
		view.NFTCollectionName = collection.Title
	}
	view.CreatorName = creatorName(collection)
	if state != nil && !state.Loading && state.Supply != nil {
		view.SupplyLoaded = true
		view.Claimed = state.Supply.Claimed
		view.Total = state.Supply.Total
	}

	return c.Render("drop", view, LayoutMain)
}

// Health handles GET /health
func (h *PageHandler) Health(c *fiber.Ctx) error {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		if err := h.health.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Error("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":    "HEALTHY",
		"timestamp": time.Now().UTC(),
	})
}

func creatorName(collection *catalogmodel.Collection) string {
	if collection.Creator == nil {
		return ""
	}
	return collection.Creator.Name
}

// RenderNotFound renders the 404 page
func RenderNotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).Render("not_found", statusPage{
		page:    page{PageTitle: "Not found"},
		Status:  fiber.StatusNotFound,
		Message: message,
	}, LayoutMain)
}
