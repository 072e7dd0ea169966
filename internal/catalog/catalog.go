package catalog

import (
	"nft-drop/internal/catalog/adapter/cache"
	cataloghttp "nft-drop/internal/catalog/adapter/http"
	"nft-drop/internal/catalog/adapter/sanity"
	"nft-drop/internal/catalog/config"
	"nft-drop/internal/catalog/domain/repository"
	"nft-drop/internal/catalog/usecase"
	"nft-drop/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// CatalogModule wires the content store client, cache and use cases
type CatalogModule struct {
	repository repository.CollectionRepository
	usecase    usecase.CatalogUsecaseInterface
	webhook    *cataloghttp.WebhookHandler
	config     *config.Config
}

// NewCatalogModule creates the catalog module. redisClient may be nil to disable caching.
func NewCatalogModule(cfg *config.Config, redisClient redis.UniversalClient, log logger.Logger) *CatalogModule {
	var repo repository.CollectionRepository = sanity.NewCollectionRepository(sanity.NewClient(cfg, log))
	if redisClient != nil && cfg.CacheTTL > 0 {
		repo = cache.NewRedisCollectionCache(repo, redisClient, cfg.CacheTTL, log)
	}

	uc := usecase.NewCatalogUsecase(repo, sanity.NewImageURLBuilder(cfg), log)

	return &CatalogModule{
		repository: repo,
		usecase:    uc,
		webhook:    cataloghttp.NewWebhookHandler(uc, cfg.WebhookSecret),
		config:     cfg,
	}
}

// RegisterRoutes registers the catalog API routes
func (m *CatalogModule) RegisterRoutes(router fiber.Router) {
	m.webhook.RegisterRoutes(router)
}

// GetUsecase returns the catalog usecase for the page handlers
func (m *CatalogModule) GetUsecase() usecase.CatalogUsecaseInterface {
	return m.usecase
}
