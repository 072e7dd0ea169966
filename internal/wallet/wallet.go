package wallet

import (
	"context"
	"fmt"

	"nft-drop/internal/shared/eventbus"
	"nft-drop/internal/shared/logger"
	wallethttp "nft-drop/internal/wallet/adapter/http"
	"nft-drop/internal/wallet/adapter/persistence/mongodb"
	walletredis "nft-drop/internal/wallet/adapter/persistence/redis"
	"nft-drop/internal/wallet/adapter/security"
	"nft-drop/internal/wallet/config"
	"nft-drop/internal/wallet/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// WalletModule represents the wallet connection module
type WalletModule struct {
	usecase    usecase.WalletUsecaseInterface
	handler    *wallethttp.WalletHTTPHandler
	middleware *wallethttp.WalletMiddleware
	config     *config.Config
}

// NewWalletModule creates the wallet module on top of the shared stores
func NewWalletModule(
	ctx context.Context,
	db *mongo.Database,
	redisClient redis.UniversalClient,
	events eventbus.Publisher,
	cfg *config.Config,
	log logger.Logger,
) (*WalletModule, error) {
	sessions, err := mongodb.NewMongoSessionRepository(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create session repository: %w", err)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	uc := usecase.NewWalletUsecase(
		sessions,
		walletredis.NewChallengeStore(redisClient),
		security.NewPersonalSignVerifier(),
		tokenSvc,
		events,
		cfg,
		log,
	)

	return &WalletModule{
		usecase:    uc,
		handler:    wallethttp.NewWalletHTTPHandler(uc, cfg),
		middleware: wallethttp.NewWalletMiddleware(uc, cfg.CookieName),
		config:     cfg,
	}, nil
}

// RegisterRoutes registers the wallet routes with the provided router
func (m *WalletModule) RegisterRoutes(router fiber.Router) {
	m.handler.SetupWalletRoutes(router, m.middleware)
}

// GetUsecase returns the wallet usecase
func (m *WalletModule) GetUsecase() usecase.WalletUsecaseInterface {
	return m.usecase
}

// GetMiddleware returns the wallet session middleware
func (m *WalletModule) GetMiddleware() *wallethttp.WalletMiddleware {
	return m.middleware
}
