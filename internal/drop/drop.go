package drop

import (
	"context"
	"fmt"

	"nft-drop/internal/drop/adapter/chain"
	drophttp "nft-drop/internal/drop/adapter/http"
	"nft-drop/internal/drop/adapter/metadata"
	"nft-drop/internal/drop/adapter/persistence/mongodb"
	"nft-drop/internal/drop/config"
	"nft-drop/internal/drop/usecase"
	"nft-drop/internal/shared/eventbus"
	"nft-drop/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// DropModule wires the drop contract client, mint ledger and live supply feed
type DropModule struct {
	usecase   usecase.DropUsecaseInterface
	feed      *usecase.SupplyFeed
	handler   *drophttp.DropHTTPHandler
	websocket *drophttp.SupplyWebSocketHandler
	config    *config.Config
}

// NewDropModule creates the drop module. backend is usually an *ethclient.Client.
func NewDropModule(
	ctx context.Context,
	backend chain.Backend,
	db *mongo.Database,
	bus *eventbus.EventBus,
	collections drophttp.CollectionFinder,
	cfg *config.Config,
	log logger.Logger,
) (*DropModule, error) {
	ledger, err := mongodb.NewMongoMintLedger(ctx, db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create mint ledger: %w", err)
	}

	contract := chain.NewDropContract(backend, cfg.NativeSymbol, cfg.CallTimeout, cfg.ReceiptPollInterval, log)
	uc := usecase.NewDropUsecase(contract, metadata.NewFetcher(cfg, log), ledger, bus, cfg, log)

	feed := usecase.NewSupplyFeed(uc, cfg.PollInterval, log)
	bus.Subscribe(eventbus.EventTypeMintConfirmed, feed.HandleMintConfirmed)

	return &DropModule{
		usecase:   uc,
		feed:      feed,
		handler:   drophttp.NewDropHTTPHandler(uc, collections, log),
		websocket: drophttp.NewSupplyWebSocketHandler(feed, collections, log),
		config:    cfg,
	}, nil
}

// RegisterRoutes registers the drop API; protect guards the wallet-only routes
func (m *DropModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	m.handler.SetupDropRoutes(router, protect)
}

// RegisterRealtime registers the supply websocket on the app root
func (m *DropModule) RegisterRealtime(router fiber.Router) {
	m.websocket.RegisterRoutes(router)
}

// GetUsecase returns the drop usecase for the page handlers
func (m *DropModule) GetUsecase() usecase.DropUsecaseInterface {
	return m.usecase
}

// Close stops every supply poller
func (m *DropModule) Close() {
	m.feed.Close()
}
