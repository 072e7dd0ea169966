package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nft-drop/internal/catalog"
	catalogconfig "nft-drop/internal/catalog/config"
	"nft-drop/internal/drop"
	dropconfig "nft-drop/internal/drop/config"
	"nft-drop/internal/shared/database"
	"nft-drop/internal/shared/eventbus"
	"nft-drop/internal/shared/logger"
	"nft-drop/internal/wallet"
	walletconfig "nft-drop/internal/wallet/config"
	"nft-drop/internal/web"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Configs groups the per-module configuration loaded at startup
type Configs struct {
	Mongo   *database.MongoConfig
	Redis   *database.RedisConfig
	Catalog *catalogconfig.Config
	Wallet  *walletconfig.Config
	Drop    *dropconfig.Config
}

// LoadConfigs reads every module configuration from the environment
func LoadConfigs() (*Configs, error) {
	mongoCfg, err := database.LoadMongoConfig()
	if err != nil {
		return nil, err
	}
	redisCfg, err := database.LoadRedisConfig()
	if err != nil {
		return nil, err
	}
	catalogCfg, err := catalogconfig.LoadConfig()
	if err != nil {
		return nil, err
	}
	walletCfg, err := walletconfig.LoadConfig()
	if err != nil {
		return nil, err
	}
	dropCfg, err := dropconfig.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &Configs{
		Mongo:   mongoCfg,
		Redis:   redisCfg,
		Catalog: catalogCfg,
		Wallet:  walletCfg,
		Drop:    dropCfg,
	}, nil
}

// Container owns the shared clients and the module instances
type Container struct {
	mu sync.RWMutex

	// Shared clients
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       redis.UniversalClient
	EthClient   *ethclient.Client
	EventBus    *eventbus.EventBus

	// Module instances
	CatalogModule *catalog.CatalogModule
	WalletModule  *wallet.WalletModule
	DropModule    *drop.DropModule
	WebModule     *web.WebModule

	Configs *Configs
	Logger  logger.Logger
}

// NewContainer creates an empty container
func NewContainer(cfgs *Configs, log logger.Logger) *Container {
	return &Container{
		Configs: cfgs,
		Logger:  log,
	}
}

// InitializeInfrastructure connects to mongo, redis and the chain RPC
func (c *Container) InitializeInfrastructure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	client, db, err := database.ConnectMongo(ctx, c.Configs.Mongo)
	if err != nil {
		return err
	}
	c.MongoClient = client
	c.MongoDB = db
	c.Logger.Info("MongoDB connection established")

	rdb := database.NewRedisClient(c.Configs.Redis)
	if err := database.PingRedis(ctx, rdb); err != nil {
		_ = rdb.Close()
		return err
	}
	c.Redis = rdb
	c.Logger.Infof("Redis connection established at %s", c.Configs.Redis.GetAddr())

	eth, err := ethclient.DialContext(ctx, c.Configs.Drop.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial chain RPC: %w", err)
	}
	c.EthClient = eth
	c.Logger.Info("Chain RPC client ready")

	return nil
}

// InitializeModules builds catalog, wallet, drop and web in dependency order
func (c *Container) InitializeModules(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil || c.Redis == nil || c.EthClient == nil {
		return fmt.Errorf("infrastructure must be initialized before modules")
	}

	c.EventBus = eventbus.NewEventBus(c.Logger)
	subscribeAudit(c.EventBus, c.Logger)

	c.CatalogModule = catalog.NewCatalogModule(c.Configs.Catalog, c.Redis, c.Logger)

	walletModule, err := wallet.NewWalletModule(ctx, c.MongoDB, c.Redis, c.EventBus, c.Configs.Wallet, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create wallet module: %w", err)
	}
	c.WalletModule = walletModule

	dropModule, err := drop.NewDropModule(
		ctx,
		c.EthClient,
		c.MongoDB,
		c.EventBus,
		c.CatalogModule.GetUsecase(),
		c.Configs.Drop,
		c.Logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create drop module: %w", err)
	}
	c.DropModule = dropModule

	c.WebModule = web.NewWebModule(c.CatalogModule.GetUsecase(), c.DropModule.GetUsecase(), c, c.Logger)
	return nil
}

// GetCatalogModule returns the catalog module instance
func (c *Container) GetCatalogModule() *catalog.CatalogModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.CatalogModule
}

// GetWalletModule returns the wallet module instance
func (c *Container) GetWalletModule() *wallet.WalletModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.WalletModule
}

// GetDropModule returns the drop module instance
func (c *Container) GetDropModule() *drop.DropModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DropModule
}

// GetWebModule returns the web module instance
func (c *Container) GetWebModule() *web.WebModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.WebModule
}

// HealthCheck pings mongo and redis
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoClient != nil {
		if err := c.MongoClient.Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}

	if c.Redis != nil {
		if err := database.PingRedis(ctx, c.Redis); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}

	return nil
}

// Cleanup releases modules and clients in reverse order of initialization
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.DropModule != nil {
		c.DropModule.Close()
		c.DropModule = nil
	}
	c.WebModule = nil
	c.WalletModule = nil
	c.CatalogModule = nil

	if c.EthClient != nil {
		c.EthClient.Close()
		c.EthClient = nil
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		c.Redis = nil
	}

	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
		c.MongoDB = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.WithError(err).Warn("cleanup errors occurred")
		return err
	}
	c.Logger.Info("container resources closed")
	return nil
}
