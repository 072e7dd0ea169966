package http

import (
	"context"
	"time"

	catalogmodel "nft-drop/internal/catalog/domain/model"
	"nft-drop/internal/drop/usecase"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	localsCollection = "drop_collection"
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
)

// FeedMessage is the envelope pushed over the supply websocket
type FeedMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SupplyWebSocketHandler streams live supply of a drop to the page
type SupplyWebSocketHandler struct {
	feed        *usecase.SupplyFeed
	collections CollectionFinder
	log         logger.Logger
}

// NewSupplyWebSocketHandler creates a new supply websocket handler
func NewSupplyWebSocketHandler(feed *usecase.SupplyFeed, collections CollectionFinder, log logger.Logger) *SupplyWebSocketHandler {
	return &SupplyWebSocketHandler{
		feed:        feed,
		collections: collections,
		log:         log.WithComponent("supply_ws"),
	}
}

// RegisterRoutes registers GET /ws/drops/:id
func (h *SupplyWebSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/drops/:id", h.upgrade, websocket.New(h.handleConnection))
}

// upgrade resolves the collection before switching protocols so unknown drops get a plain 404
func (h *SupplyWebSocketHandler) upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	collection, err := h.collections.GetCollection(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": "Drop not found"})
	}
	if !collection.HasDrop() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": apperrors.ErrDropNotConfigured.Error()})
	}
	c.Locals(localsCollection, collection)
	return c.Next()
}

func (h *SupplyWebSocketHandler) handleConnection(conn *websocket.Conn) {
	collection, ok := conn.Locals(localsCollection).(*catalogmodel.Collection)
	if !ok {
		_ = conn.Close()
		return
	}
	slug := collection.SlugValue()
	subscriberID := uuid.NewString()
	fields := logger.Fields(zap.String("subscriber_id", subscriberID), zap.String("collection", slug))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan usecase.SupplyUpdate, 4)
	if err := h.feed.Subscribe(ctx, collection, subscriberID, updates); err != nil {
		h.log.WithFields(fields).WithError(err).Warn("supply subscription refused")
		_ = conn.WriteJSON(FeedMessage{Type: "error", Data: err.Error()})
		_ = conn.Close()
		return
	}
	defer func() {
		h.feed.Unsubscribe(slug, subscriberID)
		close(updates)
		h.log.WithFields(fields).WithFields(logger.Fields(zap.Int("remaining", h.feed.SubscriberCount(slug)))).Debug("supply websocket closed")
	}()
	h.log.WithFields(fields).WithFields(logger.Fields(zap.Int("subscribers", h.feed.SubscriberCount(slug)))).Debug("supply websocket opened")

	// The page never sends anything; reading detects the disconnect.
	go func() {
		defer cancel()
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.WithFields(fields).WithError(err).Warn("supply websocket read failed")
				}
				return
			}
		}
	}()

	ping := time.NewTicker(pongWait / 2)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(FeedMessage{Type: "supply", Data: update.Supply}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
