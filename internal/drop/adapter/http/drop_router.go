package http

import (
	"context"
	"errors"
	"strconv"

	catalogmodel "nft-drop/internal/catalog/domain/model"
	"nft-drop/internal/drop/domain/model"
	"nft-drop/internal/drop/usecase"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/flash"
	"nft-drop/internal/shared/logger"
	"nft-drop/internal/shared/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gofiber/fiber/v2"
)

// CollectionFinder resolves the collection a drop route refers to
type CollectionFinder interface {
	GetCollection(ctx context.Context, slug string) (*catalogmodel.Collection, error)
}

// DropHTTPHandler serves the drop JSON API
type DropHTTPHandler struct {
	usecase     usecase.DropUsecaseInterface
	collections CollectionFinder
	log         logger.Logger
}

// NewDropHTTPHandler creates a new drop HTTP handler
func NewDropHTTPHandler(uc usecase.DropUsecaseInterface, collections CollectionFinder, log logger.Logger) *DropHTTPHandler {
	return &DropHTTPHandler{
		usecase:     uc,
		collections: collections,
		log:         log.WithComponent("drop_http"),
	}
}

// SetupDropRoutes mounts the drop routes; protect must reject requests without a connected wallet
func (h *DropHTTPHandler) SetupDropRoutes(router fiber.Router, protect fiber.Handler) {
	router.Get("/history", protect, h.History)
	router.Get("/:id/supply", h.Supply)
	router.Get("/:id/conditions", h.Conditions)
	router.Post("/:id/claim", protect, h.Claim)
	router.Post("/:id/confirm", protect, h.Confirm)
}

type claimRequest struct {
	Quantity int64 `json:"quantity"`
}

type confirmRequest struct {
	TxHash string `json:"txHash"`
}

// claimTransactionResponse is shaped for eth_sendTransaction
type claimTransactionResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Value    string `json:"value"`
	Data     string `json:"data"`
	ChainID  string `json:"chainId"`
	Quantity int64  `json:"quantity"`
}

type claimReceiptResponse struct {
	TxHash      string               `json:"txHash"`
	BlockNumber uint64               `json:"blockNumber"`
	TokenIDs    []string             `json:"tokenIds"`
	Metadata    *model.TokenMetadata `json:"metadata,omitempty"`
	Message     string               `json:"message"`
}

func (h *DropHTTPHandler) collection(c *fiber.Ctx) (*catalogmodel.Collection, error) {
	slug := c.Params("id")
	c.SetUserContext(utils.WithCollectionSlug(c.UserContext(), slug))
	return h.collections.GetCollection(c.UserContext(), slug)
}

// Supply handles GET /drops/:id/supply
func (h *DropHTTPHandler) Supply(c *fiber.Ctx) error {
	collection, err := h.collection(c)
	if err != nil {
		return h.respondError(c, err)
	}
	supply, err := h.usecase.Supply(c.UserContext(), collection)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"claimed": supply.Claimed,
		"total":   supply.Total,
		"soldOut": supply.SoldOut(),
	})
}

// Conditions handles GET /drops/:id/conditions
func (h *DropHTTPHandler) Conditions(c *fiber.Ctx) error {
	collection, err := h.collection(c)
	if err != nil {
		return h.respondError(c, err)
	}
	cond, err := h.usecase.ClaimConditions(c.UserContext(), collection)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"condition":    cond,
		"displayPrice": cond.DisplayPrice(),
	})
}

// Claim handles POST /drops/:id/claim. Every rejection queues the failure toast,
// since the page reloads after any error.
func (h *DropHTTPHandler) Claim(c *fiber.Ctx) error {
	req := claimRequest{Quantity: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return h.rejectMint(c, apperrors.NewValidationError("Invalid request body"))
		}
	}

	address, err := utils.GetWalletAddressFromContext(c.UserContext())
	if err != nil {
		return h.rejectMint(c, apperrors.NewAuthenticationError("Wallet not connected"))
	}

	collection, err := h.collection(c)
	if err != nil {
		return h.rejectMint(c, err)
	}

	tx, err := h.usecase.PrepareClaim(c.UserContext(), collection, address, req.Quantity)
	if err != nil {
		return h.rejectMint(c, err)
	}

	return c.JSON(claimTransactionResponse{
		From:     tx.From,
		To:       tx.To,
		Value:    hexutil.EncodeBig(tx.Value),
		Data:     hexutil.Encode(tx.Data),
		ChainID:  hexutil.EncodeBig(tx.ChainID),
		Quantity: tx.Quantity,
	})
}

// Confirm handles POST /drops/:id/confirm. The outcome is also queued as a toast for the next page render.
func (h *DropHTTPHandler) Confirm(c *fiber.Ctx) error {
	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return h.rejectMint(c, apperrors.NewValidationError("Invalid request body"))
	}

	address, err := utils.GetWalletAddressFromContext(c.UserContext())
	if err != nil {
		return h.rejectMint(c, apperrors.NewAuthenticationError("Wallet not connected"))
	}

	collection, err := h.collection(c)
	if err != nil {
		return h.rejectMint(c, err)
	}

	receipt, err := h.usecase.ConfirmClaim(c.UserContext(), collection, address, req.TxHash)
	if err != nil {
		return h.rejectMint(c, err)
	}

	flash.Set(c, flash.KindSuccess, model.MintSuccessMessage)

	ids := make([]string, len(receipt.TokenIDs))
	for i, id := range receipt.TokenIDs {
		ids[i] = id.String()
	}
	return c.JSON(claimReceiptResponse{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		TokenIDs:    ids,
		Metadata:    receipt.Metadata,
		Message:     model.MintSuccessMessage,
	})
}

// rejectMint queues the toast for a failed claim or confirm and writes the error
func (h *DropHTTPHandler) rejectMint(c *fiber.Ctx, err error) error {
	text := model.MintFailureMessage
	if errors.Is(err, apperrors.ErrMintPending) {
		text = model.MintPendingMessage
	}
	flash.Set(c, flash.KindError, text)
	return h.respondError(c, err)
}

// History handles GET /drops/history
func (h *DropHTTPHandler) History(c *fiber.Ctx) error {
	address, err := utils.GetWalletAddressFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Wallet not connected",
		})
	}

	limit, err := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	if err != nil || limit < 1 || limit > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 100",
		})
	}

	records, err := h.usecase.MintHistory(c.UserContext(), address, limit)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"mints": records})
}

// respondError writes err as a JSON error body. Internal failures are logged and masked.
func (h *DropHTTPHandler) respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	message := err.Error()

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status >= fiber.StatusInternalServerError {
		h.log.WithContext(c.UserContext()).WithError(err).Errorf("%s %s failed", c.Method(), c.Path())
		if status != fiber.StatusBadGateway && status != fiber.StatusGatewayTimeout {
			message = "Internal server error"
		}
	}

	body := fiber.Map{"error": message}
	if appErr != nil && appErr.Code != "" {
		body["code"] = appErr.Code
	}
	return c.Status(status).JSON(body)
}
