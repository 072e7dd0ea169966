package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	catalogmodel "nft-drop/internal/catalog/domain/model"
	"nft-drop/internal/drop/config"
	"nft-drop/internal/drop/domain/model"
	"nft-drop/internal/drop/domain/repository"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/eventbus"
	"nft-drop/internal/shared/logger"
	"nft-drop/internal/shared/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DropUsecaseInterface defines the drop page and minting use cases
type DropUsecaseInterface interface {
	LoadDrop(ctx context.Context, collection *catalogmodel.Collection) (*model.DropState, error)
	ClaimConditions(ctx context.Context, collection *catalogmodel.Collection) (*model.ClaimCondition, error)
	Supply(ctx context.Context, collection *catalogmodel.Collection) (*model.Supply, error)
	PrepareClaim(ctx context.Context, collection *catalogmodel.Collection, receiver string, quantity int64) (*model.ClaimTransaction, error)
	ConfirmClaim(ctx context.Context, collection *catalogmodel.Collection, receiver, txHash string) (*model.ClaimReceipt, error)
	MintHistory(ctx context.Context, receiver string, limit int64) ([]*model.MintRecord, error)
}

// MintEvent is the payload of mint.confirmed and mint.failed
type MintEvent struct {
	Collection string   `json:"collection"`
	Contract   string   `json:"contract"`
	Receiver   string   `json:"receiver"`
	TxHash     string   `json:"tx_hash"`
	TokenIDs   []string `json:"token_ids,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// DropUsecase implements DropUsecaseInterface
type DropUsecase struct {
	contract repository.DropContract
	metadata repository.MetadataFetcher
	ledger   repository.MintLedger
	events   eventbus.Publisher
	config   *config.Config
	log      logger.Logger
	now      func() time.Time
}

// NewDropUsecase creates a new drop usecase. ledger and events may be nil.
func NewDropUsecase(
	contract repository.DropContract,
	metadata repository.MetadataFetcher,
	ledger repository.MintLedger,
	events eventbus.Publisher,
	cfg *config.Config,
	log logger.Logger,
) *DropUsecase {
	return &DropUsecase{
		contract: contract,
		metadata: metadata,
		ledger:   ledger,
		events:   events,
		config:   cfg,
		log:      log.WithComponent("drop"),
		now:      time.Now,
	}
}

func contractAddress(collection *catalogmodel.Collection) (common.Address, error) {
	if !collection.HasDrop() || !common.IsHexAddress(collection.Address) {
		return common.Address{}, apperrors.ErrDropNotConfigured
	}
	return common.HexToAddress(collection.Address), nil
}

// LoadDrop reads the claim condition and supply of the collection's drop concurrently.
// The returned state is always usable; it stays Loading when a read fails or no drop is attached.
func (uc *DropUsecase) LoadDrop(ctx context.Context, collection *catalogmodel.Collection) (*model.DropState, error) {
	state := &model.DropState{Collection: collection, Loading: true}
	if collection == nil {
		return state, apperrors.ErrDropNotConfigured
	}
	ctx = utils.WithCollectionSlug(ctx, collection.SlugValue())

	contract, err := contractAddress(collection)
	if err != nil {
		return state, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		state.Condition, err = uc.contract.ActiveClaimCondition(gctx, contract)
		return err
	})
	g.Go(func() (err error) {
		state.Supply, err = uc.contract.Supply(gctx, contract)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.log.WithContext(ctx).WithError(err).Warn("failed to load drop state")
		return state, err
	}

	state.Loading = false
	return state, nil
}

// ClaimConditions returns the active claim condition of the collection's drop
func (uc *DropUsecase) ClaimConditions(ctx context.Context, collection *catalogmodel.Collection) (*model.ClaimCondition, error) {
	contract, err := contractAddress(collection)
	if err != nil {
		return nil, err
	}
	return uc.contract.ActiveClaimCondition(ctx, contract)
}

// Supply returns the claimed and total supply of the collection's drop
func (uc *DropUsecase) Supply(ctx context.Context, collection *catalogmodel.Collection) (*model.Supply, error) {
	contract, err := contractAddress(collection)
	if err != nil {
		return nil, err
	}
	return uc.contract.Supply(ctx, contract)
}

// PrepareClaim builds the unsigned claim transaction for receiver
func (uc *DropUsecase) PrepareClaim(ctx context.Context, collection *catalogmodel.Collection, receiver string, quantity int64) (*model.ClaimTransaction, error) {
	if quantity < 1 || quantity > uc.config.MaxQuantityPerRequest {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("quantity must be between 1 and %d", uc.config.MaxQuantityPerRequest)).
			WithComponent("drop")
	}
	if !common.IsHexAddress(receiver) {
		return nil, apperrors.ErrInvalidAddress
	}
	to := common.HexToAddress(receiver)

	state, err := uc.LoadDrop(ctx, collection)
	if err != nil {
		return nil, err
	}
	cond := state.Condition

	if state.Supply.Remaining() < uint64(quantity) || exceeds(cond.SupplyClaimed, quantity, cond.MaxClaimableSupply) {
		return nil, apperrors.ErrSoldOut
	}
	if !cond.Started(uc.now()) {
		return nil, apperrors.NewValidationError("claim phase has not started").
			WithComponent("drop").
			WithDetail("startTime", cond.StartTime)
	}

	contract := common.HexToAddress(collection.Address)
	claimed, err := uc.contract.ClaimedByWallet(ctx, contract, cond.ID, to)
	if err != nil {
		return nil, err
	}
	if exceeds(claimed, quantity, cond.QuantityLimitPerWallet) {
		return nil, apperrors.NewValidationError("quantity exceeds the per-wallet limit").
			WithComponent("drop").
			WithDetail("claimed", claimed.String()).
			WithDetail("limit", cond.QuantityLimitPerWallet.String())
	}

	data, err := uc.contract.PackClaim(to, quantity, cond)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode claim").WithCause(err)
	}

	chainID, err := uc.chainID(ctx)
	if err != nil {
		return nil, err
	}

	value := new(big.Int)
	if cond.IsNative() {
		value = cond.TotalPrice(quantity)
	}

	return &model.ClaimTransaction{
		From:     to.Hex(),
		To:       contract.Hex(),
		Value:    value,
		Data:     data,
		ChainID:  chainID,
		Quantity: quantity,
	}, nil
}

// exceeds reports whether current+quantity is above limit
func exceeds(current *big.Int, quantity int64, limit *big.Int) bool {
	if current == nil || limit == nil {
		return false
	}
	next := new(big.Int).Add(current, big.NewInt(quantity))
	return next.Cmp(limit) > 0
}

func (uc *DropUsecase) chainID(ctx context.Context) (*big.Int, error) {
	if uc.config.ChainID > 0 {
		return big.NewInt(uc.config.ChainID), nil
	}
	return uc.contract.ChainID(ctx)
}

// ConfirmClaim waits for a claim sent by the browser wallet and reports what it minted.
// A reverted transaction is recorded and returned as ErrMintFailed. A transaction that
// is still unmined after ReceiptTimeout returns ErrMintPending and leaves the ledger alone.
func (uc *DropUsecase) ConfirmClaim(ctx context.Context, collection *catalogmodel.Collection, receiver, txHash string) (*model.ClaimReceipt, error) {
	contract, err := contractAddress(collection)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(receiver) {
		return nil, apperrors.ErrInvalidAddress
	}
	if !isTxHash(txHash) {
		return nil, apperrors.NewValidationError("invalid transaction hash").WithComponent("drop")
	}
	to := common.HexToAddress(receiver)
	hash := common.HexToHash(txHash)
	ctx = utils.WithCollectionSlug(ctx, collection.SlugValue())

	record := &model.MintRecord{
		ID:         hash.Hex(),
		Collection: collection.SlugValue(),
		Contract:   contract.Hex(),
		Receiver:   to.Hex(),
		CreatedAt:  uc.now().UTC(),
	}

	waitCtx, cancel := context.WithTimeout(ctx, uc.config.ReceiptTimeout)
	defer cancel()

	receipt, err := uc.contract.WaitReceipt(waitCtx, hash)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			uc.log.WithContext(ctx).WithFields(logger.Fields(
				zap.String("tx_hash", record.ID),
				zap.Duration("timeout", uc.config.ReceiptTimeout),
			)).Warn("mint still pending")
			return nil, apperrors.NewAppError(apperrors.ErrorTypeUpstream, model.MintPendingMessage, http.StatusGatewayTimeout).
				WithComponent("drop").
				WithCode("MINT_PENDING").
				WithCause(fmt.Errorf("%w: %v", apperrors.ErrMintPending, err))
		}
		return nil, apperrors.NewUpstreamError("failed to read transaction receipt").
			WithComponent("drop").
			WithCause(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, uc.fail(ctx, record, errors.New("transaction reverted"))
	}

	// A successful claim that minted nothing to this wallet belongs to somebody else.
	tokenIDs := uc.contract.MintedTokens(receipt, contract, to)
	if len(tokenIDs) == 0 {
		uc.log.WithContext(ctx).WithFields(logger.Fields(
			zap.String("tx_hash", record.ID),
			zap.String("receiver", record.Receiver),
		)).Warn("transaction did not mint to the connected wallet")
		return nil, apperrors.NewValidationError("transaction did not mint to the connected wallet").
			WithComponent("drop").
			WithCode("NOT_YOUR_MINT")
	}

	result := &model.ClaimReceipt{
		TxHash:   hash.Hex(),
		TokenIDs: tokenIDs,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	result.Metadata = uc.firstTokenMetadata(ctx, contract, tokenIDs[0])

	record.Status = model.MintStatusConfirmed
	record.TokenIDs = make([]string, len(tokenIDs))
	for i, id := range tokenIDs {
		record.TokenIDs[i] = id.String()
	}
	uc.record(ctx, record)
	uc.publish(ctx, eventbus.EventTypeMintConfirmed, record, "")

	uc.log.WithContext(ctx).WithFields(logger.Fields(
		zap.String("tx_hash", record.ID),
		zap.Strings("token_ids", record.TokenIDs),
		zap.Uint64("block", result.BlockNumber),
	)).Info("mint confirmed")
	return result, nil
}

// firstTokenMetadata loads the metadata of tokenID. The token is already minted,
// so a failure here only costs the preview.
func (uc *DropUsecase) firstTokenMetadata(ctx context.Context, contract common.Address, tokenID *big.Int) *model.TokenMetadata {
	if uc.metadata == nil {
		return nil
	}
	uri, err := uc.contract.TokenURI(ctx, contract, tokenID)
	if err != nil {
		uc.log.WithContext(ctx).WithError(err).Warnf("failed to read tokenURI of %s", tokenID)
		return nil
	}
	meta, err := uc.metadata.Fetch(ctx, uri)
	if err != nil {
		uc.log.WithContext(ctx).WithError(err).Warnf("failed to fetch metadata of %s", tokenID)
		return nil
	}
	return meta
}

func (uc *DropUsecase) fail(ctx context.Context, record *model.MintRecord, cause error) error {
	uc.log.WithContext(ctx).WithFields(logger.Fields(
		zap.String("tx_hash", record.ID),
		zap.String("receiver", record.Receiver),
		zap.Error(cause),
	)).Error("mint failed")

	record.Status = model.MintStatusFailed
	record.Error = cause.Error()
	uc.record(ctx, record)
	uc.publish(ctx, eventbus.EventTypeMintFailed, record, cause.Error())

	return apperrors.NewUpstreamError(model.MintFailureMessage).
		WithComponent("drop").
		WithCode("MINT_FAILED").
		WithCause(fmt.Errorf("%w: %v", apperrors.ErrMintFailed, cause))
}

func (uc *DropUsecase) record(ctx context.Context, record *model.MintRecord) {
	if uc.ledger == nil {
		return
	}
	if err := uc.ledger.Record(ctx, record); err != nil {
		uc.log.WithContext(ctx).WithError(err).Errorf("failed to record mint %s", record.ID)
	}
}

func (uc *DropUsecase) publish(ctx context.Context, eventType string, record *model.MintRecord, reason string) {
	if uc.events == nil {
		return
	}
	uc.events.PublishAndForget(ctx, eventbus.NewEvent(eventType, MintEvent{
		Collection: record.Collection,
		Contract:   record.Contract,
		Receiver:   record.Receiver,
		TxHash:     record.ID,
		TokenIDs:   record.TokenIDs,
		Reason:     reason,
	}, "drop"))
}

// MintHistory lists the ledger records of receiver, newest first
func (uc *DropUsecase) MintHistory(ctx context.Context, receiver string, limit int64) ([]*model.MintRecord, error) {
	if !common.IsHexAddress(receiver) {
		return nil, apperrors.ErrInvalidAddress
	}
	if uc.ledger == nil {
		return []*model.MintRecord{}, nil
	}
	records, err := uc.ledger.ListByReceiver(ctx, common.HexToAddress(receiver).Hex(), limit)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("failed to read mint history").WithCause(err)
	}
	return records, nil
}

func isTxHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}
