package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"nft-drop/internal/drop/domain/model"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// latestStart stands in for start timestamps beyond the representable range
var latestStart = time.Unix(1<<40, 0).UTC()

// Backend is the part of an Ethereum RPC client the drop contract needs.
// *ethclient.Client satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

type claimConditionTuple struct {
	StartTimestamp         *big.Int
	MaxClaimableSupply     *big.Int
	SupplyClaimed          *big.Int
	QuantityLimitPerWallet *big.Int
	MerkleRoot             [32]byte
	PricePerToken          *big.Int
	Currency               common.Address
	Metadata               string
}

type allowlistProof struct {
	Proof                  [][32]byte
	QuantityLimitPerWallet *big.Int
	PricePerToken          *big.Int
	Currency               common.Address
}

// DropContract talks to DropERC721 contracts through a Backend
type DropContract struct {
	backend      Backend
	nativeSymbol string
	callTimeout  time.Duration
	pollInterval time.Duration
	log          logger.Logger
}

// NewDropContract creates a contract adapter
func NewDropContract(backend Backend, nativeSymbol string, callTimeout, pollInterval time.Duration, log logger.Logger) *DropContract {
	return &DropContract{
		backend:      backend,
		nativeSymbol: nativeSymbol,
		callTimeout:  callTimeout,
		pollInterval: pollInterval,
		log:          log.WithComponent("chain"),
	}
}

func (d *DropContract) call(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	input, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	if d.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.callTimeout)
		defer cancel()
	}

	output, err := d.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return nil, apperrors.NewUpstreamError("contract call failed").
			WithComponent("chain").
			WithDetail("method", method).
			WithDetail("contract", to.Hex()).
			WithCause(err)
	}
	if len(output) == 0 {
		return nil, apperrors.NewUpstreamError("no contract code at address").
			WithComponent("chain").
			WithDetail("contract", to.Hex())
	}

	values, err := contractABI.Unpack(method, output)
	if err != nil {
		return nil, apperrors.NewUpstreamError("unexpected contract response").WithDetail("method", method).WithCause(err)
	}
	return values, nil
}

func (d *DropContract) callUint(ctx context.Context, to common.Address, method string, args ...interface{}) (*big.Int, error) {
	out, err := d.call(ctx, to, DropABI, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// ActiveClaimCondition reads the currently active claim condition and its currency
func (d *DropContract) ActiveClaimCondition(ctx context.Context, contract common.Address) (*model.ClaimCondition, error) {
	id, err := d.callUint(ctx, contract, "getActiveClaimConditionId")
	if err != nil {
		return nil, err
	}

	out, err := d.call(ctx, contract, DropABI, "getClaimConditionById", id)
	if err != nil {
		return nil, err
	}
	raw := *abi.ConvertType(out[0], new(claimConditionTuple)).(*claimConditionTuple)

	cond := &model.ClaimCondition{
		ID:                     id,
		StartTime:              latestStart,
		MaxClaimableSupply:     raw.MaxClaimableSupply,
		SupplyClaimed:          raw.SupplyClaimed,
		QuantityLimitPerWallet: raw.QuantityLimitPerWallet,
		MerkleRoot:             raw.MerkleRoot,
		PricePerToken:          raw.PricePerToken,
		Currency:               raw.Currency.Hex(),
	}
	if raw.StartTimestamp.IsInt64() && raw.StartTimestamp.Int64() < latestStart.Unix() {
		cond.StartTime = time.Unix(raw.StartTimestamp.Int64(), 0).UTC()
	}

	if cond.IsNative() {
		cond.Currency = model.NativeCurrency
		cond.CurrencySymbol = d.nativeSymbol
		cond.CurrencyDecimals = 18
		return cond, nil
	}

	symbol, decimals, err := d.currencyInfo(ctx, raw.Currency)
	if err != nil {
		return nil, err
	}
	cond.CurrencySymbol = symbol
	cond.CurrencyDecimals = decimals
	return cond, nil
}

func (d *DropContract) currencyInfo(ctx context.Context, token common.Address) (string, uint8, error) {
	var (
		symbol   string
		decimals uint8
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := d.call(gctx, token, ERC20ABI, "symbol")
		if err != nil {
			return err
		}
		symbol = *abi.ConvertType(out[0], new(string)).(*string)
		return nil
	})
	g.Go(func() error {
		out, err := d.call(gctx, token, ERC20ABI, "decimals")
		if err != nil {
			return err
		}
		decimals = *abi.ConvertType(out[0], new(uint8)).(*uint8)
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", 0, err
	}
	return symbol, decimals, nil
}

// Supply reads the claimed count (totalMinted) and the lazy-minted total (nextTokenIdToMint)
func (d *DropContract) Supply(ctx context.Context, contract common.Address) (*model.Supply, error) {
	var claimed, total *big.Int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		claimed, err = d.callUint(gctx, contract, "totalMinted")
		return err
	})
	g.Go(func() (err error) {
		total, err = d.callUint(gctx, contract, "nextTokenIdToMint")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !claimed.IsUint64() || !total.IsUint64() {
		return nil, apperrors.NewUpstreamError("supply out of range").WithDetail("contract", contract.Hex())
	}
	return &model.Supply{Claimed: claimed.Uint64(), Total: total.Uint64()}, nil
}

// ClaimedByWallet reads how many tokens wallet has claimed under conditionID
func (d *DropContract) ClaimedByWallet(ctx context.Context, contract common.Address, conditionID *big.Int, wallet common.Address) (*big.Int, error) {
	return d.callUint(ctx, contract, "getSupplyClaimedByWallet", conditionID, wallet)
}

// TokenURI reads the metadata URI of tokenID
func (d *DropContract) TokenURI(ctx context.Context, contract common.Address, tokenID *big.Int) (string, error) {
	out, err := d.call(ctx, contract, DropABI, "tokenURI", tokenID)
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// PackClaim encodes a public-phase claim paying the condition's price.
// The empty allowlist proof carries the maximum price so the contract applies the condition's own.
func (d *DropContract) PackClaim(receiver common.Address, quantity int64, condition *model.ClaimCondition) ([]byte, error) {
	if condition == nil || condition.PricePerToken == nil {
		return nil, errors.New("claim condition is required")
	}
	proof := allowlistProof{
		Proof:                  [][32]byte{},
		QuantityLimitPerWallet: new(big.Int),
		PricePerToken:          abi.MaxUint256,
		Currency:               common.Address{},
	}
	return DropABI.Pack("claim",
		receiver,
		big.NewInt(quantity),
		common.HexToAddress(condition.Currency),
		condition.PricePerToken,
		proof,
		[]byte{},
	)
}

// ChainID returns the id of the connected chain
func (d *DropContract) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := d.backend.ChainID(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to read chain id").WithCause(err)
	}
	return id, nil
}

// WaitReceipt polls for the receipt of txHash until it is mined or ctx ends
func (d *DropContract) WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := d.backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			d.log.WithContext(ctx).WithFields(logger.Fields(
				zap.String("tx_hash", txHash.Hex()),
				zap.Error(err),
			)).Warn("receipt lookup failed, retrying")
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt of %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// MintedTokens returns the ids contract minted to receiver in receipt
func (d *DropContract) MintedTokens(receipt *types.Receipt, contract, receiver common.Address) []*big.Int {
	transfer := DropABI.Events["Transfer"].ID
	var ids []*big.Int
	for _, l := range receipt.Logs {
		if l.Address != contract || len(l.Topics) != 4 || l.Topics[0] != transfer {
			continue
		}
		from := common.BytesToAddress(l.Topics[1].Bytes())
		to := common.BytesToAddress(l.Topics[2].Bytes())
		if from != (common.Address{}) || to != receiver {
			continue
		}
		ids = append(ids, l.Topics[3].Big())
	}
	return ids
}
