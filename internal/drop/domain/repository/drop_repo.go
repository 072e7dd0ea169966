package repository

import (
	"context"
	"math/big"

	"nft-drop/internal/drop/domain/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DropContract reads from and encodes calls to an NFT drop contract
type DropContract interface {
	ActiveClaimCondition(ctx context.Context, contract common.Address) (*model.ClaimCondition, error)
	Supply(ctx context.Context, contract common.Address) (*model.Supply, error)
	ClaimedByWallet(ctx context.Context, contract common.Address, conditionID *big.Int, wallet common.Address) (*big.Int, error)
	PackClaim(receiver common.Address, quantity int64, condition *model.ClaimCondition) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
	// WaitReceipt polls for the receipt of txHash until it is mined or ctx ends
	WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	// MintedTokens returns the ids minted by contract to receiver in receipt
	MintedTokens(receipt *types.Receipt, contract, receiver common.Address) []*big.Int
	TokenURI(ctx context.Context, contract common.Address, tokenID *big.Int) (string, error)
}

// MetadataFetcher loads the metadata document a token URI points at
type MetadataFetcher interface {
	Fetch(ctx context.Context, uri string) (*model.TokenMetadata, error)
}

// MintLedger records claim outcomes
type MintLedger interface {
	Record(ctx context.Context, record *model.MintRecord) error
	ListByReceiver(ctx context.Context, receiver string, limit int64) ([]*model.MintRecord, error)
}
