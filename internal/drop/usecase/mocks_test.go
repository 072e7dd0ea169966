package usecase_test

import (
	"context"
	"math/big"

	"nft-drop/internal/drop/domain/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

type mockDropContract struct {
	mock.Mock
}

func (m *mockDropContract) ActiveClaimCondition(ctx context.Context, contract common.Address) (*model.ClaimCondition, error) {
	args := m.Called(ctx, contract)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClaimCondition), args.Error(1)
}

func (m *mockDropContract) Supply(ctx context.Context, contract common.Address) (*model.Supply, error) {
	args := m.Called(ctx, contract)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supply), args.Error(1)
}

func (m *mockDropContract) ClaimedByWallet(ctx context.Context, contract common.Address, conditionID *big.Int, wallet common.Address) (*big.Int, error) {
	args := m.Called(ctx, contract, conditionID, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *mockDropContract) PackClaim(receiver common.Address, quantity int64, condition *model.ClaimCondition) ([]byte, error) {
	args := m.Called(receiver, quantity, condition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockDropContract) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *mockDropContract) WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

func (m *mockDropContract) MintedTokens(receipt *types.Receipt, contract, receiver common.Address) []*big.Int {
	args := m.Called(receipt, contract, receiver)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*big.Int)
}

func (m *mockDropContract) TokenURI(ctx context.Context, contract common.Address, tokenID *big.Int) (string, error) {
	args := m.Called(ctx, contract, tokenID)
	return args.String(0), args.Error(1)
}

type mockMetadataFetcher struct {
	mock.Mock
}

func (m *mockMetadataFetcher) Fetch(ctx context.Context, uri string) (*model.TokenMetadata, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenMetadata), args.Error(1)
}

type mockMintLedger struct {
	mock.Mock
}

func (m *mockMintLedger) Record(ctx context.Context, record *model.MintRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockMintLedger) ListByReceiver(ctx context.Context, receiver string, limit int64) ([]*model.MintRecord, error) {
	args := m.Called(ctx, receiver, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MintRecord), args.Error(1)
}
