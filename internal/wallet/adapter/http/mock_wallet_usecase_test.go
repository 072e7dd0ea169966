package http

import (
	"context"

	"nft-drop/internal/wallet/domain/model"
	"nft-drop/internal/wallet/domain/repository"
	"nft-drop/internal/wallet/usecase"

	"github.com/stretchr/testify/mock"
)

type mockWalletUsecase struct {
	mock.Mock
}

func (m *mockWalletUsecase) IssueChallenge(ctx context.Context, address string) (*model.Challenge, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Challenge), args.Error(1)
}

func (m *mockWalletUsecase) Connect(ctx context.Context, req usecase.ConnectRequest) (*usecase.ConnectResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ConnectResponse), args.Error(1)
}

func (m *mockWalletUsecase) Disconnect(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockWalletUsecase) ValidateToken(ctx context.Context, token string) (*repository.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Claims), args.Error(1)
}

func (m *mockWalletUsecase) CurrentAddress(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
