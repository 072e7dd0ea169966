package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogmodel "nft-drop/internal/catalog/domain/model"
	dropmodel "nft-drop/internal/drop/domain/model"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/flash"
	"nft-drop/internal/shared/logger"
	"nft-drop/internal/shared/utils"
	"nft-drop/internal/web/assets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testWallet = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListCollections(ctx context.Context) ([]*catalogmodel.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalogmodel.Collection), args.Error(1)
}

func (m *mockCatalog) GetCollection(ctx context.Context, slug string) (*catalogmodel.Collection, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogmodel.Collection), args.Error(1)
}

func (m *mockCatalog) Revalidate(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func (m *mockCatalog) ImageURL(img *catalogmodel.Image, width int) string {
	if !img.HasAsset() {
		return ""
	}
	return "https://cdn.example/" + img.Asset.Ref
}

type mockDrops struct {
	mock.Mock
}

func (m *mockDrops) LoadDrop(ctx context.Context, c *catalogmodel.Collection) (*dropmodel.DropState, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(*dropmodel.DropState), args.Error(1)
}

func (m *mockDrops) ClaimConditions(ctx context.Context, c *catalogmodel.Collection) (*dropmodel.ClaimCondition, error) {
	panic("not used by pages")
}

func (m *mockDrops) Supply(ctx context.Context, c *catalogmodel.Collection) (*dropmodel.Supply, error) {
	panic("not used by pages")
}

func (m *mockDrops) PrepareClaim(ctx context.Context, c *catalogmodel.Collection, receiver string, quantity int64) (*dropmodel.ClaimTransaction, error) {
	panic("not used by pages")
}

func (m *mockDrops) ConfirmClaim(ctx context.Context, c *catalogmodel.Collection, receiver, txHash string) (*dropmodel.ClaimReceipt, error) {
	panic("not used by pages")
}

func (m *mockDrops) MintHistory(ctx context.Context, receiver string, limit int64) ([]*dropmodel.MintRecord, error) {
	panic("not used by pages")
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// fakeIdentify treats X-Test-Wallet as the connected wallet
func fakeIdentify(c *fiber.Ctx) error {
	if addr := c.Get("X-Test-Wallet"); addr != "" {
		c.SetUserContext(utils.WithWalletAddress(c.UserContext(), addr))
	}
	return c.Next()
}

type PageHandlerTestSuite struct {
	suite.Suite
	catalog *mockCatalog
	drops   *mockDrops
	health  error
	app     *fiber.App
}

func (s *PageHandlerTestSuite) SetupTest() {
	s.catalog = new(mockCatalog)
	s.drops = new(mockDrops)
	s.health = nil

	s.app = fiber.New(fiber.Config{
		Views:        html.NewFileSystem(http.FS(assets.Views()), ".html"),
		ErrorHandler: NewErrorHandler(logger.Nop()),
	})
	h := NewPageHandler(s.catalog, s.drops, healthFunc(func(context.Context) error { return s.health }), logger.Nop())
	h.SetupPageRoutes(s.app, fakeIdentify)
	s.app.Get("/api/boom", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("bad quantity")
	})
	s.app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database exploded")
	})
}

func TestPageHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PageHandlerTestSuite))
}

func (s *PageHandlerTestSuite) get(path string, wallet string, cookies ...*http.Cookie) (int, string) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if wallet != "" {
		req.Header.Set("X-Test-Wallet", wallet)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, string(body)
}

func collection() *catalogmodel.Collection {
	return &catalogmodel.Collection{
		Title:             "Apes",
		Description:       "A collection of apes",
		NFTCollectionName: "Ape Society",
		Address:           "0x00000000000000000000000000000000000d7009",
		MainImage:         &catalogmodel.Image{Asset: &catalogmodel.Reference{Ref: "image-main-100x100-png"}},
		PreviewImage:      &catalogmodel.Image{Asset: &catalogmodel.Reference{Ref: "image-preview-100x100-png"}},
		Slug:              &catalogmodel.Slug{Current: "apes"},
		Creator:           &catalogmodel.Creator{Name: "Papa"},
	}
}

func loadedState(col *catalogmodel.Collection, claimed, total uint64) *dropmodel.DropState {
	return &dropmodel.DropState{
		Collection: col,
		Condition: &dropmodel.ClaimCondition{
			PricePerToken:    big.NewInt(10_000_000_000_000_000),
			CurrencySymbol:   "ETH",
			CurrencyDecimals: 18,
		},
		Supply: &dropmodel.Supply{Claimed: claimed, Total: total},
	}
}

func (s *PageHandlerTestSuite) TestIndex_ListsCollections() {
	s.catalog.On("ListCollections", mock.Anything).Return([]*catalogmodel.Collection{
		collection(),
		{Title: "No Image", Slug: &catalogmodel.Slug{Current: "plain"}},
	}, nil)

	status, body := s.get("/", "")

	s.Equal(fiber.StatusOK, status)
	s.Contains(body, "Welcome to our NFT CONTRACT SERVICE")
	s.Contains(body, `href="/nft/apes"`)
	s.Contains(body, "https://cdn.example/image-main-100x100-png")
	s.Contains(body, "A collection of apes")
	s.Contains(body, `href="/nft/plain"`)
}

func (s *PageHandlerTestSuite) TestIndex_HidesCollectionsWithoutSlug() {
	s.catalog.On("ListCollections", mock.Anything).Return([]*catalogmodel.Collection{
		collection(),
		{Title: "Draft Drop"},
		{Title: "Blank Slug", Slug: &catalogmodel.Slug{}},
	}, nil)

	status, body := s.get("/", "")

	s.Equal(fiber.StatusOK, status)
	s.Contains(body, `href="/nft/apes"`)
	s.NotContains(body, `href="/nft/"`)
	s.NotContains(body, "Draft Drop")
	s.NotContains(body, "Blank Slug")
}

func (s *PageHandlerTestSuite) TestIndex_CatalogFailureRendersErrorPage() {
	s.catalog.On("ListCollections", mock.Anything).Return(nil, apperrors.NewUpstreamError("content store unavailable"))

	status, body := s.get("/", "")

	s.Equal(fiber.StatusBadGateway, status)
	s.Contains(body, "content store unavailable")
	s.Contains(body, "<!DOCTYPE html>")
}

func (s *PageHandlerTestSuite) TestDrop_UnknownSlugRenders404() {
	s.catalog.On("GetCollection", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("collection"))

	status, body := s.get("/nft/missing", "")

	s.Equal(fiber.StatusNotFound, status)
	s.Contains(body, "This drop does not exist.")
	s.drops.AssertNotCalled(s.T(), "LoadDrop", mock.Anything, mock.Anything)
}

func (s *PageHandlerTestSuite) TestDrop_Anonymous() {
	col := collection()
	s.catalog.On("GetCollection", mock.Anything, "apes").Return(col, nil)
	s.drops.On("LoadDrop", mock.Anything, col).Return(loadedState(col, 13, 21), nil)

	status, body := s.get("/nft/apes", "")

	s.Equal(fiber.StatusOK, status)
	s.Contains(body, "13 / 21 NFT's claimed")
	s.Contains(body, "Sign in to Mint")
	s.Contains(body, `data-action="connect"`)
	s.NotContains(body, "You are logged in with wallet")
	s.Contains(body, "Ape Society")
	s.Contains(body, "by Papa")
	s.Contains(body, "https://cdn.example/image-preview-100x100-png")
}

func (s *PageHandlerTestSuite) TestDrop_Connected() {
	col := collection()
	s.catalog.On("GetCollection", mock.Anything, "apes").Return(col, nil)
	s.drops.On("LoadDrop", mock.Anything, col).Return(loadedState(col, 13, 21), nil)

	status, body := s.get("/nft/apes", testWallet)

	s.Equal(fiber.StatusOK, status)
	s.Contains(body, "You are logged in with wallet 0x5aA...BeAed")
	s.Contains(body, "Mint NFT (0.01 ETH)")
	s.Contains(body, `data-action="disconnect"`)
	s.NotContains(body, "disabled>")
}

func (s *PageHandlerTestSuite) TestDrop_SoldOut() {
	col := collection()
	s.catalog.On("GetCollection", mock.Anything, "apes").Return(col, nil)
	s.drops.On("LoadDrop", mock.Anything, col).Return(loadedState(col, 21, 21), nil)

	_, body := s.get("/nft/apes", testWallet)

	s.Contains(body, "SOLD OUT")
	s.Contains(body, "21 / 21 NFT's claimed")
	s.Contains(body, "disabled>SOLD OUT")
}

func (s *PageHandlerTestSuite) TestDrop_ChainUnavailableStaysLoading() {
	col := collection()
	s.catalog.On("GetCollection", mock.Anything, "apes").Return(col, nil)
	s.drops.On("LoadDrop", mock.Anything, col).
		Return(&dropmodel.DropState{Collection: col, Loading: true}, apperrors.NewUpstreamError("rpc down"))

	status, body := s.get("/nft/apes", testWallet)

	s.Equal(fiber.StatusOK, status)
	s.Contains(body, "disabled>Loading...")
	s.Contains(body, "Loading Supply Count...")
	s.NotContains(body, "NFT's claimed")
}

func (s *PageHandlerTestSuite) TestDrop_NoContractYet() {
	col := collection()
	col.Address = ""
	s.catalog.On("GetCollection", mock.Anything, "apes").Return(col, nil)
	s.drops.On("LoadDrop", mock.Anything, col).
		Return(&dropmodel.DropState{Collection: col, Loading: true}, apperrors.ErrDropNotConfigured)

	status, body := s.get("/nft/apes", "")

	s.Equal(fiber.StatusOK, status)
	s.Contains(body, `data-has-drop="false"`)
	s.Contains(body, "Loading...")
}

func (s *PageHandlerTestSuite) TestDrop_ShowsFlashToastOnce() {
	col := collection()
	s.catalog.On("GetCollection", mock.Anything, "apes").Return(col, nil)
	s.drops.On("LoadDrop", mock.Anything, col).Return(loadedState(col, 14, 21), nil)

	raw, err := json.Marshal(flash.Message{Kind: flash.KindSuccess, Text: dropmodel.MintSuccessMessage})
	s.Require().NoError(err)
	cookie := &http.Cookie{Name: flash.CookieName, Value: base64.RawURLEncoding.EncodeToString(raw)}

	_, body := s.get("/nft/apes", testWallet, cookie)

	s.Contains(body, "toast-success visible")
	s.Contains(body, "HOORAY.. You successfully minted!")
}

func (s *PageHandlerTestSuite) TestHealth() {
	status, body := s.get("/health", "")
	s.Equal(fiber.StatusOK, status)
	s.Contains(body, "HEALTHY")

	s.health = errors.New("mongo: no reachable servers")
	status, body = s.get("/health", "")
	s.Equal(fiber.StatusServiceUnavailable, status)
	s.Contains(body, "UNHEALTHY")
}

func (s *PageHandlerTestSuite) TestErrorHandler_APIGetsJSON() {
	status, body := s.get("/api/boom", "")
	s.Equal(fiber.StatusBadRequest, status)
	s.JSONEq(`{"error":"bad quantity"}`, body)
}

func (s *PageHandlerTestSuite) TestErrorHandler_MasksInternalErrors() {
	status, body := s.get("/boom", "")
	s.Equal(fiber.StatusInternalServerError, status)
	s.Contains(body, "Internal server error")
	s.NotContains(body, "database exploded")
}

func (s *PageHandlerTestSuite) TestErrorHandler_UnknownRoute() {
	status, body := s.get("/does/not/exist", "")
	s.Equal(fiber.StatusNotFound, status)
	s.Contains(body, "Page not found.")
}

func TestStaticAssetsEmbedded(t *testing.T) {
	for _, name := range []string{"wallet.js", "style.css"} {
		f, err := assets.Static().Open(name)
		require.NoError(t, err, name)
		assert.NoError(t, f.Close())
	}
}
