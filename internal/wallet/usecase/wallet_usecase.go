package usecase

import (
	"context"
	"errors"
	"time"

	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/eventbus"
	"nft-drop/internal/shared/logger"
	"nft-drop/internal/wallet/config"
	"nft-drop/internal/wallet/domain/model"
	"nft-drop/internal/wallet/domain/repository"

	"github.com/google/uuid"
)

// WalletUsecaseInterface defines the wallet connection use cases
type WalletUsecaseInterface interface {
	IssueChallenge(ctx context.Context, address string) (*model.Challenge, error)
	Connect(ctx context.Context, req ConnectRequest) (*ConnectResponse, error)
	Disconnect(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*repository.Claims, error)
	CurrentAddress(ctx context.Context, token string) (string, error)
}

// ConnectRequest carries a signed challenge
type ConnectRequest struct {
	Address   string `json:"address"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
	UserAgent string `json:"-"`
}

// ConnectResponse is returned after a wallet proves control of its address
type ConnectResponse struct {
	AccessToken  string    `json:"accessToken"`
	Address      string    `json:"address"`
	ShortAddress string    `json:"shortAddress"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// WalletEvent is the payload of wallet.connected and wallet.disconnected
type WalletEvent struct {
	Address   string `json:"address"`
	SessionID string `json:"session_id"`
}

// WalletUsecase implements WalletUsecaseInterface
type WalletUsecase struct {
	sessions   repository.SessionRepository
	challenges repository.ChallengeStore
	verifier   repository.SignatureVerifier
	tokens     repository.TokenService
	events     eventbus.Publisher
	config     *config.Config
	log        logger.Logger
	now        func() time.Time
}

// NewWalletUsecase creates a new wallet usecase. events may be nil.
func NewWalletUsecase(
	sessions repository.SessionRepository,
	challenges repository.ChallengeStore,
	verifier repository.SignatureVerifier,
	tokens repository.TokenService,
	events eventbus.Publisher,
	cfg *config.Config,
	log logger.Logger,
) *WalletUsecase {
	return &WalletUsecase{
		sessions:   sessions,
		challenges: challenges,
		verifier:   verifier,
		tokens:     tokens,
		events:     events,
		config:     cfg,
		log:        log.WithComponent("wallet"),
		now:        time.Now,
	}
}

// IssueChallenge creates a single-use sign-in message for address
func (uc *WalletUsecase) IssueChallenge(ctx context.Context, address string) (*model.Challenge, error) {
	normalized, err := model.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	challenge := &model.Challenge{
		Nonce:     uuid.NewString(),
		Address:   normalized,
		IssuedAt:  now,
		ExpiresAt: now.Add(uc.config.ChallengeTTL),
	}
	challenge.Message = model.SignInMessage(
		uc.config.SignInDomain, uc.config.SignInURI,
		challenge.Address, challenge.Nonce,
		challenge.IssuedAt, challenge.ExpiresAt,
	)

	if err := uc.challenges.Save(ctx, challenge, uc.config.ChallengeTTL); err != nil {
		return nil, err
	}
	return challenge, nil
}

// Connect verifies a signed challenge and opens a session. The challenge is
// consumed only once its signature checks out.
func (uc *WalletUsecase) Connect(ctx context.Context, req ConnectRequest) (*ConnectResponse, error) {
	address, err := model.NormalizeAddress(req.Address)
	if err != nil {
		return nil, err
	}
	if req.Signature == "" {
		return nil, apperrors.ErrInvalidSignature
	}

	challenge, err := uc.challenges.Get(ctx, req.Nonce)
	if err != nil {
		return nil, err
	}
	if !model.SameAddress(challenge.Address, address) {
		return nil, apperrors.ErrChallengeExpired
	}
	if !uc.now().Before(challenge.ExpiresAt) {
		return nil, apperrors.ErrChallengeExpired
	}

	signer, err := uc.verifier.RecoverAddress(challenge.Message, req.Signature)
	if err != nil || !model.SameAddress(signer, address) {
		uc.log.WithContext(ctx).Warnf("signature for %s recovered to %q", address, signer)
		return nil, apperrors.ErrInvalidSignature
	}
	if err := uc.challenges.Consume(ctx, challenge.Nonce); err != nil {
		return nil, err
	}

	now := uc.now()
	session := &model.Session{
		ID:        uuid.NewString(),
		Address:   address,
		UserAgent: req.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.config.SessionTTL),
	}
	if err := uc.sessions.CreateSession(ctx, session); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to create wallet session").WithCause(err)
	}

	token, err := uc.tokens.GenerateToken(ctx, session.ID, address)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign session token").WithCause(err)
	}

	uc.publish(ctx, eventbus.EventTypeWalletConnected, WalletEvent{Address: address, SessionID: session.ID})
	uc.log.WithContext(ctx).Infof("wallet %s connected", model.ShortAddress(address))

	return &ConnectResponse{
		AccessToken:  token,
		Address:      address,
		ShortAddress: model.ShortAddress(address),
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// Disconnect ends the session behind token. A token that is already
// invalid or expired has nothing left to end.
func (uc *WalletUsecase) Disconnect(ctx context.Context, token string) error {
	claims, err := uc.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil
	}

	if err := uc.sessions.DeleteSession(ctx, claims.SessionID); err != nil {
		return apperrors.NewInfrastructureError("failed to delete wallet session").WithCause(err)
	}

	uc.publish(ctx, eventbus.EventTypeWalletDisconnected, WalletEvent{Address: claims.Address, SessionID: claims.SessionID})
	return nil
}

// ValidateToken checks the token signature and that its session is still open
func (uc *WalletUsecase) ValidateToken(ctx context.Context, token string) (*repository.Claims, error) {
	claims, err := uc.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.GetSessionByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	if !model.SameAddress(session.Address, claims.Address) {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// CurrentAddress returns the wallet address bound to token
func (uc *WalletUsecase) CurrentAddress(ctx context.Context, token string) (string, error) {
	claims, err := uc.ValidateToken(ctx, token)
	if err != nil {
		return "", err
	}
	return claims.Address, nil
}

func (uc *WalletUsecase) publish(ctx context.Context, eventType string, data WalletEvent) {
	if uc.events == nil {
		return
	}
	uc.events.PublishAndForget(ctx, eventbus.NewEvent(eventType, data, "wallet"))
}
