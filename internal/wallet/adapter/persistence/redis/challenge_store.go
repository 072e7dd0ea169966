package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/wallet/domain/model"

	"github.com/redis/go-redis/v9"
)

const challengeKeyPrefix = "wallet:challenge:"

// ChallengeStore keeps sign-in challenges in Redis with a TTL
type ChallengeStore struct {
	client redis.UniversalClient
}

// NewChallengeStore creates a Redis backed challenge store
func NewChallengeStore(client redis.UniversalClient) *ChallengeStore {
	return &ChallengeStore{client: client}
}

func challengeKey(nonce string) string {
	return challengeKeyPrefix + nonce
}

// Save stores challenge under its nonce. Challenges of the same address live side by side.
func (s *ChallengeStore) Save(ctx context.Context, challenge *model.Challenge, ttl time.Duration) error {
	if challenge.Nonce == "" {
		return errors.New("challenge requires a nonce")
	}
	data, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}
	if err := s.client.Set(ctx, challengeKey(challenge.Nonce), data, ttl).Err(); err != nil {
		return apperrors.NewInfrastructureError("failed to store wallet challenge").WithCause(err)
	}
	return nil
}

// Get reads the challenge for nonce without removing it
func (s *ChallengeStore) Get(ctx context.Context, nonce string) (*model.Challenge, error) {
	if nonce == "" {
		return nil, apperrors.ErrChallengeExpired
	}
	data, err := s.client.Get(ctx, challengeKey(nonce)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrChallengeExpired
		}
		return nil, apperrors.NewInfrastructureError("failed to read wallet challenge").WithCause(err)
	}

	var challenge model.Challenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &challenge, nil
}

// Consume deletes the challenge for nonce. A second call for the same nonce fails.
func (s *ChallengeStore) Consume(ctx context.Context, nonce string) error {
	removed, err := s.client.Del(ctx, challengeKey(nonce)).Result()
	if err != nil {
		return apperrors.NewInfrastructureError("failed to consume wallet challenge").WithCause(err)
	}
	if removed == 0 {
		return apperrors.ErrChallengeExpired
	}
	return nil
}
