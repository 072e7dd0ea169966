package mongodb

import (
	"context"
	"errors"
	"time"

	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/wallet/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionsCollection = "wallet_sessions"

// MongoSessionRepository implements SessionRepository using MongoDB
type MongoSessionRepository struct {
	sessions *mongo.Collection
}

// NewMongoSessionRepository creates the repository and its indexes
func NewMongoSessionRepository(ctx context.Context, db *mongo.Database) (*MongoSessionRepository, error) {
	repo := &MongoSessionRepository{sessions: db.Collection(sessionsCollection)}

	_, err := repo.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "address", Value: 1}}},
		// Expired sessions are removed by the server
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// CreateSession stores a new session
func (r *MongoSessionRepository) CreateSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	_, err := r.sessions.InsertOne(ctx, session)
	return err
}

// GetSessionByID returns the session or errors.ErrSessionNotFound.
// Sessions past expiry that the TTL monitor has not yet removed are also not found.
func (r *MongoSessionRepository) GetSessionByID(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, apperrors.ErrSessionNotFound
	}
	var session model.Session
	err := r.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, apperrors.ErrSessionNotFound
	}
	return &session, nil
}

// DeleteSession removes one session; deleting a missing session is not an error
func (r *MongoSessionRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.sessions.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
