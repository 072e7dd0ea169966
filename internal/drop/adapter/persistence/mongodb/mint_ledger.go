package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"nft-drop/internal/drop/domain/model"
	"nft-drop/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const mintsCollection = "mint_records"

// MongoMintLedger implements MintLedger using MongoDB
type MongoMintLedger struct {
	mints *mongo.Collection
	log   logger.Logger
}

// NewMongoMintLedger creates the ledger and its indexes
func NewMongoMintLedger(ctx context.Context, db *mongo.Database, log logger.Logger) (*MongoMintLedger, error) {
	ledger := &MongoMintLedger{
		mints: db.Collection(mintsCollection),
		log:   log.WithComponent("mint_ledger"),
	}

	_, err := ledger.mints.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// Record stores the outcome of a claim transaction, keyed by its hash.
// A confirmed record replaces whatever was there; a failed one never overwrites.
func (l *MongoMintLedger) Record(ctx context.Context, record *model.MintRecord) error {
	if record == nil || record.ID == "" {
		return errors.New("mint record requires a transaction hash")
	}
	record.ID = strings.ToLower(record.ID)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	var err error
	if record.Status == model.MintStatusConfirmed {
		_, err = l.mints.ReplaceOne(ctx,
			bson.M{"_id": record.ID},
			record,
			options.Replace().SetUpsert(true),
		)
	} else {
		// A failure only lands on a hash nobody recorded yet.
		_, err = l.mints.UpdateOne(ctx,
			bson.M{"_id": record.ID},
			bson.M{"$setOnInsert": bson.M{
				"collection": record.Collection,
				"contract":   record.Contract,
				"receiver":   record.Receiver,
				"status":     record.Status,
				"error":      record.Error,
				"created_at": record.CreatedAt,
			}},
			options.Update().SetUpsert(true),
		)
	}
	if err != nil {
		return err
	}

	l.log.WithContext(ctx).WithFields(logger.Fields(
		zap.String("tx_hash", record.ID),
		zap.String("status", string(record.Status)),
		zap.Strings("token_ids", record.TokenIDs),
	)).Debug("mint recorded")
	return nil
}

// ListByReceiver returns the most recent records of receiver, newest first
func (l *MongoMintLedger) ListByReceiver(ctx context.Context, receiver string, limit int64) ([]*model.MintRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := l.mints.Find(ctx, bson.M{"receiver": receiver}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]*model.MintRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
