package mongodb_test

import (
	"context"
	"testing"
	"time"

	"nft-drop/internal/drop/adapter/persistence/mongodb"
	"nft-drop/internal/drop/domain/model"
	"nft-drop/internal/shared/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MintLedgerTestSuite struct {
	suite.Suite
	client   *mongo.Client
	database *mongo.Database
	ledger   *mongodb.MongoMintLedger
}

func (s *MintLedgerTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://localhost:27017").
		SetServerSelectionTimeout(time.Second))
	if err != nil {
		s.T().Skip("MongoDB not available for testing")
		return
	}
	if err := client.Ping(ctx, nil); err != nil {
		s.T().Skip("MongoDB not available for testing")
		return
	}

	s.client = client
	s.database = client.Database("nft_drop_ledger_test_" + uuid.NewString()[:8])

	ledger, err := mongodb.NewMongoMintLedger(ctx, s.database, logger.Nop())
	require.NoError(s.T(), err)
	s.ledger = ledger
}

func (s *MintLedgerTestSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.database.Drop(context.Background())
		_ = s.client.Disconnect(context.Background())
	}
}

func (s *MintLedgerTestSuite) TestRecordUpsertsByHash() {
	ctx := context.Background()
	receiver := "0x" + uuid.NewString()[:8]

	rec := &model.MintRecord{ID: "0xABC1", Collection: "apes", Receiver: receiver, Status: model.MintStatusFailed}
	require.NoError(s.T(), s.ledger.Record(ctx, rec))

	rec = &model.MintRecord{ID: "0xabc1", Collection: "apes", Receiver: receiver,
		Status: model.MintStatusConfirmed, TokenIDs: []string{"13"}}
	require.NoError(s.T(), s.ledger.Record(ctx, rec))

	records, err := s.ledger.ListByReceiver(ctx, receiver, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 1)
	assert.Equal(s.T(), model.MintStatusConfirmed, records[0].Status)
	assert.Equal(s.T(), []string{"13"}, records[0].TokenIDs)
}

func (s *MintLedgerTestSuite) TestFailureNeverDowngradesConfirmed() {
	ctx := context.Background()
	receiver := "0x" + uuid.NewString()[:8]
	hash := "0xabc2" + receiver

	require.NoError(s.T(), s.ledger.Record(ctx, &model.MintRecord{ID: hash, Collection: "apes", Receiver: receiver,
		Status: model.MintStatusConfirmed, TokenIDs: []string{"7"}}))
	require.NoError(s.T(), s.ledger.Record(ctx, &model.MintRecord{ID: hash, Collection: "apes", Receiver: "0xother",
		Status: model.MintStatusFailed, Error: "transaction reverted"}))

	records, err := s.ledger.ListByReceiver(ctx, receiver, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 1)
	assert.Equal(s.T(), model.MintStatusConfirmed, records[0].Status)
	assert.Equal(s.T(), []string{"7"}, records[0].TokenIDs)
	assert.Empty(s.T(), records[0].Error)

	others, err := s.ledger.ListByReceiver(ctx, "0xother", 10)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), others)
}

func (s *MintLedgerTestSuite) TestListNewestFirst() {
	ctx := context.Background()
	receiver := "0x" + uuid.NewString()[:8]
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, hash := range []string{"0x01", "0x02", "0x03"} {
		require.NoError(s.T(), s.ledger.Record(ctx, &model.MintRecord{
			ID:        hash + receiver,
			Receiver:  receiver,
			Status:    model.MintStatusConfirmed,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := s.ledger.ListByReceiver(ctx, receiver, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 2)
	assert.Equal(s.T(), "0x03"+receiver, records[0].ID)
	assert.Equal(s.T(), "0x02"+receiver, records[1].ID)
}

func (s *MintLedgerTestSuite) TestRecordRequiresHash() {
	assert.Error(s.T(), s.ledger.Record(context.Background(), &model.MintRecord{}))
}

func TestMintLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(MintLedgerTestSuite))
}
