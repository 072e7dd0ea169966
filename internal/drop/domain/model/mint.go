package model

import (
	"math/big"
	"time"
)

// Toast messages shown after a mint attempt
const (
	MintSuccessMessage = "HOORAY.. You successfully minted!"
	MintFailureMessage = "Whoops... Something went wrong!"
	MintPendingMessage = "Your transaction is still pending, check back in a moment."
)

// MintStatus is the outcome recorded for a claim transaction
type MintStatus string

const (
	MintStatusConfirmed MintStatus = "confirmed"
	MintStatusFailed    MintStatus = "failed"
)

// ClaimTransaction is an unsigned claim call for the browser wallet to sign and send
type ClaimTransaction struct {
	From     string
	To       string
	Value    *big.Int
	Data     []byte
	ChainID  *big.Int
	Quantity int64
}

// ClaimReceipt describes a mined claim
type ClaimReceipt struct {
	TxHash      string         `json:"txHash"`
	BlockNumber uint64         `json:"blockNumber"`
	TokenIDs    []*big.Int     `json:"tokenIds"`
	Metadata    *TokenMetadata `json:"metadata,omitempty"`
}

// Attribute is one trait of a token
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// TokenMetadata is the ERC-721 metadata document behind tokenURI
type TokenMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// MintRecord is the ledger entry for one claim transaction, keyed by its hash
type MintRecord struct {
	ID         string     `json:"txHash" bson:"_id"`
	Collection string     `json:"collection" bson:"collection"`
	Contract   string     `json:"contract" bson:"contract"`
	Receiver   string     `json:"receiver" bson:"receiver"`
	TokenIDs   []string   `json:"tokenIds,omitempty" bson:"token_ids,omitempty"`
	Status     MintStatus `json:"status" bson:"status"`
	Error      string     `json:"-" bson:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" bson:"created_at"`
}
