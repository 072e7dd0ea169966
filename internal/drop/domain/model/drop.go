package model

import (
	"math/big"
	"strings"
	"time"

	catalogmodel "nft-drop/internal/catalog/domain/model"

	"github.com/shopspring/decimal"
)

// NativeCurrency is the sentinel address claim conditions use for the chain's native token
const NativeCurrency = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// ClaimCondition is the active set of terms under which tokens of a drop can be claimed
type ClaimCondition struct {
	ID                     *big.Int  `json:"id"`
	StartTime              time.Time `json:"startTime"`
	MaxClaimableSupply     *big.Int  `json:"maxClaimableSupply"`
	SupplyClaimed          *big.Int  `json:"supplyClaimed"`
	QuantityLimitPerWallet *big.Int  `json:"quantityLimitPerWallet"`
	MerkleRoot             [32]byte  `json:"-"`
	PricePerToken          *big.Int  `json:"pricePerToken"`
	Currency               string    `json:"currency"`
	CurrencySymbol         string    `json:"currencySymbol"`
	CurrencyDecimals       uint8     `json:"currencyDecimals"`
}

// IsNative reports whether the price is paid in the chain's native token
func (c *ClaimCondition) IsNative() bool {
	return strings.EqualFold(c.Currency, NativeCurrency)
}

// Started reports whether the condition is open at now
func (c *ClaimCondition) Started(now time.Time) bool {
	return !now.Before(c.StartTime)
}

// DisplayPrice renders the per-token price in whole currency units, e.g. "0.01"
func (c *ClaimCondition) DisplayPrice() string {
	if c.PricePerToken == nil {
		return "0"
	}
	return decimal.NewFromBigInt(c.PricePerToken, -int32(c.CurrencyDecimals)).String()
}

// TotalPrice is the amount owed for quantity tokens, in base units
func (c *ClaimCondition) TotalPrice(quantity int64) *big.Int {
	if c.PricePerToken == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(c.PricePerToken, big.NewInt(quantity))
}

// Supply is the claimed and total token count of a drop
type Supply struct {
	Claimed uint64 `json:"claimed"`
	Total   uint64 `json:"total"`
}

// SoldOut reports whether every available token has been claimed
func (s *Supply) SoldOut() bool {
	return s.Claimed >= s.Total
}

// Remaining is the number of tokens still available
func (s *Supply) Remaining() uint64 {
	if s.SoldOut() {
		return 0
	}
	return s.Total - s.Claimed
}

// DropState is everything the drop page needs about a collection's contract
type DropState struct {
	Collection *catalogmodel.Collection
	Condition  *ClaimCondition
	Supply     *Supply
	Loading    bool
}

// SoldOut reports a known, exhausted supply
func (d *DropState) SoldOut() bool {
	return d.Supply != nil && d.Supply.SoldOut()
}
