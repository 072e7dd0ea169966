package model

import (
	"strings"

	apperrors "nft-drop/internal/shared/errors"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress validates a hex account address and returns its checksummed form
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", apperrors.ErrInvalidAddress
	}
	return common.HexToAddress(address).Hex(), nil
}

// SameAddress compares two addresses ignoring checksum case
func SameAddress(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

// ShortAddress renders an address as its first and last five characters
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:5] + "..." + address[len(address)-5:]
}
