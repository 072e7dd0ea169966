package security

import (
	apperrors "nft-drop/internal/shared/errors"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// PersonalSignVerifier recovers signers of EIP-191 personal_sign messages
type PersonalSignVerifier struct{}

// NewPersonalSignVerifier creates a verifier
func NewPersonalSignVerifier() *PersonalSignVerifier {
	return &PersonalSignVerifier{}
}

// RecoverAddress returns the checksummed address that produced signature over message
func (PersonalSignVerifier) RecoverAddress(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return "", apperrors.ErrInvalidSignature
	}
	// Wallets return V as 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", apperrors.ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}
