package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs EVM transactions with a single secp256k1 key.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner parses a hex-encoded private key, with or without 0x prefix.
func NewSigner(hexKey string) (*Signer, error) {
	privKey, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return &Signer{key: privKey, address: crypto.PubkeyToAddress(privKey.PublicKey)}, nil
}

// Address returns the address derived from the key.
func (s *Signer) Address() common.Address {
	return s.address
}

// SignTx signs tx for chainID using the latest signer rules for that chain.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return signed, nil
}

// normaliseHexKey trims whitespace and an optional 0x/0X prefix.
func normaliseHexKey(k string) string {
	k = strings.TrimSpace(k)
	if strings.HasPrefix(k, "0x") || strings.HasPrefix(k, "0X") {
		k = k[2:]
	}
	return k
}
