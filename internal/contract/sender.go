package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Mohsinsiddi/crunner/internal/chain"
)

// TxSigner signs transactions for a single account.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Sender sends write transactions to contracts.
type Sender struct {
	backend Backend
	abi     abi.ABI
	signer  TxSigner
	chainID *big.Int
}

// NewSender creates a Sender. chainID is the ID the target chain is expected
// to report; signing is refused when the node disagrees.
func NewSender(backend Backend, contractABI abi.ABI, signer TxSigner, chainID *big.Int) *Sender {
	return &Sender{
		backend: backend,
		abi:     contractABI,
		signer:  signer,
		chainID: chainID,
	}
}

// From returns the sending account.
func (s *Sender) From() common.Address {
	return s.signer.Address()
}

// Send calls a write function and broadcasts the signed transaction.
func (s *Sender) Send(ctx context.Context, to common.Address, method string, args ...interface{}) (*types.Transaction, error) {
	calldata, err := packCall(s.abi, method, args)
	if err != nil {
		return nil, err
	}

	nodeChainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting chain id: %w", err)
	}
	if s.chainID != nil && nodeChainID.Cmp(s.chainID) != 0 {
		return nil, fmt.Errorf("%w: endpoint reports chain id %s, expected %s",
			chain.ErrTransport, nodeChainID, s.chainID)
	}

	from := s.signer.Address()
	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}
	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}
	caller := Caller{backend: s.backend, abi: s.abi}
	gas, err := caller.EstimateGas(ctx, from, to, method, args...)
	if err != nil {
		return nil, fmt.Errorf("estimating gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     calldata,
	})
	signed, err := s.signer.SignTx(tx, nodeChainID)
	if err != nil {
		return nil, err
	}
	log.Debug("Broadcasting transaction", "hash", signed.Hash(), "from", from, "nonce", nonce, "gas", gas, "gasPrice", gasPrice)

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("broadcasting %s: %w", method, err)
	}
	return signed, nil
}
