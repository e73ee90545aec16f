package dispatch

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeBackend records every call so tests can assert what reached the chain.
type fakeBackend struct {
	code     []byte
	codeErr  error
	balance  *big.Int
	callOut  []byte
	gas      uint64
	gasPrice *big.Int
	chainID  *big.Int
	receipt  *types.Receipt
	head     uint64

	calls []string
	sent  []*types.Transaction
}

func (f *fakeBackend) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeBackend) CodeAt(context.Context, common.Address) ([]byte, error) {
	f.record("CodeAt")
	return f.code, f.codeErr
}

func (f *fakeBackend) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	f.record("BalanceAt")
	return f.balance, nil
}

func (f *fakeBackend) CallContract(context.Context, ethereum.CallMsg) ([]byte, error) {
	f.record("CallContract")
	return f.callOut, nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	f.record("EstimateGas")
	return f.gas, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	f.record("SuggestGasPrice")
	return f.gasPrice, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.record("PendingNonceAt")
	return 0, nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	f.record("ChainID")
	return f.chainID, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.record("SendTransaction")
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.record("TransactionReceipt")
	return f.receipt, nil
}

func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	f.record("BlockNumber")
	f.head++
	return f.head, nil
}
