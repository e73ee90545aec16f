package contract

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeBackend is an in-memory Backend. Receipts and heads are consumed in
// order, the last value repeating once the slice is exhausted.
type fakeBackend struct {
	mu sync.Mutex

	callOut  []byte
	callErr  error
	calls    []ethereum.CallMsg
	gas      uint64
	gasErr   error
	estimate []ethereum.CallMsg
	gasPrice *big.Int
	nonce    uint64
	chainID  *big.Int
	sendErr  error
	sent     []*types.Transaction

	receipts    []*types.Receipt
	receiptErr  error
	heads       []uint64
	receiptPoll int
	headPoll    int
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msg)
	return f.callOut, f.callErr
}

func (f *fakeBackend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.estimate = append(f.estimate, msg)
	return f.gas, f.gasErr
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return f.chainID, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	if len(f.receipts) == 0 {
		return nil, nil
	}
	i := f.receiptPoll
	if i >= len(f.receipts) {
		i = len(f.receipts) - 1
	}
	f.receiptPoll++
	return f.receipts[i], nil
}

func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.heads) == 0 {
		return 0, nil
	}
	i := f.headPoll
	if i >= len(f.heads) {
		i = len(f.heads) - 1
	}
	f.headPoll++
	return f.heads[i], nil
}
