package contract

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// Progress reports the state of a confirmation wait.
type Progress struct {
	Hash          common.Hash
	Mined         bool
	Confirmations uint64
	Target        uint64
}

// WaitConfirmations polls until the transaction has been mined and
// confirmations blocks (including its own) are on top of the chain.
// There is no timeout: the wait ends only on success, failure or ctx.
func WaitConfirmations(ctx context.Context, backend Backend, hash common.Hash, confirmations uint64, poll time.Duration, onProgress func(Progress)) (*types.Receipt, error) {
	if poll <= 0 {
		poll = 2 * time.Second
	}
	report := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}
	report(Progress{Hash: hash, Target: confirmations})

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var receipt *types.Receipt
	for {
		if receipt == nil {
			r, err := backend.TransactionReceipt(ctx, hash)
			if err != nil {
				return nil, fmt.Errorf("fetching receipt: %w", err)
			}
			if r != nil {
				if r.Status == types.ReceiptStatusFailed {
					return r, fmt.Errorf("%w: transaction %s reverted in block %s", ErrContract, hash.Hex(), r.BlockNumber)
				}
				receipt = r
				log.Debug("Transaction mined", "hash", hash, "block", r.BlockNumber)
			}
		}

		if receipt != nil {
			head, err := backend.BlockNumber(ctx)
			if err != nil {
				return nil, fmt.Errorf("fetching block number: %w", err)
			}
			confs := confirmationsAt(head, receipt.BlockNumber.Uint64())
			report(Progress{Hash: hash, Mined: true, Confirmations: confs, Target: confirmations})
			if confs >= confirmations {
				return receipt, nil
			}
		}

		select {
		case <-ctx.Done():
			return receipt, ctx.Err()
		case <-ticker.C:
		}
	}
}

func confirmationsAt(head, mined uint64) uint64 {
	if head < mined {
		return 0
	}
	return head - mined + 1
}
