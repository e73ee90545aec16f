package contract

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/crunner/internal/chain"
	"github.com/Mohsinsiddi/crunner/internal/wallet"
)

// Hardhat test account #0.
const testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testSigner(t *testing.T) *wallet.Signer {
	t.Helper()
	s, err := wallet.NewSigner(testPrivKeyHex)
	require.NoError(t, err)
	return s
}

func TestSendBuildsSignedLegacyTx(t *testing.T) {
	fb := &fakeBackend{
		chainID:  big.NewInt(56),
		nonce:    7,
		gasPrice: big.NewInt(3_000_000_000),
		gas:      46_109,
	}
	signer := testSigner(t)
	s := NewSender(fb, DefaultABI(), signer, big.NewInt(56))
	assert.Equal(t, signer.Address(), s.From())

	tx, err := s.Send(context.Background(), tokenAddr, "approve", spenderAddr, big.NewInt(1000))
	require.NoError(t, err)

	require.Len(t, fb.sent, 1)
	assert.Equal(t, tx.Hash(), fb.sent[0].Hash())
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(46_109), tx.Gas())
	assert.Equal(t, big.NewInt(3_000_000_000), tx.GasPrice())
	assert.Equal(t, &tokenAddr, tx.To())
	assert.Equal(t, 0, tx.Value().Sign())
	assert.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, tx.Data()[:4])

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(56)), tx)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), from)

	// gas was estimated from the signing account
	require.Len(t, fb.estimate, 1)
	assert.Equal(t, signer.Address(), fb.estimate[0].From)
}

func TestSendRejectsChainIDMismatch(t *testing.T) {
	fb := &fakeBackend{chainID: big.NewInt(1), gasPrice: big.NewInt(1)}
	s := NewSender(fb, DefaultABI(), testSigner(t), big.NewInt(56))

	_, err := s.Send(context.Background(), tokenAddr, "approve", spenderAddr, big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain id 1, expected 56")
	assert.Empty(t, fb.sent)
}

func TestSendEstimateRevertAborts(t *testing.T) {
	fb := &fakeBackend{
		chainID:  big.NewInt(137),
		gasPrice: big.NewInt(1),
		gasErr:   errors.Join(chain.ErrReverted, errors.New("not owner")),
	}
	s := NewSender(fb, DefaultABI(), testSigner(t), big.NewInt(137))

	_, err := s.Send(context.Background(), tokenAddr, "approve", spenderAddr, big.NewInt(1))
	assert.ErrorIs(t, err, ErrContract)
	assert.Empty(t, fb.sent)
}

func TestSendBroadcastFailure(t *testing.T) {
	fb := &fakeBackend{
		chainID:  big.NewInt(1),
		gasPrice: big.NewInt(1),
		gas:      21_000,
		sendErr:  errors.Join(chain.ErrTransport, errors.New("nonce too low")),
	}
	s := NewSender(fb, DefaultABI(), testSigner(t), big.NewInt(1))

	_, err := s.Send(context.Background(), tokenAddr, "approve", spenderAddr, big.NewInt(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, chain.ErrTransport)
	assert.Contains(t, err.Error(), "broadcasting approve")
}

func TestSendUnknownMethod(t *testing.T) {
	fb := &fakeBackend{chainID: big.NewInt(1)}
	_, err := NewSender(fb, DefaultABI(), testSigner(t), big.NewInt(1)).Send(context.Background(), tokenAddr, "mint")
	assert.ErrorIs(t, err, ErrContract)
}
