package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasThreeChains(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"bsc", "ethereum", "polygon"}, r.Names())
	assert.Len(t, r.All(), 3)
}

func TestRegistryTargets(t *testing.T) {
	tests := []struct {
		name    string
		unit    string
		chainID int64
		rpc     string
	}{
		{"bsc", "BNB", 56, "https://bsc-dataseed.binance.org/"},
		{"ethereum", "ETH", 1, "https://rpc.ankr.com/eth"},
		{"polygon", "MATIC", 137, "https://polygon-rpc.com/"},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := r.GetByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.unit, target.Unit)
			assert.Equal(t, tt.chainID, target.ChainID)
			assert.Equal(t, tt.rpc, target.RPC)
			assert.Equal(t, tt.chainID, target.ChainIDBig().Int64())
		})
	}
}

func TestRegistryCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"BSC", "Ethereum", " polygon "} {
		_, err := r.GetByName(name)
		assert.NoError(t, err, name)
	}
}

func TestRegistryUnknownChain(t *testing.T) {
	_, err := NewRegistry().GetByName("solana")
	assert.ErrorIs(t, err, ErrChainNotFound)
}

func TestRegistryRejectsMisspelling(t *testing.T) {
	_, err := NewRegistry().GetByName("ehtereum")
	assert.ErrorIs(t, err, ErrChainNotFound)
}
