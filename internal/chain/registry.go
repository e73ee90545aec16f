package chain

import (
	"errors"
	"math/big"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Target holds the static metadata of one supported chain.
type Target struct {
	Name        string // slug accepted by --chain
	DisplayName string
	ChainID     int64
	Unit        string // native currency symbol
	RPC         string // static JSON-RPC endpoint
}

// ChainIDBig returns the chain ID as a big.Int for signing.
func (t Target) ChainIDBig() *big.Int {
	return big.NewInt(t.ChainID)
}

// Registry is the closed set of chains crunner can talk to.
type Registry struct {
	targets []Target
	byName  map[string]Target
}

// NewRegistry returns the registry of all supported chains.
func NewRegistry() *Registry {
	targets := allTargets()
	r := &Registry{
		targets: targets,
		byName:  make(map[string]Target, len(targets)),
	}
	for _, t := range targets {
		r.byName[t.Name] = t
	}
	return r
}

// All returns every target in declaration order.
func (r *Registry) All() []Target {
	return r.targets
}

// Names returns the chain slugs in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.targets))
	for i, t := range r.targets {
		names[i] = t.Name
	}
	return names
}

// GetByName finds a target by slug, ignoring case and surrounding spaces.
func (r *Registry) GetByName(name string) (Target, error) {
	t, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Target{}, ErrChainNotFound
	}
	return t, nil
}

// --- chain data ---

func allTargets() []Target {
	return []Target{
		{
			Name: "bsc", DisplayName: "BNB Smart Chain", ChainID: 56,
			Unit: "BNB",
			RPC:  "https://bsc-dataseed.binance.org/",
		},
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1,
			Unit: "ETH",
			RPC:  "https://rpc.ankr.com/eth",
		},
		{
			Name: "polygon", DisplayName: "Polygon", ChainID: 137,
			Unit: "MATIC",
			RPC:  "https://polygon-rpc.com/",
		},
	}
}
