package dispatch

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/crunner/internal/chain"
)

// Result is the outcome of one invocation, rendered as a single stdout line.
type Result interface {
	Render() string
}

// TextResult is a decoded String return value.
type TextResult struct {
	Value string
}

// Render quotes the value.
func (r TextResult) Render() string { return strconv.Quote(r.Value) }

// IntegerResult is a decoded U256 return value.
type IntegerResult struct {
	Value *big.Int
}

// Render prints the value in decimal.
func (r IntegerResult) Render() string { return r.Value.String() }

// ReceiptResult is a confirmed write transaction.
type ReceiptResult struct {
	Hash          common.Hash
	BlockNumber   uint64
	Confirmations uint64
}

// Render prints the transaction hash.
func (r ReceiptResult) Render() string { return r.Hash.Hex() }

// GasEstimateResult is a dry-run cost estimate.
type GasEstimateResult struct {
	Gas            uint64
	GasPrice       *big.Int // wei per gas unit
	GasPriceNative float64
	TotalNative    float64
	Unit           string
}

// Render prints "<gas_units> <gas_price_native> <total_cost_native>".
func (r GasEstimateResult) Render() string {
	return fmt.Sprintf("%d %s %s", r.Gas, chain.FormatFloat(r.GasPriceNative), chain.FormatFloat(r.TotalNative))
}

// BalanceResult is a native balance.
type BalanceResult struct {
	Wei    *big.Int
	Native float64
	Unit   string
}

// Render prints "<wei> <native>".
func (r BalanceResult) Render() string {
	return fmt.Sprintf("%s %s", r.Wei, chain.FormatFloat(r.Native))
}

// UnsupportedResult reports a flag combination that is recognised but not
// implemented.
type UnsupportedResult struct {
	Reason string
}

// Render returns the reason.
func (r UnsupportedResult) Render() string { return r.Reason }
