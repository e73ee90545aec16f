// Package dispatch turns one command-line invocation into exactly one chain
// operation: a typed read, a signed write, a gas-estimate dry run or a raw
// balance query.
package dispatch

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Mohsinsiddi/crunner/internal/chain"
	"github.com/Mohsinsiddi/crunner/internal/contract"
	"github.com/Mohsinsiddi/crunner/internal/params"
)

// rawBalanceMethod is the only query raw RPC mode answers.
const rawBalanceMethod = "balance"

// Backend is everything the dispatcher needs from the chain.
type Backend interface {
	contract.Backend
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
}

// Request is one invocation as given on the command line.
type Request struct {
	Address       string
	Method        string
	Params        []string
	ReturnType    string // "String", "U256" or empty
	Setter        bool
	DryRun        bool
	RawRPC        bool
	EstimateFrom  string
	Confirmations uint64
}

// Plan is a validated Request. Building it never touches the network.
type Plan struct {
	Mode       Mode
	Address    common.Address
	Method     string
	Args       []params.Value
	ReturnType contract.ReturnType
	From       common.Address // gas-estimate sender
	Signer     contract.TxSigner

	Confirmations uint64
}

// Dispatcher runs requests against one chain target.
type Dispatcher struct {
	Backend Backend
	ABI     abi.ABI
	Target  chain.Target

	// LoadSigner resolves the signing key; called only for writes, before
	// any network access.
	LoadSigner func() (contract.TxSigner, error)

	PollInterval time.Duration
	// OnProgress receives confirmation progress while a write is pending.
	OnProgress func(contract.Progress)
	// OnParams, when set, receives the encoded parameters before dispatch.
	OnParams func([]params.Value)
}

// Plan validates req and selects its mode. Every configuration, validation
// and encoding error is detected here.
func (d *Dispatcher) Plan(req Request) (Plan, error) {
	var p Plan

	addr, err := params.ParseAddress(req.Address)
	if err != nil {
		return p, fmt.Errorf("%w: --address %q is not a 0x-prefixed 40 hex digit address", ErrValidation, req.Address)
	}
	p.Address = addr
	p.Method = req.Method
	p.Confirmations = req.Confirmations

	p.ReturnType, err = contract.ParseReturnType(req.ReturnType)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	p.Mode, err = SelectMode(Flags{
		Setter:          req.Setter,
		DryRun:          req.DryRun,
		RawRPC:          req.RawRPC,
		HasReturnType:   p.ReturnType != 0,
		HasEstimateFrom: strings.TrimSpace(req.EstimateFrom) != "",
	})
	if err != nil {
		return p, err
	}

	switch p.Mode {
	case ModeUnsupported:
		return p, nil
	case ModeRawBalance:
		if req.Method != rawBalanceMethod {
			return p, fmt.Errorf("%w: --rpc-eth only supports --fn-name %s, got %q", ErrConfiguration, rawBalanceMethod, req.Method)
		}
		if len(req.Params) > 0 {
			log.Warn("Parameters are ignored in raw RPC mode", "count", len(req.Params))
		}
		return p, nil
	case ModeGasEstimate:
		p.From, err = params.ParseAddress(req.EstimateFrom)
		if err != nil {
			return p, fmt.Errorf("%w: --estimate-gas-from-addr %q is not a 40 hex digit address", ErrValidation, req.EstimateFrom)
		}
	}

	p.Args, err = params.EncodeAll(req.Params)
	if err != nil {
		return p, err
	}
	if d.OnParams != nil {
		d.OnParams(p.Args)
	}

	if p.Mode == ModeWrite {
		if d.LoadSigner == nil {
			return p, fmt.Errorf("%w: no signing key source configured", ErrConfiguration)
		}
		p.Signer, err = d.LoadSigner()
		if err != nil {
			return p, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}
	return p, nil
}

// Dispatch plans req and executes the plan.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	p, err := d.Plan(req)
	if err != nil {
		return nil, err
	}
	return d.Execute(ctx, p)
}

// Execute checks that the target is a contract, then runs the planned mode.
// The contract check precedes every mode, the unsupported one included.
func (d *Dispatcher) Execute(ctx context.Context, p Plan) (Result, error) {
	log.Debug("Dispatching", "mode", p.Mode, "address", p.Address, "method", p.Method, "params", len(p.Args), "chain", d.Target.Name)

	code, err := d.Backend.CodeAt(ctx, p.Address)
	if err != nil {
		return nil, fmt.Errorf("checking code at %s: %w", p.Address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotContract, p.Address.Hex())
	}

	switch p.Mode {
	case ModeUnsupported:
		return UnsupportedResult{Reason: "--ensure-setter combined with --rpc-eth is not supported yet"}, nil
	case ModeRawBalance:
		return d.rawBalance(ctx, p)
	case ModeGasEstimate:
		return d.estimate(ctx, p)
	case ModeWrite:
		return d.write(ctx, p)
	default:
		return d.read(ctx, p)
	}
}

func (d *Dispatcher) read(ctx context.Context, p Plan) (Result, error) {
	out, err := contract.NewCaller(d.Backend, d.ABI).Call(ctx, p.Address, p.Method, p.ReturnType, params.ABIArgs(p.Args)...)
	if err != nil {
		return nil, fmt.Errorf("read %s on %s: %w", p.Method, p.Address.Hex(), err)
	}
	if out.Type == contract.ReturnString {
		return TextResult{Value: out.Text}, nil
	}
	return IntegerResult{Value: out.Int}, nil
}

func (d *Dispatcher) estimate(ctx context.Context, p Plan) (Result, error) {
	gas, err := contract.NewCaller(d.Backend, d.ABI).EstimateGas(ctx, p.From, p.Address, p.Method, params.ABIArgs(p.Args)...)
	if err != nil {
		return nil, fmt.Errorf("estimate gas for %s on %s: %w", p.Method, p.Address.Hex(), err)
	}
	gasPrice, err := d.Backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch gas price: %w", err)
	}

	total := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	priceNative, err := chain.ToNative(gasPrice)
	if err != nil {
		return nil, fmt.Errorf("scaling gas price: %w", err)
	}
	totalNative, err := chain.ToNative(total)
	if err != nil {
		return nil, fmt.Errorf("scaling total cost: %w", err)
	}
	log.Debug("Estimated gas", "gas", gas, "gasPriceGwei", chain.WeiToGwei(gasPrice), "total", totalNative, "unit", d.Target.Unit)

	return GasEstimateResult{
		Gas:            gas,
		GasPrice:       gasPrice,
		GasPriceNative: priceNative,
		TotalNative:    totalNative,
		Unit:           d.Target.Unit,
	}, nil
}

func (d *Dispatcher) write(ctx context.Context, p Plan) (Result, error) {
	confirmations := p.Confirmations
	sender := contract.NewSender(d.Backend, d.ABI, p.Signer, d.Target.ChainIDBig())
	tx, err := sender.Send(ctx, p.Address, p.Method, params.ABIArgs(p.Args)...)
	if err != nil {
		return nil, fmt.Errorf("write %s on %s: %w", p.Method, p.Address.Hex(), err)
	}
	log.Info("Transaction sent", "hash", tx.Hash(), "from", sender.From(), "confirmations", confirmations)

	receipt, err := contract.WaitConfirmations(ctx, d.Backend, tx.Hash(), confirmations, d.PollInterval, d.OnProgress)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.Hash().Hex(), err)
	}
	return ReceiptResult{
		Hash:          tx.Hash(),
		BlockNumber:   receipt.BlockNumber.Uint64(),
		Confirmations: confirmations,
	}, nil
}

func (d *Dispatcher) rawBalance(ctx context.Context, p Plan) (Result, error) {
	wei, err := d.Backend.BalanceAt(ctx, p.Address)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", p.Address.Hex(), err)
	}
	native, err := chain.ToNative(wei)
	if err != nil {
		return nil, fmt.Errorf("scaling balance: %w", err)
	}
	return BalanceResult{Wei: wei, Native: native, Unit: d.Target.Unit}, nil
}
