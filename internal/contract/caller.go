package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Mohsinsiddi/crunner/internal/chain"
	"github.com/Mohsinsiddi/crunner/internal/params"
)

// ErrContract marks a method invocation the contract (or its ABI) rejected:
// unknown method, argument mismatch, revert, undecodable result or a
// receipt with failed status.
var ErrContract = errors.New("contract error")

// Backend is the subset of chain.Client the contract layer needs.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Caller calls read-only contract functions and estimates gas.
type Caller struct {
	backend Backend
	abi     abi.ABI
}

// NewCaller creates a Caller over an already parsed ABI.
func NewCaller(backend Backend, contractABI abi.ABI) *Caller {
	return &Caller{backend: backend, abi: contractABI}
}

// Pack builds calldata: 4-byte selector followed by the encoded args.
func (c *Caller) Pack(method string, args ...interface{}) ([]byte, error) {
	return packCall(c.abi, method, args)
}

// Call invokes method on to with eth_call and decodes the first output as ret.
func (c *Caller) Call(ctx context.Context, to common.Address, method string, ret ReturnType, args ...interface{}) (Output, error) {
	calldata, err := c.Pack(method, args...)
	if err != nil {
		return Output{}, err
	}
	log.Debug("Calling contract", "to", to, "method", method, "calldata", len(calldata))

	raw, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: calldata})
	if err != nil {
		return Output{}, wrapCallError(method, err)
	}

	values, err := c.abi.Unpack(method, raw)
	if err != nil {
		return Output{}, fmt.Errorf("%w: decoding %s result: %v", ErrContract, method, err)
	}
	out, err := decodeAs(ret, values)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %s: %v", ErrContract, method, err)
	}
	return out, nil
}

// EstimateGas estimates the gas from would spend calling method on to.
func (c *Caller) EstimateGas(ctx context.Context, from, to common.Address, method string, args ...interface{}) (uint64, error) {
	calldata, err := c.Pack(method, args...)
	if err != nil {
		return 0, err
	}
	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: calldata})
	if err != nil {
		return 0, wrapCallError(method, err)
	}
	return gas, nil
}

func packCall(contractABI abi.ABI, method string, args []interface{}) ([]byte, error) {
	m, ok := contractABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: method %q not found in ABI (available: %s)",
			ErrContract, method, strings.Join(MethodNames(contractABI), ", "))
	}
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("%w: %s expects %d parameter(s), got %d",
			ErrContract, m.Sig, len(m.Inputs), len(args))
	}
	args, err := fitIntegers(m, args)
	if err != nil {
		return nil, err
	}
	calldata, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: parameters do not match %s: %v", ErrContract, m.Sig, err)
	}
	return calldata, nil
}

// fitIntegers range-checks *big.Int arguments against the width of their
// integer input and narrows them to the Go type the packer requires for
// widths of 64 bits or less.
func fitIntegers(m abi.Method, args []interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(args))
	for i, arg := range args {
		out[i] = arg
		n, ok := arg.(*big.Int)
		if !ok {
			continue
		}
		typ := m.Inputs[i].Type
		switch typ.T {
		case abi.UintTy:
			if n.Sign() < 0 || n.BitLen() > typ.Size {
				return nil, intRangeError(m, i, n, typ)
			}
			if typ.Size <= 64 {
				out[i] = abi.ConvertType(n.Uint64(), reflect.Zero(typ.GetType()).Interface())
			}
		case abi.IntTy:
			limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Size-1))
			if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
				return nil, intRangeError(m, i, n, typ)
			}
			if typ.Size <= 64 {
				out[i] = abi.ConvertType(n.Int64(), reflect.Zero(typ.GetType()).Interface())
			}
		}
	}
	return out, nil
}

func intRangeError(m abi.Method, i int, n *big.Int, typ abi.Type) error {
	return fmt.Errorf("%w: %w: parameter #%d of %s: %s does not fit in %s",
		ErrContract, params.ErrEncoding, i, m.Sig, n, typ)
}

// wrapCallError adds the method name. Node-side reverts become ErrContract;
// transport failures keep their chain.ErrTransport identity.
func wrapCallError(method string, err error) error {
	if errors.Is(err, chain.ErrReverted) {
		return fmt.Errorf("%w: %s: %w", ErrContract, method, err)
	}
	return fmt.Errorf("%s: %w", method, err)
}
