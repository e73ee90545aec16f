package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrTransport wraps every failure of the underlying JSON-RPC round trip.
	ErrTransport = errors.New("rpc transport error")
	// ErrReverted marks an eth_call or eth_estimateGas the node reported as
	// reverted.
	ErrReverted = errors.New("execution reverted")
)

// Client is a thin JSON-RPC client for one EVM endpoint. It wraps
// go-ethereum's ethclient and classifies its errors.
type Client struct {
	url string
	eth *ethclient.Client
}

// Dial connects to the endpoint at url.
func Dial(ctx context.Context, url string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrTransport, url, err)
	}
	return &Client{url: url, eth: eth}, nil
}

// URL returns the endpoint this client talks to.
func (c *Client) URL() string { return c.url }

// Close releases the underlying connection.
func (c *Client) Close() { c.eth.Close() }

// CodeAt returns the bytecode at address. Empty code means an EOA.
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	code, err := c.eth.CodeAt(ctx, address, nil)
	return code, wrapRPCError("eth_getCode", err)
}

// BalanceAt returns the native balance of address in wei.
func (c *Client) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	bal, err := c.eth.BalanceAt(ctx, address, nil)
	return bal, wrapRPCError("eth_getBalance", err)
}

// SuggestGasPrice returns the node's current gas price in wei.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	gp, err := c.eth.SuggestGasPrice(ctx)
	return gp, wrapRPCError("eth_gasPrice", err)
}

// EstimateGas estimates the gas a message would consume.
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.eth.EstimateGas(ctx, msg)
	return gas, wrapRPCError("eth_estimateGas", err)
}

// CallContract executes a read-only call against the latest block.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, msg, nil)
	return out, wrapRPCError("eth_call", err)
}

// PendingNonceAt returns the next nonce for address including pending txs.
func (c *Client) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	n, err := c.eth.PendingNonceAt(ctx, address)
	return n, wrapRPCError("eth_getTransactionCount", err)
}

// ChainID returns the chain ID reported by the node.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	return id, wrapRPCError("eth_chainId", err)
}

// SendTransaction broadcasts a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return wrapRPCError("eth_sendRawTransaction", c.eth.SendTransaction(ctx, tx))
}

// TransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	r, err := c.eth.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	return r, wrapRPCError("eth_getTransactionReceipt", err)
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	return n, wrapRPCError("eth_blockNumber", err)
}

// Ping measures the round trip of eth_blockNumber against the endpoint.
func (c *Client) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

// wrapRPCError tags err with ErrReverted when the node rejected execution
// and with ErrTransport otherwise.
func wrapRPCError(method string, err error) error {
	if err == nil {
		return nil
	}
	if isRevert(err) {
		return fmt.Errorf("%s: %w: %s", method, ErrReverted, RevertReason(err))
	}
	return fmt.Errorf("%s: %w: %v", method, ErrTransport, err)
}

func isRevert(err error) bool {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "revert")
}

// RevertReason tries to pull the revert reason out of an RPC error message.
func RevertReason(err error) string {
	msg := err.Error()
	// Common pattern: "execution reverted: <reason>"
	if idx := strings.Index(msg, "execution reverted:"); idx >= 0 {
		return strings.TrimSpace(msg[idx+len("execution reverted:"):])
	}
	if idx := strings.Index(msg, "revert"); idx >= 0 {
		return strings.TrimSpace(msg[idx:])
	}
	return msg
}
