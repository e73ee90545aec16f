package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"
)

// ErrConversion marks a failed big-integer to float conversion. It signals a
// broken internal invariant, not bad user input.
var ErrConversion = errors.New("numeric conversion failed")

// NativeDecimals is the fixed exponent between the smallest unit (wei) and
// one unit of native currency.
const NativeDecimals = 18

var oneNative = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(NativeDecimals), nil))

// ToNative converts a 256-bit wei amount to native currency units as a
// float64. The result is lossy and meant for display only.
func ToNative(wei *big.Int) (float64, error) {
	if wei == nil {
		return 0, fmt.Errorf("%w: nil value", ErrConversion)
	}
	if wei.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative value %s", ErrConversion, wei)
	}
	u, overflow := uint256.FromBig(wei)
	if overflow {
		return 0, fmt.Errorf("%w: %s exceeds 256 bits", ErrConversion, wei)
	}

	// Round-trip through decimal text into an arbitrary-precision float.
	f, ok := new(big.Float).SetString(u.Dec())
	if !ok {
		return 0, fmt.Errorf("%w: cannot parse %s", ErrConversion, u.Dec())
	}
	out, _ := f.Quo(f, oneNative).Float64()
	return out, nil
}

// FormatFloat renders a scaled amount in its shortest exact decimal form,
// without an exponent.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WeiToGwei converts a Wei value to Gwei as float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetFloat64(1e9),
	).Float64()
	return f
}
