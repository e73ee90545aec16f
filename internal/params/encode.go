package params

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// ErrEncoding is returned when a parameter cannot be converted to its
// inferred on-chain type.
var ErrEncoding = errors.New("parameter encoding failed")

// Value is a classified and encoded parameter. Exactly one of the typed
// fields is meaningful, selected by Kind.
type Value struct {
	Raw     string
	Kind    Kind
	Address common.Address
	Int     *uint256.Int
	Text    string
}

// ABI returns the Go value the go-ethereum ABI packer expects for the
// parameter: common.Address, *big.Int or string.
func (v Value) ABI() interface{} {
	switch v.Kind {
	case KindAddress:
		return v.Address
	case KindHexInteger, KindDecimalInteger:
		return v.Int.ToBig()
	default:
		return v.Text
	}
}

// Encode classifies raw and converts it to its typed value.
func Encode(raw string) (Value, error) {
	kind := Classify(raw)
	v := Value{Raw: raw, Kind: kind}

	switch kind {
	case KindAddress:
		addr, err := decodeAddress(raw)
		if err != nil {
			return Value{}, err
		}
		v.Address = addr

	case KindHexInteger:
		n, err := parseUint256(trimHexPrefix(raw), 16)
		if err != nil {
			return Value{}, err
		}
		v.Int = n

	case KindDecimalInteger:
		if strings.HasPrefix(raw, "-") {
			return Value{}, fmt.Errorf("%w: %q is negative and cannot be encoded as uint256", ErrEncoding, raw)
		}
		n, err := parseUint256(raw, 10)
		if err != nil {
			return Value{}, err
		}
		v.Int = n

	default:
		if raw == "0" {
			log.Warn("Parameter \"0\" is passed as a string, use 0x0 for a numeric zero")
		}
		v.Text = raw
	}
	return v, nil
}

// EncodeAll encodes every parameter in order. The error names the position
// and text of the first parameter that fails.
func EncodeAll(raws []string) ([]Value, error) {
	out := make([]Value, 0, len(raws))
	for i, raw := range raws {
		v, err := Encode(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter #%d (%q): %w", i, raw, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ABIArgs converts encoded values into the argument list for abi.Pack.
func ABIArgs(values []Value) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v.ABI()
	}
	return args
}

// ParseAddress decodes an address string that must match the address rule.
func ParseAddress(s string) (common.Address, error) {
	if !IsAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q is not a 40 hex digit address", ErrEncoding, s)
	}
	return decodeAddress(s)
}

func decodeAddress(s string) (common.Address, error) {
	b, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: decoding address %q: %v", ErrEncoding, s, err)
	}
	if len(b) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: address %q has %d bytes, want %d", ErrEncoding, s, len(b), common.AddressLength)
	}
	return common.BytesToAddress(b), nil
}

func parseUint256(digits string, base int) (*uint256.Int, error) {
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a base-%d integer", ErrEncoding, digits, base)
	}
	u, overflow := uint256.FromBig(n)
	if overflow || n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q does not fit in 256 bits", ErrEncoding, digits)
	}
	return u, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
