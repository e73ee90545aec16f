package contract

import (
	"fmt"
	"math/big"
	"strings"
)

// ReturnType is the declared shape of a read method's first output.
type ReturnType int

const (
	ReturnString ReturnType = iota + 1
	ReturnU256
)

func (r ReturnType) String() string {
	switch r {
	case ReturnString:
		return "String"
	case ReturnU256:
		return "U256"
	default:
		return "unknown"
	}
}

// ParseReturnType accepts "String" or "U256", case-insensitively.
// An empty string yields 0 and no error: no return type was declared.
func ParseReturnType(s string) (ReturnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "string":
		return ReturnString, nil
	case "u256":
		return ReturnU256, nil
	default:
		return 0, fmt.Errorf("unsupported return type %q (want String or U256)", s)
	}
}

// Output is a decoded read result.
type Output struct {
	Type ReturnType
	Text string
	Int  *big.Int
}

// decodeAs converts the first unpacked value into ret.
func decodeAs(ret ReturnType, values []interface{}) (Output, error) {
	if len(values) == 0 {
		return Output{}, fmt.Errorf("method returned no values")
	}
	v := values[0]
	switch ret {
	case ReturnString:
		s, ok := v.(string)
		if !ok {
			return Output{}, fmt.Errorf("cannot decode %T as String", v)
		}
		return Output{Type: ret, Text: s}, nil
	case ReturnU256:
		n, ok := toBigInt(v)
		if !ok {
			return Output{}, fmt.Errorf("cannot decode %T as U256", v)
		}
		if n.Sign() < 0 {
			return Output{}, fmt.Errorf("value %s is negative, not a U256", n)
		}
		return Output{Type: ret, Int: n}, nil
	default:
		return Output{}, fmt.Errorf("no return type declared")
	}
}

// toBigInt widens the integer kinds the ABI decoder produces.
func toBigInt(v interface{}) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return new(big.Int).Set(n), true
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	default:
		return nil, false
	}
}
