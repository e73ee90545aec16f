package dispatch

import "fmt"

// Mode is the execution path chosen for one invocation.
type Mode int

const (
	ModeRead Mode = iota + 1
	ModeWrite
	ModeGasEstimate
	ModeRawBalance
	// ModeUnsupported is the setter + raw RPC combination. It is reported,
	// not treated as an error.
	ModeUnsupported
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeGasEstimate:
		return "gas-estimate"
	case ModeRawBalance:
		return "raw-balance"
	case ModeUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Flags are the inputs of the mode decision.
type Flags struct {
	Setter          bool
	DryRun          bool
	RawRPC          bool
	HasReturnType   bool
	HasEstimateFrom bool
}

// SelectMode picks exactly one mode. Rules are evaluated in order and the
// first match wins:
//
//  1. DryRun          → ModeGasEstimate (needs Setter and an estimate-from address)
//  2. Setter ∧ RawRPC → ModeUnsupported
//  3. Setter          → ModeWrite
//  4. RawRPC          → ModeRawBalance (needs a return type)
//  5. otherwise       → ModeRead (needs a return type)
//
// The return type is required whenever no setter is involved, even though
// a raw balance always prints "<wei> <native>".
func SelectMode(f Flags) (Mode, error) {
	switch {
	case f.DryRun:
		if !f.Setter {
			return 0, fmt.Errorf("%w: --dry-run-estimate-gas requires --ensure-setter", ErrConfiguration)
		}
		if !f.HasEstimateFrom {
			return 0, fmt.Errorf("%w: --dry-run-estimate-gas requires --estimate-gas-from-addr", ErrConfiguration)
		}
		return ModeGasEstimate, nil
	case f.Setter && f.RawRPC:
		return ModeUnsupported, nil
	case f.Setter:
		return ModeWrite, nil
	case !f.HasReturnType:
		return 0, fmt.Errorf("%w: --fn-ret-type is required unless --ensure-setter is set (String or U256)", ErrConfiguration)
	case f.RawRPC:
		return ModeRawBalance, nil
	default:
		return ModeRead, nil
	}
}
