package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// defaultABIJSON covers the ERC-20 methods every invocation can reach
// without an ABI file.
//
// Function selectors:
//
//	name()              → 0x06fdde03
//	decimals()          → 0x313ce567
//	allowance(a,a)      → 0xdd62ed3e
//	approve(a,u256)     → 0x095ea7b3
const defaultABIJSON = `[
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"internalType":"string","name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"internalType":"uint8","name":"","type":"uint8"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"address","name":"spender","type":"address"}],"outputs":[{"internalType":"uint256","name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"internalType":"address","name":"spender","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"outputs":[{"internalType":"bool","name":"","type":"bool"}]}
]`

// DefaultABI returns a fresh copy of the built-in ABI.
func DefaultABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(defaultABIJSON))
	if err != nil {
		panic(fmt.Sprintf("built-in ABI is invalid: %v", err))
	}
	return parsed
}

// LoadFromArtifact loads an ABI from a local file that is either:
//   - a raw ABI JSON array: [{"type":"function",...}, ...]
//   - a Hardhat/Foundry artifact: {"abi":[...],"bytecode":"0x...",...}
//
// Both formats are detected automatically.
func LoadFromArtifact(path string) (abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("cannot read ABI file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return abi.ABI{}, fmt.Errorf("ABI file is empty: %s", path)
	}

	if data[0] == '{' {
		var artifact struct {
			ABI json.RawMessage `json:"abi"`
		}
		if err := json.Unmarshal(data, &artifact); err != nil {
			return abi.ABI{}, fmt.Errorf("invalid artifact JSON in %s: %w", path, err)
		}
		if len(artifact.ABI) == 0 || artifact.ABI[0] != '[' {
			return abi.ABI{}, fmt.Errorf("file is a JSON object, not an ABI array; a Hardhat/Foundry artifact must have an \"abi\" key: %s", path)
		}
		data = artifact.ABI
	}

	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("invalid ABI JSON in %s: %w", path, err)
	}
	if len(parsed.Methods) == 0 {
		return abi.ABI{}, fmt.Errorf("ABI has no functions: %s", path)
	}
	return parsed, nil
}

// Merge returns base with every method of overlay added. On a name clash the
// overlay method wins. Events and errors are merged the same way.
func Merge(base, overlay abi.ABI) abi.ABI {
	out := base
	out.Methods = make(map[string]abi.Method, len(base.Methods)+len(overlay.Methods))
	for name, m := range base.Methods {
		out.Methods[name] = m
	}
	for name, m := range overlay.Methods {
		out.Methods[name] = m
	}
	out.Events = make(map[string]abi.Event, len(base.Events)+len(overlay.Events))
	for name, e := range base.Events {
		out.Events[name] = e
	}
	for name, e := range overlay.Events {
		out.Events[name] = e
	}
	out.Errors = make(map[string]abi.Error, len(base.Errors)+len(overlay.Errors))
	for name, e := range base.Errors {
		out.Errors[name] = e
	}
	for name, e := range overlay.Errors {
		out.Errors[name] = e
	}
	return out
}

// LoadABI returns the built-in ABI merged with the methods found at path.
// An empty path yields the built-in ABI alone.
func LoadABI(path string) (abi.ABI, error) {
	base := DefaultABI()
	if path == "" {
		return base, nil
	}
	extra, err := LoadFromArtifact(path)
	if err != nil {
		return abi.ABI{}, err
	}
	return Merge(base, extra), nil
}

// MethodNames lists the methods of a in sorted order.
func MethodNames(a abi.ABI) []string {
	names := make([]string, 0, len(a.Methods))
	for name := range a.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
