// Package params infers the on-chain type of textual method parameters and
// encodes them into values the ABI packer accepts.
package params

import (
	"regexp"
	"strings"
)

// Kind is the inferred type of a raw parameter string.
type Kind int

const (
	KindText Kind = iota
	KindAddress
	KindHexInteger
	KindDecimalInteger
)

// String returns the label printed by the parameter-type diagnostics.
func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "Address"
	case KindHexInteger:
		return "U256 (hex)"
	case KindDecimalInteger:
		return "U256 (decimal)"
	default:
		return "String"
	}
}

type rule struct {
	pattern *regexp.Regexp
	kind    Kind
}

// rules are evaluated top to bottom against the lower-cased input; the first
// match wins. A 40-digit hex string is always an address, even with 0x.
// The decimal pattern requires a non-zero leading digit, so "0" is Text.
var rules = []rule{
	{regexp.MustCompile(`^(0x)?[0-9a-f]{40}$`), KindAddress},
	{regexp.MustCompile(`^0x[0-9a-f]+$`), KindHexInteger},
	{regexp.MustCompile(`^-?[1-9][0-9]*$`), KindDecimalInteger},
}

// Classify returns the kind of s. It never fails: anything that is not an
// address or an integer is Text.
func Classify(s string) Kind {
	lower := strings.ToLower(s)
	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			return r.kind
		}
	}
	return KindText
}

// IsAddress reports whether s is an optionally 0x-prefixed 40 hex digit
// address.
func IsAddress(s string) bool {
	return Classify(s) == KindAddress
}
