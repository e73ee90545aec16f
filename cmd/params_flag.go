package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/Mohsinsiddi/crunner/internal/dispatch"
)

// paramsFlag collects --params values and remembers how many positional
// args had been parsed when each value was seen, so trailing args can be
// merged back in command-line order.
type paramsFlag struct {
	fs     *pflag.FlagSet
	values []string
	before []int
}

func newParamsFlag(fs *pflag.FlagSet) *paramsFlag {
	return &paramsFlag{fs: fs}
}

func (p *paramsFlag) String() string { return "[" + strings.Join(p.values, ",") + "]" }

func (p *paramsFlag) Set(v string) error {
	p.values = append(p.values, v)
	p.before = append(p.before, len(p.fs.Args()))
	return nil
}

func (p *paramsFlag) Type() string { return "stringArray" }

// merge returns every parameter in the order it appeared: each positional
// arg belongs to the --params occurrence it follows. Positional args before
// the first --params are rejected.
func (p *paramsFlag) merge(args []string) ([]string, error) {
	if len(args) > 0 && (len(p.values) == 0 || p.before[0] > 0) {
		return nil, fmt.Errorf("%w: unexpected argument %q, parameters must follow --params", dispatch.ErrConfiguration, args[0])
	}
	out := make([]string, 0, len(p.values)+len(args))
	next := 0
	for i, v := range p.values {
		for ; next < p.before[i] && next < len(args); next++ {
			out = append(out, args[next])
		}
		out = append(out, v)
	}
	return append(out, args[next:]...), nil
}
