package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/crunner/internal/chain"
	"github.com/Mohsinsiddi/crunner/internal/config"
	"github.com/Mohsinsiddi/crunner/internal/ui"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/crunner/cmd.Version=1.2.3" .
var Version = "0.1.0"

// options holds every flag of one invocation.
type options struct {
	address       string
	chain         string
	fnName        string
	rpcETH        bool
	fnRetType     string
	ensureSetter  bool
	params        []string
	dryRun        bool
	estimateFrom  string
	confirmations uint64
	abiPath       string

	cfgFile         string
	verbose         bool
	printParamTypes bool
	rpcURL          string
}

// newRootCmd builds a fresh root command. Tests get one per run so flag
// state never leaks between them.
func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "crunner",
		Short: "Run a smart contract function on an EVM chain",
		Long: `crunner invokes one function of a deployed smart contract on BSC,
Ethereum or Polygon and prints the result.

  Reads decode the first return value as String or U256.
  Writes are signed with CRUNNER_SETTER_SECRETKEY (or a keychain entry)
  and wait for --block-confirmations blocks.
  --dry-run-estimate-gas prints "<gas> <gas price> <total cost>" in the
  chain's native unit without sending anything.
  --rpc-eth --fn-name balance prints the address's native balance.
  --fn-ret-type is required unless --ensure-setter is set.

Parameters are typed by their shape: 0x + 40 hex digits is an address,
other 0x-prefixed hex and plain digits are 256-bit integers, anything
else is passed as a string.

Examples:
  crunner -c bsc -a 0xContract -f name -r String --abi-filepath Token.json
  crunner -c ethereum -a 0xContract -f approve --abi-filepath Token.json \
      --ensure-setter -p 0xSpender -p 1000
  crunner -c polygon -a 0xContract -f approve --abi-filepath Token.json \
      --ensure-setter --dry-run-estimate-gas --estimate-gas-from-addr 0xFrom \
      --params 0xSpender 1000
  crunner -c bsc -a 0xContract -f balance -r U256 --rpc-eth`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	f := cmd.Flags()
	params := newParamsFlag(f)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		// Trailing positional args extend the --params occurrence they follow.
		var err error
		if opts.params, err = params.merge(args); err != nil {
			return err
		}
		return runInvoke(cmd, opts)
	}

	f.StringVarP(&opts.address, "address", "a", "", "contract address (0x + 40 hex digits)")
	f.StringVarP(&opts.chain, "chain", "c", "", "target chain: "+chainsHelp())
	f.StringVarP(&opts.fnName, "fn-name", "f", "", "contract function to invoke")
	f.BoolVar(&opts.rpcETH, "rpc-eth", false, "answer --fn-name balance with a raw eth_getBalance")
	f.StringVarP(&opts.fnRetType, "fn-ret-type", "r", "", "return type of a read: String or U256")
	f.BoolVar(&opts.ensureSetter, "ensure-setter", false, "send a signed state-changing transaction")
	f.VarP(params, "params", "p", "function parameter (repeatable, trailing args are appended)")
	f.BoolVar(&opts.dryRun, "dry-run-estimate-gas", false, "estimate the cost of a write without sending it")
	f.StringVar(&opts.estimateFrom, "estimate-gas-from-addr", "", "sender address used for gas estimation")
	f.Uint64Var(&opts.confirmations, "block-confirmations", config.DefaultBlockConfirmations, "blocks to wait for after a write is mined")
	f.StringVar(&opts.abiPath, "abi-filepath", "", "ABI JSON array or Hardhat/Foundry artifact (required unless --rpc-eth)")
	f.StringVar(&opts.cfgFile, "config", "", "config file (default: ~/.crunner/config.yaml)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	f.BoolVar(&opts.printParamTypes, "print-param-types", false, "print the inferred type of every parameter")
	f.StringVar(&opts.rpcURL, "rpc-url", "", "JSON-RPC endpoint, bypasses endpoint selection")

	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("fn-name")
	cmd.MarkFlagsMutuallyExclusive("rpc-eth", "ensure-setter")
	cmd.MarkFlagsMutuallyExclusive("rpc-eth", "dry-run-estimate-gas")

	return cmd
}

// chainsHelp lists every supported chain with its native unit.
func chainsHelp() string {
	targets := chain.NewRegistry().All()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = fmt.Sprintf("%s (%s)", t.Name, t.Unit)
	}
	return strings.Join(names, ", ")
}

// Execute runs the root command and exits 1 on any error.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(strings.TrimSpace(err.Error())))
		os.Exit(1)
	}
}
