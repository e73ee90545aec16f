package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Mohsinsiddi/crunner/internal/chain"
	"github.com/Mohsinsiddi/crunner/internal/config"
	"github.com/Mohsinsiddi/crunner/internal/contract"
	"github.com/Mohsinsiddi/crunner/internal/dispatch"
	"github.com/Mohsinsiddi/crunner/internal/params"
	"github.com/Mohsinsiddi/crunner/internal/rpc"
	"github.com/Mohsinsiddi/crunner/internal/ui"
	"github.com/Mohsinsiddi/crunner/internal/wallet"
)

// newBackend connects to the chosen endpoint. Tests replace it with a fake.
var newBackend = func(ctx context.Context, url string) (dispatch.Backend, func(), error) {
	c, err := chain.Dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

func runInvoke(cmd *cobra.Command, opts *options) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	setupLogging(stderr, opts.verbose)

	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("%w: loading config: %w", dispatch.ErrConfiguration, err)
	}

	reg := chain.NewRegistry()
	target, err := reg.GetByName(opts.chain)
	if err != nil {
		return fmt.Errorf("%w: %w (supported: %s)", dispatch.ErrConfiguration, err, strings.Join(reg.Names(), ", "))
	}

	confirmations := opts.confirmations
	if !cmd.Flags().Changed("block-confirmations") {
		confirmations = cfg.BlockConfirmations
	}

	var contractABI abi.ABI
	if !opts.rpcETH {
		if opts.abiPath == "" {
			return fmt.Errorf("%w: --abi-filepath is required unless --rpc-eth is set", dispatch.ErrConfiguration)
		}
		contractABI, err = contract.LoadABI(opts.abiPath)
		if err != nil {
			return fmt.Errorf("%w: %w", dispatch.ErrConfiguration, err)
		}
	}

	d := &dispatch.Dispatcher{
		ABI:          contractABI,
		Target:       target,
		PollInterval: cfg.PollInterval,
		LoadSigner:   func() (contract.TxSigner, error) { return loadSigner(cfg) },
	}
	if opts.printParamTypes {
		d.OnParams = func(vs []params.Value) {
			fmt.Fprint(stderr, ui.ParamTypesTable(paramTypes(vs)))
		}
	}

	plan, err := d.Plan(dispatch.Request{
		Address:       opts.address,
		Method:        opts.fnName,
		Params:        opts.params,
		ReturnType:    opts.fnRetType,
		Setter:        opts.ensureSetter,
		DryRun:        opts.dryRun,
		RawRPC:        opts.rpcETH,
		EstimateFrom:  opts.estimateFrom,
		Confirmations: confirmations,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoint, err := resolveEndpoint(ctx, cfg, target, opts.rpcURL)
	if err != nil {
		return err
	}
	backend, closeFn, err := newBackend(ctx, endpoint)
	if err != nil {
		return err
	}
	defer closeFn()
	d.Backend = backend

	if opts.verbose {
		fmt.Fprintln(stderr, ui.KeyValueBlock("crunner", [][2]string{
			{"Chain", fmt.Sprintf("%s (%d)", target.DisplayName, target.ChainID)},
			{"Unit", target.Unit},
			{"Endpoint", endpoint},
			{"Contract", plan.Address.Hex()},
			{"Function", plan.Method},
			{"Mode", plan.Mode.String()},
			{"Params", strconv.Itoa(len(plan.Args))},
		}))
	}

	tracker := ui.NewConfirmTracker(stderr, isTerminal(stderr))
	d.OnProgress = func(p contract.Progress) {
		tracker.Update(ui.ConfirmUpdate{
			Hash:          p.Hash.Hex(),
			Mined:         p.Mined,
			Confirmations: p.Confirmations,
			Target:        p.Target,
		})
	}

	res, err := d.Execute(ctx, plan)
	tracker.Stop()
	if err != nil {
		return err
	}

	switch r := res.(type) {
	case dispatch.UnsupportedResult:
		fmt.Fprintln(stderr, ui.Warn(r.Render()))
		return nil
	case dispatch.ReceiptResult:
		fmt.Fprintln(stderr, ui.Success(fmt.Sprintf("mined in block %d, %d confirmations", r.BlockNumber, r.Confirmations)))
	}
	fmt.Fprintln(stdout, res.Render())
	return nil
}

// resolveEndpoint returns override when set. Otherwise the chain's
// custom RPCs and its static endpoint are benchmarked and the configured
// algorithm picks one.
func resolveEndpoint(ctx context.Context, cfg *config.Config, target chain.Target, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
	if err != nil {
		return "", fmt.Errorf("%w: %w", dispatch.ErrConfiguration, err)
	}

	// Custom RPCs first so failover prefers them.
	custom := cfg.GetRPCs(target.Name)
	urls := rpc.Candidates("", append(slices.Clone(custom), target.RPC))

	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	url, err := rpc.SelectBest(ctx, urls, algo, nil)
	if err != nil {
		return "", fmt.Errorf("%w: selecting endpoint for %s: %w", chain.ErrTransport, target.Name, err)
	}
	log.Debug("Selected RPC endpoint", "chain", target.Name, "url", url, "candidates", len(urls), "algorithm", algo)
	return url, nil
}

func loadSigner(cfg *config.Config) (contract.TxSigner, error) {
	s, err := wallet.LoadSigner(cfg.SetterSecretKey, cfg.KeyringRef, func() wallet.KeyRetriever {
		return wallet.DefaultKeystore()
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func paramTypes(vs []params.Value) []ui.ParamType {
	out := make([]ui.ParamType, len(vs))
	for i, v := range vs {
		out[i] = ui.ParamType{Raw: v.Raw, Type: v.Kind.String()}
	}
	return out
}

func setupLogging(w io.Writer, verbose bool) {
	level := log.LevelWarn
	if verbose {
		level = log.LevelDebug
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(w, level, isTerminal(w))))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
