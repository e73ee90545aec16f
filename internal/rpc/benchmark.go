package rpc

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/crunner/internal/chain"
)

// probeTimeout bounds a single endpoint probe.
const probeTimeout = 5 * time.Second

// BenchmarkResult holds the result of a single endpoint benchmark.
type BenchmarkResult struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Prober measures one endpoint.
type Prober func(ctx context.Context, url string) (latency time.Duration, blockNum uint64, err error)

// PingEVM dials url and times an eth_blockNumber round trip.
func PingEVM(ctx context.Context, url string) (time.Duration, uint64, error) {
	c, err := chain.Dial(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	defer c.Close()
	return c.Ping(ctx)
}

// Benchmark probes all URLs in parallel and returns one result per URL, in
// input order. Probe failures are recorded in the result, never returned.
func Benchmark(ctx context.Context, urls []string, probe Prober) []BenchmarkResult {
	results := make([]BenchmarkResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)

	for i, url := range urls {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, probeTimeout)
			defer cancel()
			latency, block, err := probe(pctx, url)
			results[i] = BenchmarkResult{
				URL:         url,
				Latency:     latency,
				BlockNumber: block,
				Err:         err,
			}
			log.Debug("Probed RPC endpoint", "url", url, "latency", latency, "block", block, "err", err)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// ResultsToEndpoints converts benchmark results to picker Endpoints.
// All returned endpoints have Checked: true since they have been actively tested.
func ResultsToEndpoints(results []BenchmarkResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:         r.URL,
			Latency:     r.Latency,
			BlockNumber: r.BlockNumber,
			Healthy:     r.Err == nil,
			Checked:     true,
		})
	}
	return endpoints
}
