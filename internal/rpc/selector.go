package rpc

import (
	"context"
	"slices"
)

// Candidates returns primary followed by extra, dropping blanks and
// duplicates while keeping order.
func Candidates(primary string, extra []string) []string {
	out := make([]string, 0, len(extra)+1)
	for _, u := range append([]string{primary}, extra...) {
		if u == "" || slices.Contains(out, u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// SelectBest picks the best RPC URL from urls using algo. A single URL is
// returned as-is without probing. probe defaults to PingEVM.
//
// Returns ErrNoHealthyRPC when the list is empty or all endpoints fail.
func SelectBest(ctx context.Context, urls []string, algo Algorithm, probe Prober) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyRPC
	}
	if len(urls) == 1 {
		return urls[0], nil
	}
	if probe == nil {
		probe = PingEVM
	}

	endpoints := ResultsToEndpoints(Benchmark(ctx, urls, probe))
	winner, err := Pick(algo, endpoints)
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
