// Command benchmark drives the strategy's on_trade path with synthetic
// trade prices and reports latency percentiles (spec.md §6). It is the
// only place in this repository that samples latency around the
// strategy call directly; the engine's own production path instruments
// OnTrade end-to-end instead (internal/engine).
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/abdoElHodaky/hftcore/internal/clock"
	"github.com/abdoElHodaky/hftcore/internal/contracts"
	"github.com/abdoElHodaky/hftcore/internal/fixedpoint"
	"github.com/abdoElHodaky/hftcore/internal/latency"
	"github.com/abdoElHodaky/hftcore/internal/strategy"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// benchParams are the flag-parsed run parameters, matching spec.md §6's
// CLI surface exactly. Flag-based config (rather than viper/a config
// file) mirrors the teacher's own cmd/ entrypoints, none of which read a
// config file for their top-level flags.
type benchParams struct {
	iterations int
	warmup     int
	output     string
}

func parseFlags(args []string) (benchParams, error) {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	iterations := fs.Int("iterations", 100_000, "number of trades to feed through the strategy after warmup")
	warmup := fs.Int("warmup", 1_000, "number of untimed warmup trades")
	output := fs.String("output", "latency.json", "file to write the latency histogram export to")
	if err := fs.Parse(args); err != nil {
		return benchParams{}, err
	}
	return benchParams{iterations: *iterations, warmup: *warmup, output: *output}, nil
}

func newLogger() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// priceGenerator produces synthetic trade prices as a Gaussian random
// walk (no mean reversion). It is not the out-of-scope Ornstein-Uhlenbeck backtest driver
// (spec.md §1 excludes that); it exists only to put varied prices
// through the strategy under benchmark.
type priceGenerator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	price float64
}

func newPriceGenerator(seed int64, start float64) *priceGenerator {
	return &priceGenerator{rng: rand.New(rand.NewSource(seed)), price: start}
}

func (g *priceGenerator) next() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.price += g.rng.NormFloat64() * 0.05
	return g.price
}

// runBenchmark feeds params.warmup + params.iterations trades through a
// fresh strategy instance, timing only the post-warmup portion, and
// writes the resulting histogram export to params.output.
func runBenchmark(params benchParams, logger *zap.Logger) error {
	strat, err := strategy.New(1, 0.5)
	if err != nil {
		return fmt.Errorf("benchmark: construct strategy: %w", err)
	}

	hist := latency.New(latency.DefaultReservoirSize)
	gen := newPriceGenerator(1, 100.0)

	// ants.Pool generates the synthetic price stream concurrently (a
	// supplemented load generator, SPEC_FULL.md §11), but every generated
	// price is funneled through a single result channel so the strategy
	// itself is still driven by exactly one consumer goroutine, preserving
	// the SPSC contract the strategy and engine both assume.
	pool, err := ants.NewPool(4)
	if err != nil {
		return fmt.Errorf("benchmark: create worker pool: %w", err)
	}
	defer pool.Release()

	total := params.warmup + params.iterations
	prices := make(chan float64, 1024)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(prices)
		var inner sync.WaitGroup
		for i := 0; i < total; i++ {
			inner.Add(1)
			if err := pool.Submit(func() {
				defer inner.Done()
				prices <- gen.next()
			}); err != nil {
				inner.Done()
				prices <- gen.next()
			}
		}
		inner.Wait()
	}()

	i := 0
	for px := range prices {
		t := contracts.TradeUpdate{
			SymbolId: 1,
			Price:    fixedpoint.PriceFromFloat(px),
			Qty:      fixedpoint.QuantityFromFloat(1),
		}
		if i < params.warmup {
			strat.OnTrade(t)
			i++
			continue
		}
		start := clock.NowNanos()
		strat.OnTrade(t)
		elapsed := clock.NowNanos() - start
		hist.Record(int64(elapsed))
		i++
	}
	wg.Wait()

	data, err := hist.ExportJSON()
	if err != nil {
		return fmt.Errorf("benchmark: export histogram: %w", err)
	}
	if err := os.WriteFile(params.output, data, 0644); err != nil {
		return fmt.Errorf("benchmark: write %s: %w", params.output, err)
	}

	logger.Info("benchmark complete",
		zap.Int("iterations", params.iterations),
		zap.Int("warmup", params.warmup),
		zap.String("output", params.output),
		zap.Int64("count", hist.Count()),
		zap.Float64("p99_ns", hist.Percentile(99)),
	)
	return nil
}

func main() {
	params, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// fx.Invoke runs synchronously while the graph is built (spec.md §6's
	// benchmark is a one-shot CLI, not a long-running service, so there is
	// no lifecycle to start/stop here — that pattern is reserved for
	// cmd/server).
	var runErr error
	app := fx.New(
		fx.Provide(newLogger),
		fx.Supply(params),
		fx.Invoke(func(p benchParams, logger *zap.Logger) {
			runErr = runBenchmark(p, logger)
		}),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
