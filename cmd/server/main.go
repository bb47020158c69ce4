// Command server runs the execution core as a long-lived process: it
// wires the audit logger, kill-switch, risk gate, mean-reversion
// strategy, and execution engine behind the admin HTTP surface, all
// under go.uber.org/fx lifecycle management (SPEC_FULL.md §11, grounded
// on the teacher's cmd/main.go + internal/gateway/server.go wiring).
// There is no concrete Feeder or Gateway here — those are external
// collaborators referenced only by interface (spec.md §1), so this
// binary is runnable but idle until one is plugged in.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/abdoElHodaky/hftcore/internal/admin"
	"github.com/abdoElHodaky/hftcore/internal/auditlog"
	"github.com/abdoElHodaky/hftcore/internal/contracts"
	"github.com/abdoElHodaky/hftcore/internal/engine"
	"github.com/abdoElHodaky/hftcore/internal/fixedpoint"
	"github.com/abdoElHodaky/hftcore/internal/killswitch"
	"github.com/abdoElHodaky/hftcore/internal/obsmetrics"
	"github.com/abdoElHodaky/hftcore/internal/risk"
	"github.com/abdoElHodaky/hftcore/internal/strategy"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// serverConfig is the flag-parsed process configuration. Like the
// benchmark binary, this repository carries no file-based config loader
// (spec.md §1 places "configuration loading" out of scope); flags are
// the entire surface, per the teacher's own cmd/ entrypoints.
type serverConfig struct {
	adminAddr         string
	targetSymbol      uint
	threshold         float64
	maxOrderQty       float64
	maxPriceDeviation float64
	maxOrdersPerSec   float64
	auditLogPath      string
	latencyBudget     time.Duration
}

func parseFlags(args []string) (serverConfig, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	adminAddr := fs.String("admin-addr", ":8080", "bind address for the admin HTTP surface")
	targetSymbol := fs.Uint("target-symbol", 1, "symbol id the mean-reversion strategy watches")
	threshold := fs.Float64("threshold", 0.5, "mean-reversion deviation threshold, in price units")
	maxOrderQty := fs.Float64("max-order-qty", 1.0, "risk gate quantity cap")
	maxPriceDeviation := fs.Float64("max-price-deviation", 0.5, "risk gate price-deviation band, in price units")
	maxOrdersPerSec := fs.Float64("max-orders-per-sec", 100, "risk gate token-bucket rate limit")
	auditLogPath := fs.String("audit-log", "audit.log", "path to the asynchronous audit log file")
	latencyBudget := fs.Duration("latency-budget", 0, "WARN-log OnTrade calls exceeding this duration (0 disables)")
	if err := fs.Parse(args); err != nil {
		return serverConfig{}, err
	}
	return serverConfig{
		adminAddr:         *adminAddr,
		targetSymbol:      *targetSymbol,
		threshold:         *threshold,
		maxOrderQty:       *maxOrderQty,
		maxPriceDeviation: *maxPriceDeviation,
		maxOrdersPerSec:   *maxOrdersPerSec,
		auditLogPath:      *auditLogPath,
		latencyBudget:     *latencyBudget,
	}, nil
}

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func newKillSwitch() *killswitch.Switch {
	return killswitch.New()
}

func newAuditLogger(cfg serverConfig, lc fx.Lifecycle) (*auditlog.Logger, error) {
	l, err := auditlog.Open(cfg.auditLogPath)
	if err != nil {
		return nil, fmt.Errorf("server: open audit log: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			l.Stop()
			return nil
		},
	})
	return l, nil
}

func newStrategy(cfg serverConfig) (*strategy.MeanReversion, error) {
	return strategy.New(fixedpoint.SymbolId(cfg.targetSymbol), cfg.threshold)
}

// noopGateway is a last-resort stand-in so the process is constructible
// without a concrete Gateway wired in; every call logs and returns an
// error, which exercises the engine's gobreaker auto-halt path rather
// than silently pretending to trade.
type noopGateway struct {
	logger *zap.Logger
}

func (g *noopGateway) SendOrder(cmd contracts.OrderCommand) error {
	g.logger.Warn("no concrete gateway configured, dropping order",
		zap.Uint64("order_id", uint64(cmd.OrderId)))
	return fmt.Errorf("server: no gateway configured")
}

func (g *noopGateway) CancelOrder(fixedpoint.OrderId, fixedpoint.SymbolId) error {
	return fmt.Errorf("server: no gateway configured")
}

func newGateway(logger *zap.Logger) contracts.Gateway {
	return &noopGateway{logger: logger}
}

func newEngine(
	cfg serverConfig,
	strat *strategy.MeanReversion,
	gw contracts.Gateway,
	ks *killswitch.Switch,
	audit *auditlog.Logger,
) (*engine.Engine[*strategy.MeanReversion], error) {
	return engine.New(strat, gw, ks, audit, engine.Config{
		RiskConfig: risk.Config{
			MaxOrderQty:       fixedpoint.QuantityFromFloat(cfg.maxOrderQty),
			MaxPriceDeviation: fixedpoint.PriceFromFloat(cfg.maxPriceDeviation),
			MaxOrdersPerSec:   cfg.maxOrdersPerSec,
		},
		LatencyBudget: cfg.latencyBudget,
	})
}

func newAdminServer(cfg serverConfig, ks *killswitch.Switch, logger *zap.Logger, lc fx.Lifecycle) *admin.Server {
	s := admin.New(admin.Config{Address: cfg.adminAddr}, ks, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
	return s
}

// statsPoller periodically mirrors the engine's counters and the
// kill-switch state onto the Prometheus collector, off the engine's own
// hot path (SPEC_FULL.md §11).
func statsPoller(
	eng *engine.Engine[*strategy.MeanReversion],
	audit *auditlog.Logger,
	ks *killswitch.Switch,
	collector *obsmetrics.Collector,
	lc fx.Lifecycle,
) {
	stop := make(chan struct{})
	var lastLatencyCount int64
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			obsmetrics.StartPeriodicPoll(time.Second, stop, func() {
				s := eng.GetStats()
				collector.ObserveSnapshot(obsmetrics.EngineStats{
					SignalsConsidered: s.SignalsConsidered,
					OrdersSent:        s.OrdersSent,
					RiskRejects:       s.RiskRejects,
				}, audit.Dropped(), ks.Armed())

				if h := eng.Histogram(); h.Count() > lastLatencyCount {
					collector.ObserveLatencySample(h.Mean())
					lastLatencyCount = h.Count()
				}
			})
			return nil
		},
		OnStop: func(context.Context) error {
			close(stop)
			return nil
		},
	})
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newKillSwitch,
			newAuditLogger,
			newStrategy,
			newGateway,
			newEngine,
			obsmetrics.NewCollector,
			newAdminServer,
		),
		fx.Invoke(statsPoller),
		fx.Invoke(func(*admin.Server) {}),
	)
	app.Run()
}
