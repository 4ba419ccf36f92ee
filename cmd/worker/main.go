package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"muin/internal/adapter/repo"
	"muin/internal/entitlement"
	"muin/internal/infra"
	"muin/internal/metrics"
)

// expirySweeper deactivates entitlements whose end date has passed so the
// stored rows match what Ensure would compute on the next request.
type expirySweeper struct {
	sweep    func(ctx context.Context) (int, error)
	interval time.Duration
	logger   infra.Logger
	metrics  metrics.Recorder
}

func main() {
	var (
		once        bool
		metricsAddr string
	)
	flag.BoolVar(&once, "once", false, "run a single sweep and exit")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address (disabled when empty)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	manager := entitlement.NewManager(repo.NewEntitlementRepository(runner), cfg.TrialDays, cfg.PaidDays, logger)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("worker: metrics server failed")
			}
		}()
		defer srv.Close()
	}

	w := &expirySweeper{
		sweep:    manager.SweepExpired,
		interval: cfg.SweepInterval,
		logger:   logger,
		metrics:  collector,
	}
	if once {
		w.tick(ctx)
		return
	}
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// Run sweeps immediately and then on every interval until ctx is done.
func (w *expirySweeper) Run(ctx context.Context) error {
	interval := w.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	w.logger.Info().Dur("interval", interval).Msg("worker: started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		w.tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *expirySweeper) tick(ctx context.Context) {
	n, err := w.sweep(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("worker: expiry sweep failed")
		return
	}
	w.metrics.RecordExpiredSwept(n)
	if n > 0 {
		w.logger.Info().Int("deactivated", n).Msg("worker: expired entitlements deactivated")
	}
}
