package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aurora-lab/aurora-trading/internal/config"
	"github.com/aurora-lab/aurora-trading/internal/engine"
	"github.com/aurora-lab/aurora-trading/internal/event"
	"github.com/aurora-lab/aurora-trading/internal/exchange"
	"github.com/aurora-lab/aurora-trading/internal/filter"
	"github.com/aurora-lab/aurora-trading/internal/logger"
	"github.com/aurora-lab/aurora-trading/internal/metrics"
	"github.com/aurora-lab/aurora-trading/internal/risk"
	"github.com/aurora-lab/aurora-trading/internal/session"
	"github.com/aurora-lab/aurora-trading/internal/strategy"
)

func main() {
	configFlag := flag.String("config", "", "Path to YAML config file (required)")
	paperFlag := flag.Bool("paper", false, "Force paper trading regardless of config")
	paperBalanceFlag := flag.Float64("paper-balance", 10000, "Starting quote balance for paper trading")
	metricsAddrFlag := flag.String("metrics-addr", "", "Address to serve Prometheus metrics on (e.g. :9090)")
	enableFlag := flag.Bool("enable", true, "Enable auto-trading at startup")

	flag.Parse()

	if *configFlag == "" {
		fmt.Println("Error: --config flag is required")
		flag.Usage()
		os.Exit(1)
	}

	log, err := logger.NewLogger()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	loader, err := config.NewLoader(*configFlag)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	cfg := loader.Current()
	if *paperFlag {
		cfg.Engine.Paper = true
	}

	var ex exchange.Exchange
	if cfg.Engine.Paper {
		paper := exchange.NewPaperExchange(*paperBalanceFlag)
		ex = paper
		log.Info("paper trading mode",
			zap.Float64("balance", *paperBalanceFlag),
			zap.String("symbol", cfg.Engine.Symbol))
	} else {
		ex = exchange.NewBinanceExchange(cfg.Exchange)
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.New(registry)

	if *metricsAddrFlag != "" {
		go serveMetrics(*metricsAddrFlag, registry, log)
	}

	strategyID, err := strategy.ParseID(cfg.Engine.Strategy)
	if err != nil {
		log.Fatal("invalid strategy", zap.Error(err))
	}

	strat, err := strategy.New(strategyID, cfg.Strategy)
	if err != nil {
		log.Fatal("failed to build strategy", zap.Error(err))
	}

	sink := event.NewAsyncSink(event.NewLogSink(log), cfg.Engine.EventBuffer, log)
	defer sink.Close()

	controller, err := engine.NewController(cfg.Engine, engine.Deps{
		Market:   ex,
		Account:  ex,
		Executor: exchange.NewExecutor(ex, cfg.Executor, log),
		Strategy: strat,
		Filter:   filter.NewRSIFilter(cfg.Filter, ex, log),
		Sessions: session.NewManager(cfg.Sessions, cfg.Box, log),
		Gate:     risk.NewGate(cfg.Risk, log),
		Sink:     sink,
		Metrics:  engineMetrics,
		Logger:   log,
	})
	if err != nil {
		log.Fatal("failed to create controller", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigChan {
			if sig == syscall.SIGHUP {
				// Reload keeps the last good config on failure
				reloaded, err := loader.Reload()
				if err != nil {
					log.Error("config reload failed", zap.Error(err))

					continue
				}

				log.Info("config reloaded",
					zap.String("symbol", reloaded.Engine.Symbol),
					zap.String("strategy", reloaded.Engine.Strategy))

				continue
			}

			log.Info("received interrupt, shutting down")
			cancel()

			return
		}
	}()

	if *enableFlag {
		if err := controller.Enable(ctx); err != nil {
			log.Fatal("auto-trading could not be enabled", zap.Error(err))
		}
	}

	log.Info("trading bot started",
		zap.String("user", cfg.Engine.UserID),
		zap.String("symbol", cfg.Engine.Symbol),
		zap.String("strategy", cfg.Engine.Strategy),
		zap.Duration("poll_interval", cfg.Engine.PollInterval))

	controller.Run(ctx)

	status := controller.Status()
	log.Info("trading bot stopped",
		zap.Int("total_trades", status.TotalTrades),
		zap.Int("daily_trades", status.DailyTrades))
}

func serveMetrics(addr string, registry *prometheus.Registry, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("serving metrics", zap.String("addr", addr))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server failed", zap.Error(err))
	}
}
