package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"applygate/internal/audit"
	"applygate/internal/evaluation"
	"applygate/internal/evaluation/handler"
	evalmetrics "applygate/internal/evaluation/metrics"
	"applygate/internal/platform/config"
	"applygate/internal/platform/httpserver"
	"applygate/internal/platform/logger"
	"applygate/internal/platform/metrics"
	"applygate/internal/provider"
	"applygate/internal/transform"
	httptransport "applygate/internal/transport/http"
	"applygate/pkg/platform/httputil"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "applygate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter, err := transform.ForVersion(transform.Version(cfg.SchemaVersion))
	if err != nil {
		return err
	}

	sink, closeSink, err := auditSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	m := metrics.New()
	providerClient := provider.NewClient(cfg.ProviderURL, provider.Credentials{
		Token:  cfg.ProviderToken,
		Secret: cfg.ProviderSecret,
	})
	service := evaluation.NewService(adapter, providerClient, log,
		evaluation.WithMetrics(evalmetrics.New(m.Registry())),
		evaluation.WithMasker(cfg.Masker()),
		evaluation.WithAudit(audit.NewPublisher(sink)),
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         log,
		Metrics:        m,
	}, handler.New(service, log, httputil.DefaultMaxBodyBytes))

	addr := cfg.ListenAddr(config.PortAvailable)
	srv := httpserver.New(addr, router)

	log.InfoContext(ctx, "starting applygate",
		"addr", addr,
		"provider_url", cfg.ProviderURL,
		"schema_version", adapter.Version(),
		"credentials_configured", cfg.ProviderToken != "" && cfg.ProviderSecret != "",
		"allowed_origins", cfg.AllowedOrigins(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("applygate stopped")
	return nil
}

func auditSink(ctx context.Context, cfg *config.Config, log *slog.Logger) (audit.Sink, func(), error) {
	if !cfg.AuditToKafka() {
		return audit.NewLogSink(log), func() {}, nil
	}
	sink, err := audit.NewKafkaSink(cfg.AuditKafkaBrokers, cfg.AuditKafkaTopic)
	if err != nil {
		return nil, nil, err
	}
	if err := sink.EnsureTopic(ctx); err != nil {
		sink.Close()
		return nil, nil, err
	}
	log.InfoContext(ctx, "audit events publishing to kafka",
		"brokers", cfg.AuditKafkaBrokers,
		"topic", sink.Topic(),
	)
	return sink, sink.Close, nil
}
