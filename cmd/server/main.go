package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"mrzgate/internal/admin"
	docmetrics "mrzgate/internal/evidence/document/metrics"
	"mrzgate/internal/evidence/document/service"
	"mrzgate/internal/evidence/document/store"
	"mrzgate/internal/evidence/document/tracer"
	"mrzgate/internal/evidence/document/workers/cleanup"
	jwttoken "mrzgate/internal/jwt_token"
	"mrzgate/internal/platform/config"
	"mrzgate/internal/platform/database"
	"mrzgate/internal/platform/health"
	"mrzgate/internal/platform/logger"
	"mrzgate/internal/platform/metrics"
	httptransport "mrzgate/internal/transport/http"
	"mrzgate/migrations"
	"mrzgate/pkg/platform/audit"
	auditmetrics "mrzgate/pkg/platform/audit/metrics"
	"mrzgate/pkg/platform/audit/publisher"
	auditmemory "mrzgate/pkg/platform/audit/store/memory"
	auditpostgres "mrzgate/pkg/platform/audit/store/postgres"
	"mrzgate/pkg/platform/middleware/auth"
	"mrzgate/pkg/platform/middleware/metadata"
	"mrzgate/pkg/platform/middleware/request"
	"mrzgate/pkg/secrets"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	auditBufferSize = 1024
	shutdownTimeout = 10 * time.Second
)

// documentStore is what the server needs from either store backend.
type documentStore interface {
	service.Store
	cleanup.ExpiredStore
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing mrzgate",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"regulated_mode", cfg.RegulatedMode,
		"auth_required", cfg.AuthRequired,
		"database", cfg.DatabaseURL != "",
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	platformMetrics := metrics.New(reg)
	platformMetrics.SetBuildInfo(version, cfg.Environment)

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer provider shutdown failed", "error", err)
		}
	}()

	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return err
	}
	defer pool.Close()

	healthHandler := health.New(cfg.Environment,
		health.WithVersion(version),
		health.WithRegulatedMode(cfg.RegulatedMode),
	)

	var (
		docStore   documentStore
		auditStore audit.Store
	)
	if pool != nil {
		if err := migrations.Apply(ctx, pool.DB()); err != nil {
			return err
		}
		docStore = store.NewPostgresStore(pool.DB())
		auditStore = auditpostgres.New(pool.DB())
		healthHandler.RegisterCheck("database", pool.Health)
		reg.MustRegister(pool.Collector("mrzgate"))
		log.Info("using postgres stores")
	} else {
		docStore = store.NewInMemoryStore()
		auditStore = auditmemory.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(log),
		publisher.WithMetrics(auditmetrics.New(reg)),
	)
	defer auditPublisher.Close()
	auditLogger := audit.NewLogger(log, auditPublisher)

	docMetrics := docmetrics.New(reg)
	documents := service.New(docStore, cfg.RegulatedMode,
		service.WithLogger(log),
		service.WithAuditLogger(auditLogger),
		service.WithTracer(tracer.NewOTel()),
		service.WithMetrics(docMetrics),
		service.WithRetention(cfg.DocumentRetention),
		service.WithReferenceDate(cfg.ReferenceDate),
		service.WithBatchConcurrency(cfg.BatchConcurrency),
	)

	trusted, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	deps := httptransport.Deps{
		Logger:         log,
		Documents:      documents,
		Admin:          admin.NewService(auditStore),
		Health:         healthHandler,
		Gatherer:       reg,
		HTTPMetrics:    request.NewMetrics(reg),
		TrustedProxies: trusted,
		RequestTimeout: cfg.RequestTimeout,
	}
	if cfg.AuthRequired {
		if cfg.IsProduction() {
			if err := secrets.CheckSigningKey(cfg.JWTSigningKey, config.DevSigningKey); err != nil {
				return fmt.Errorf("JWT_SIGNING_KEY: %w", err)
			}
		}
		jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, jwttoken.DefaultIssuer, jwttoken.DefaultAudience, cfg.TokenTTL)
		deps.TokenValidator = jwttoken.NewJWTServiceAdapter(jwtService)
		deps.AuthOptions = []auth.Option{
			auth.WithFailureRecorder(platformMetrics),
			auth.WithAuditLogger(auditLogger),
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httptransport.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	purger := cleanup.New(docStore,
		cleanup.WithLogger(log),
		cleanup.WithInterval(cfg.PurgeInterval),
		cleanup.WithMetrics(docMetrics),
	)
	go func() {
		_ = purger.Start(ctx) //nolint:errcheck // returns ctx.Err() on shutdown
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
