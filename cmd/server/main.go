package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"coinscious/internal/audit"
	auditstore "coinscious/internal/audit/store"
	"coinscious/internal/audit/stream"
	"coinscious/internal/compliance"
	"coinscious/internal/control"
	controlstore "coinscious/internal/control/store"
	"coinscious/internal/ledger"
	"coinscious/internal/ledger/snapshot"
	ledgerstore "coinscious/internal/ledger/store"
	"coinscious/internal/platform/config"
	"coinscious/internal/platform/httpserver"
	"coinscious/internal/platform/logger"
	"coinscious/internal/platform/metrics"
	"coinscious/internal/platform/postgres"
	platformredis "coinscious/internal/platform/redis"
	"coinscious/internal/platform/token"
	"coinscious/internal/registry"
	registrystore "coinscious/internal/registry/store"
	httpapi "coinscious/internal/transport/http"
)

// main wires stores, services, and the HTTP surface, then runs until a
// shutdown signal. Business logic lives in the internal packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	genesis := control.State{
		Admin:      cfg.Genesis.Admin,
		Oracle:     cfg.Genesis.Oracle,
		Controller: cfg.Genesis.Controller,
	}

	var (
		regStore registry.Store
		ctlStore controlstore.Store
		ledStore ledgerstore.Store
		audStore audit.Store
		audList  httpapi.AuditReader
	)
	if cfg.Postgres.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		pgControl := controlstore.NewPostgres(db)
		if err := pgControl.Seed(ctx, genesis); err != nil {
			return err
		}
		pgAudit := auditstore.NewPostgres(db)
		regStore = registrystore.NewPostgres(db)
		ctlStore = pgControl
		ledStore = ledgerstore.NewPostgres(db)
		audStore = pgAudit
		audList = pgAudit
		log.Info("using postgres stores")
	} else {
		memControl := controlstore.NewInMemoryStore(genesis)
		memAudit := auditstore.NewInMemoryStore()
		regStore = registrystore.NewInMemoryStore()
		ctlStore = memControl
		ledStore = ledgerstore.NewInMemoryStore()
		audStore = memAudit
		audList = memAudit
		log.Warn("no postgres DSN configured, using in-memory stores")
	}

	controlSvc := control.NewService(ctlStore, control.WithLogger(log))
	registrySvc := registry.NewService(regStore, controlSvc, registry.WithLogger(log))

	checker := compliance.NewChecker(registrySvc, controlSvc,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)

	auditOpts := []audit.Option{
		audit.WithLogger(log),
		audit.WithMetrics(audit.NewMetrics()),
	}
	var mirror *stream.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		mirror, err = stream.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, stream.WithLogger(log))
		if err != nil {
			return err
		}
		auditOpts = append(auditOpts, audit.WithMirror(mirror))
		log.Info("audit stream mirror enabled", "topic", cfg.Kafka.Topic)
	}
	publisher := audit.NewPublisher(audStore, auditOpts...)

	ledgerSvc := ledger.NewService(ledStore, checker, controlSvc, publisher,
		ledger.WithLogger(log),
		ledger.WithMetrics(ledger.NewMetrics()),
	)

	var cache snapshot.Cache = snapshot.NewMemoryCache()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = snapshot.NewRedisCache(redisClient.Client)
		log.Info("snapshot cache on redis")
	}
	snapshotSvc := snapshot.NewService(ledgerSvc, cache, snapshot.WithLogger(log))

	handler := httpapi.NewHandler(registrySvc, controlSvc, checker, ledgerSvc, snapshotSvc, audList, log)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		TokenValidator:  token.NewSigner(cfg.Auth.JWTSigningKey),
		ExportTokenHash: cfg.Auth.ExportTokenHash,
		HTTPMetrics:     metrics.NewHTTP(),
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if mirror != nil {
		g.Go(func() error {
			return mirror.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
