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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"emanifest/internal/manifest/handler"
	manifestmetrics "emanifest/internal/manifest/metrics"
	"emanifest/internal/manifest/service"
	"emanifest/internal/manifest/store"
	"emanifest/internal/platform/config"
	"emanifest/internal/platform/httpserver"
	"emanifest/internal/platform/logger"
	platformmetrics "emanifest/internal/platform/metrics"
	"emanifest/internal/platform/middleware"
	"emanifest/internal/platform/postgres"
	"emanifest/internal/platform/redis"
	"emanifest/internal/sitedir"
	"emanifest/internal/wastecode"
	"emanifest/pkg/platform/audit"
)

// main wires dependencies and owns the process lifecycle. Business rules live
// in the internal packages; nothing here decides manifest semantics.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New()

	manifestStore, siteStore, closeDB, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	cache, err := redis.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	auditStore, closeAudit, err := buildAuditStore(cfg)
	if err != nil {
		return err
	}
	defer closeAudit()

	recorder := audit.NewRecorder(cfg.AuditBuffer)
	worker := audit.NewWorker(auditStore, recorder.Events(), log)

	manifestSvc, err := service.New(manifestStore, log, manifestmetrics.New(), recorder)
	if err != nil {
		return err
	}

	wasteStore := wastecode.NewCachedStore(wastecode.NewSeededStore(), cache, cfg.WasteCodeCacheTTL, log)
	wasteSvc := wastecode.NewService(wasteStore, log)

	siteSvc := sitedir.NewService(siteStore, log)

	router := newRouter(cfg, log,
		handler.New(manifestSvc, log),
		wastecode.NewHandler(wasteSvc),
		sitedir.NewHandler(siteSvc),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gctx)
	})

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-recorder.Dropped():
				log.Warn("audit event dropped: buffer full")
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// registrar is anything that can mount its routes on the shared router.
type registrar interface {
	Register(r chi.Router)
}

func newRouter(cfg config.Config, log *slog.Logger, handlers ...registrar) http.Handler {
	m := platformmetrics.New()

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Actor)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}

// buildStores selects the persistence layer. One Postgres pool backs both
// stores; without a DSN everything runs in memory.
func buildStores(ctx context.Context, cfg config.Config) (store.Store, sitedir.Store, func(), error) {
	if cfg.PostgresDSN == "" {
		return store.NewInMemory(), sitedir.NewInMemoryStore(), func() {}, nil
	}
	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	for _, schema := range []string{store.Schema, sitedir.Schema} {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return store.NewPostgres(db), sitedir.NewPostgresStore(db), func() { _ = db.Close() }, nil
}

func buildAuditStore(cfg config.Config) (audit.Store, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewInMemoryStore(), func() {}, nil
	}
	ks, err := audit.NewKafkaStore(cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		return nil, nil, fmt.Errorf("connect kafka: %w", err)
	}
	return ks, ks.Close, nil
}
