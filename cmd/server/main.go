// @title           BloodDB Donation API
// @version         1.0
// @description     Donor registry and blood request board with cookie sessions.
// @BasePath        /
//
// @securityDefinitions.apikey SessionCookie
// @in                         cookie
// @name                       blooddb_sid
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/api"
	"github.com/blooddb/donation-api/internal/api/handler"
	"github.com/blooddb/donation-api/internal/core/ports"
	"github.com/blooddb/donation-api/internal/core/service"
	"github.com/blooddb/donation-api/internal/infrastructure/config"
	mongodb "github.com/blooddb/donation-api/internal/infrastructure/db/mongo"
	"github.com/blooddb/donation-api/internal/infrastructure/db/postgres"
	redisdb "github.com/blooddb/donation-api/internal/infrastructure/db/redis"
	"github.com/blooddb/donation-api/internal/infrastructure/http/handlers"
	"github.com/blooddb/donation-api/internal/infrastructure/queue"
	"github.com/blooddb/donation-api/internal/infrastructure/session"
	"github.com/blooddb/donation-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "donation-api",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := map[string]handlers.Check{}

	// --- PostgreSQL ---
	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxOpenConns: cfg.Postgres.MaxOpenConns})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}
	checks["postgres"] = handlers.PostgresCheck(db)
	log.Info().Msg("postgres ready")

	// --- Session store ---
	var store ports.SessionStore
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = redisdb.NewSessionStore(rdb)
		checks["redis"] = handlers.RedisCheck(rdb)
	default:
		mem := session.NewMemoryStore(logger.Component("sessions"))
		mem.Start(ctx)
		store = mem
	}
	log.Info().Str("store", cfg.Session.Store).Dur("ttl", cfg.Session.TTL).Msg("session store ready")

	// --- Audit trail ---
	// Workers outlive the signal context so events recorded while in-flight
	// requests drain are still written.
	auditCtx, cancelAudit := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelAudit()
	var (
		audit      ports.AuditRecorder = ports.NopAuditRecorder{}
		dispatcher *queue.Dispatcher
	)
	if cfg.Audit.Enabled {
		mstore, err := mongodb.Open(ctx, mongodb.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return err
		}
		defer mstore.Close()

		auditRepo := mongodb.NewAuditRepository(mstore.DB)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		dispatcher = queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
		dispatcher.Start(auditCtx)
		audit = dispatcher
		checks["mongo"] = handlers.MongoCheck(mstore.DB)
		log.Info().Int("workers", cfg.Audit.Workers).Msg("audit dispatcher started")
	}

	// --- Services ---
	users := postgres.NewUserRepository(db)
	donors := postgres.NewDonorRepository(db)
	requests := postgres.NewBloodRequestRepository(db)

	sessions := service.NewSessionManager(store, cfg.Session.TTL, logger.Component("sessions"))
	hasher := service.NewBcryptHasher(service.DefaultHashCost, cfg.HashConcurrency)
	authService := service.NewAuthService(users, hasher, sessions, audit, logger.Component("auth"))

	e := api.NewRouter(api.Dependencies{
		Log:      log,
		Auth:     authService,
		Sessions: sessions,
		Donors:   service.NewDonorService(donors, logger.Component("donors")),
		Requests: service.NewBloodRequestService(requests, logger.Component("requests")),
		Profile:  service.NewProfileService(users, donors, requests, logger.Component("profile")),
		Cookie: handler.CookieConfig{
			Name:      cfg.Session.CookieName,
			TTL:       sessions.TTL(),
			Secure:    cfg.Session.Secure,
			CrossSite: cfg.Session.CrossSite,
		},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		HealthChecks:   checks,
	})

	// --- Server ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdown(log, e, func() {
		cancelAudit()
		if dispatcher != nil {
			dispatcher.Wait()
		}
	})
	return nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown drains the HTTP server first, then stops the audit workers, which
// flush whatever the drained requests recorded.
func shutdown(log zerolog.Logger, srv shutdowner, stopAudit func()) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	stopAudit()
}
