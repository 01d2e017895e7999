package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/discoteque/discoteque-api/internal/api"
	"github.com/discoteque/discoteque-api/internal/api/handler"
	"github.com/discoteque/discoteque-api/internal/api/middleware"
	"github.com/discoteque/discoteque-api/internal/core/ports"
	"github.com/discoteque/discoteque-api/internal/core/service"
	"github.com/discoteque/discoteque-api/internal/infrastructure/db/memory"
	"github.com/discoteque/discoteque-api/internal/infrastructure/db/mongo"
	"github.com/discoteque/discoteque-api/internal/infrastructure/db/postgres"
	"github.com/discoteque/discoteque-api/internal/infrastructure/db/redis"
	"github.com/discoteque/discoteque-api/internal/infrastructure/queue"
	"github.com/discoteque/discoteque-api/internal/pkg/config"
	"github.com/discoteque/discoteque-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving (postgres only)")
	return cmd
}

func runServe(ctx context.Context, autoMigrate bool) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "discoteque",
		Env:     cfg.Env,
	})

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	readiness := make(map[string]handler.Pinger)
	var cleanup []func()
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	// --- Storage ---
	var uow ports.UnitOfWorkFactory
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		if autoMigrate {
			if err := migrateUp(cfg.DatabaseURL, log); err != nil {
				return err
			}
		}
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to postgres")
			return err
		}
		cleanup = append(cleanup, pool.Close)
		readiness["postgres"] = pool
		uow = postgres.NewUnitOfWorkFactory(pool)
		log.Info().Msg("connected to postgres")
	case config.StorageMemory:
		uow = memory.NewStore()
		log.Warn().Msg("using in-memory storage, data is lost on exit")
	}

	var opts []service.AuthOption

	// --- Audit trail (optional) ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	var dispatcher *queue.Dispatcher
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to mongodb")
			return err
		}
		cleanup = append(cleanup, func() { _ = client.Disconnect(context.Background()) })
		readiness["mongodb"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })

		repo := mongo.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create audit indexes")
		}

		dispatcher = queue.NewDispatcher(cfg.AuditWorkers, repo, log)
		dispatcher.Start(workerCtx)
		opts = append(opts, service.WithAuditSink(dispatcher))
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail enabled")
	}

	// --- Login guard (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to redis")
			return err
		}
		cleanup = append(cleanup, func() { _ = rdb.Close() })
		readiness["redis"] = redisPinger(rdb)
		opts = append(opts, service.WithLoginGuard(redis.NewLoginGuard(rdb, cfg.Login.MaxFailures, cfg.Login.Lockout)))
		log.Info().Int("max_failures", cfg.Login.MaxFailures).Dur("lockout", cfg.Login.Lockout).Msg("login guard enabled")
	}

	// --- Services ---
	authService, err := service.NewAuthService(uow, service.TokenConfig{
		SigningKey:        cfg.JWT.Key,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
		ExpirationMinutes: cfg.JWT.ExpirationMinutes,
		RefreshTokenTTL:   cfg.JWT.RefreshTokenTTL(),
	}, log, opts...)
	if err != nil {
		return err
	}
	userService := service.NewUserService(uow, log)

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		UserService: userService,
		Token: middleware.TokenValidation{
			Key:      cfg.JWT.Key,
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
		},
		Readiness: readiness,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Audit workers stop after the last request has finished and store what is
	// still queued.
	if dispatcher != nil {
		cancelWorkers()
		dispatcher.Wait()
	}

	log.Info().Msg("server stopped")
	return nil
}

func redisPinger(rdb *goredis.Client) handler.Pinger {
	return handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
}

func migrateUp(databaseURL string, log zerolog.Logger) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return err
	}
	version, _, err := m.Version()
	if err != nil {
		return err
	}
	log.Info().Uint("version", version).Msg("migrations applied")
	return nil
}
