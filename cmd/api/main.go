package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"socialnet/internal/cache"
	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/events"
	"socialnet/internal/handlers"
	"socialnet/internal/jobs"
	"socialnet/internal/log"
	"socialnet/internal/metrics"
	"socialnet/internal/repository"
	"socialnet/internal/repository/memory"
	"socialnet/internal/security"
	"socialnet/internal/server"
	"socialnet/internal/service"
	"socialnet/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "socialnet-api",
		Usage: "social network REST API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "apply database migrations before serving",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server (default)",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "migrate", Usage: "apply database migrations before serving"}},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrate(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := log.New(cfg.Environment, "migrate")

	if cfg.Database.Driver != config.DatabaseDriverPostgres {
		return fmt.Errorf("migrate needs the postgres driver, got %q", cfg.Database.Driver)
	}

	pool, err := database.NewPostgresPool(c.Context, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(c.Context, pool, logger); err != nil {
		return err
	}
	logger.Info().Msg("migrations applied")
	return nil
}

// deps holds what serve opened and must close on the way out.
type deps struct {
	pool      *pgxpool.Pool
	redis     *redis.Client
	publisher events.Publisher
	store     storage.FileStore
	checks    handlers.HealthChecks
}

func (d *deps) close(logger zerolog.Logger) {
	if d.publisher != nil {
		if err := d.publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("event publisher close error")
		}
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.Bool("migrate") {
		cfg.Database.AutoMigrate = true
	}

	logger := log.New(cfg.Environment, "api")
	ctx := c.Context

	d := &deps{}
	defer d.close(logger)

	repos, err := openRepositories(ctx, cfg, logger, d)
	if err != nil {
		return err
	}
	if err := openStorage(ctx, cfg, logger, d); err != nil {
		return err
	}
	if err := openEvents(ctx, cfg, d); err != nil {
		return err
	}

	m := metrics.New()
	notifier := events.NewNotifier(d.publisher, m, logger)
	tokens := security.NewTokenService(cfg.Security.JWTSecret, cfg.Security.TokenTTL, nil)
	media := service.NewMediaService(d.store, cfg.Storage.MaxUploadBytes, m, logger)

	svc := handlers.Services{
		Auth:         service.NewAuthService(repos.users, tokens, logger),
		Users:        service.NewUserService(repos.users, repos.follows, repos.publications, media, notifier, logger),
		Follows:      service.NewFollowService(repos.users, repos.follows, notifier, logger),
		Publications: service.NewPublicationService(repos.publications, repos.follows, media, notifier, logger),
		Messages:     service.NewMessageService(repos.users, repos.messages, notifier, logger),
		Media:        media,
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, tokens, svc, d.checks)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, m)

	scheduler := jobs.NewScheduler(d.publisher, logger)
	if err := scheduler.Start(cfg.Jobs.OrphanSweep); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
		scheduler = nil
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server failed")
			return err
		}
	case <-sigCtx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if scheduler != nil {
		scheduler.Stop(shutdownTimeout)
	}

	logger.Info().Msg("server exited cleanly")
	return nil
}

type repositories struct {
	users        service.UserRepository
	follows      service.FollowRepository
	publications service.PublicationRepository
	messages     service.MessageRepository
}

func openRepositories(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger, d *deps) (repositories, error) {
	if cfg.Database.Driver == config.DatabaseDriverMemory {
		logger.Warn().Msg("using in-memory repositories, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			users:        store.Users(),
			follows:      store.Follows(),
			publications: store.Publications(),
			messages:     store.Messages(),
		}, nil
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return repositories{}, fmt.Errorf("connect postgres: %w", err)
	}
	d.pool = pool
	d.checks.Database = handlers.PingFunc(pool.Ping)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return repositories{}, err
		}
	}

	return repositories{
		users:        repository.NewUserRepository(pool),
		follows:      repository.NewFollowRepository(pool),
		publications: repository.NewPublicationRepository(pool),
		messages:     repository.NewMessageRepository(pool),
	}, nil
}

func openStorage(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger, d *deps) error {
	switch cfg.Storage.Driver {
	case config.StorageDriverMinio:
		store, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			return fmt.Errorf("init object store: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
		d.store = store
		d.checks.Storage = handlers.PingFunc(store.Ping)
	default:
		store, err := storage.NewLocalStore(cfg.Storage.LocalRoot)
		if err != nil {
			return fmt.Errorf("init local store: %w", err)
		}
		d.store = store
		d.checks.Storage = handlers.PingFunc(store.Ping)
	}
	return nil
}

func openEvents(ctx context.Context, cfg *config.AppConfig, d *deps) error {
	switch cfg.Events.Driver {
	case config.EventsDriverRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		d.redis = client
		d.publisher = events.NewStreamPublisher(client, cfg.Events.Stream)
		d.checks.Cache = handlers.PingFunc(func(ctx context.Context) error {
			return cache.Ping(ctx, client)
		})
	case config.EventsDriverKafka:
		d.publisher = events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic))
	default:
		d.publisher = events.Nop{}
	}
	return nil
}
