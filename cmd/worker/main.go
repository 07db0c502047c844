package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"socialnet/internal/cache"
	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/log"
	"socialnet/internal/metrics"
	"socialnet/internal/queue"
	"socialnet/internal/repository"
	"socialnet/internal/storage"
	"socialnet/internal/tasks"
)

func main() {
	app := &cli.App{
		Name:  "socialnet-worker",
		Usage: "consume domain events and clean up stored images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve prometheus metrics on this address, empty disables",
				Value:   ":9102",
				EnvVars: []string{"SOCIALNET_WORKER_METRICSADDR"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := log.New(cfg.Environment, "worker")

	// The worker checks file references against the shared database, which
	// the in-memory driver cannot provide across processes.
	if cfg.Database.Driver != config.DatabaseDriverPostgres {
		return fmt.Errorf("worker needs the postgres driver, got %q", cfg.Database.Driver)
	}
	if cfg.Events.Driver == config.EventsDriverNone {
		return errors.New("worker needs an events driver, got \"none\"")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	if addr := c.String("metrics-addr"); addr != "" {
		srv := &http.Server{Addr: addr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
	}

	processor := tasks.NewProcessor(
		store,
		repository.NewUserRepository(pool),
		repository.NewPublicationRepository(pool),
		cfg.Worker.OrphanGrace,
		m,
		logger,
	)

	logger.Info().Str("driver", cfg.Events.Driver).Msg("worker starting")

	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		consumer := queue.NewKafkaConsumer(
			queue.NewKafkaReader(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic, cfg.Events.KafkaGroupID),
			logger,
			processor,
		)
		defer consumer.Close()
		err = consumer.Run(ctx)
	default:
		client, cerr := cache.NewRedisClient(ctx, cfg.Redis)
		if cerr != nil {
			return cerr
		}
		defer client.Close()

		consumer := queue.NewStreamConsumer(
			client,
			cfg.Events.Stream,
			cfg.Worker.Group,
			cfg.Worker.Consumer,
			cfg.Worker.ClaimInterval,
			logger,
			processor,
		)
		err = consumer.Run(ctx)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("consumer stopped unexpectedly")
		return err
	}
	logger.Info().Msg("worker exited cleanly")
	return nil
}

func openStore(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (storage.FileStore, error) {
	if cfg.Storage.Driver == config.StorageDriverMinio {
		store, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("init object store: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
		return store, nil
	}
	store, err := storage.NewLocalStore(cfg.Storage.LocalRoot)
	if err != nil {
		return nil, fmt.Errorf("init local store: %w", err)
	}
	return store, nil
}
