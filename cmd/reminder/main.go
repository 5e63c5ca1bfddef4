package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jmhodges/clock"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/reminder-notifier/internal/api/handlers/reminder"
	"github.com/aliskhannn/reminder-notifier/internal/api/router"
	"github.com/aliskhannn/reminder-notifier/internal/api/server"
	"github.com/aliskhannn/reminder-notifier/internal/api/validation"
	"github.com/aliskhannn/reminder-notifier/internal/config"
	"github.com/aliskhannn/reminder-notifier/internal/rabbitmq/queue"
	reminderrepo "github.com/aliskhannn/reminder-notifier/internal/repository/reminder"
	remindersvc "github.com/aliskhannn/reminder-notifier/internal/service/reminder"
	"github.com/aliskhannn/reminder-notifier/internal/subscriber"
	"github.com/aliskhannn/reminder-notifier/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	clk := clock.New()

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := reminderrepo.InitSchema(ctx, db); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to init schema")
	}

	repo := reminderrepo.NewRepository(db)

	var cache remindersvc.Cache
	if cfg.Redis.Enabled {
		dbNum, err := strconv.Atoi(cfg.Redis.Database)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to parse redis database")
		}

		rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, dbNum)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to close redis client")
			}
		}()

		cache = rdb
		zlog.Logger.Info().Str("address", cfg.Redis.Address).Msg("redis status cache enabled")
	}

	var publisher remindersvc.Publisher
	if cfg.RabbitMQ.Enabled {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}

		ch, err := conn.Channel()
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
		}

		q, err := queue.NewReminderQueue(ch, cfg)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to create reminder queue")
		}

		defer func() {
			if err := ch.Close(); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
			}
			if err := conn.Close(); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
			}
		}()

		publisher = q
		zlog.Logger.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("sent-reminder publishing enabled")
	}

	service := remindersvc.NewService(repo, cache, publisher)
	registry := subscriber.NewRegistry(cfg.Delivery.SendTimeout)
	val := validation.New(clk, cfg.Validation.DueAtGrace)
	reminderHandler := reminder.NewHandler(service, registry, val, cfg)

	notifier := worker.NewNotifier(service, registry, clk, cfg.Delivery.SendTimeout)

	notifierDone := make(chan struct{})
	go func() {
		defer close(notifierDone)
		notifier.Run(ctx, cfg.Retry, cfg.Delivery.Interval)
	}()

	r := router.New(reminderHandler, cfg.CORS.AllowedOrigins)
	s := server.New(cfg.Server.HTTPPort, r)
	// Open streams only end when their subscribers are closed.
	s.RegisterOnShutdown(registry.Close)

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("starting server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	<-notifierDone

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close master DB")
	}

	for i, slave := range db.Slaves {
		if err := slave.Close(); err != nil {
			zlog.Logger.Error().Err(err).Int("slave", i).Msg("failed to close slave DB")
		}
	}
}
