package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventhub/registration-system/internal/api"
	"github.com/eventhub/registration-system/internal/infrastructure/config"
	mongodb "github.com/eventhub/registration-system/internal/infrastructure/db/mongo"
	redisdb "github.com/eventhub/registration-system/internal/infrastructure/db/redis"
	"github.com/eventhub/registration-system/internal/infrastructure/notify"
	"github.com/eventhub/registration-system/internal/infrastructure/queue"
	"github.com/eventhub/registration-system/internal/pkg/token"
	"github.com/eventhub/registration-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	// The invariants live in these indexes; refuse to serve without them.
	if err := mongodb.NewAccountRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account index creation failed")
	}
	if err := mongodb.NewTicketRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ticket index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Notification pipeline ---
	mailer := notify.NewMailer(notify.SMTPConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	}, redisdb.NewNotifyDedup(rdb), log)

	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, mailer, log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		DB:         db,
		Redis:      rdb,
		Dispatcher: dispatcher,
		Codec:      token.NewCodec(cfg.TicketSigningKey),
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
