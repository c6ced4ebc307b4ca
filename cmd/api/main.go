package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/cloud"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/config"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/home-energy-monitor/internal/http"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/observability/metrics"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()

	settings, err := config.InitialSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := service.Options{Settings: settings, Source: config.SnapshotSource()}

	if config.SnapshotSource() == config.SourcePostgres {
		var db *sqlx.DB
		db, err = database.Open(config.DBDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("db open failed")
		}
		defer db.Close()
		opts.DB = db
	}

	if config.UseCloudServices() {
		sns, err := cloud.NewSNSClient(ctx, config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns client")
		}
		s3, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client")
		}
		opts.Notifier, opts.Reports = sns, s3
	}

	metrics.Init()
	svcs := service.New(opts)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	httpHandlers.Register(app, svcs)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down api")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Str("source", config.SnapshotSource()).
		Bool("cloud", config.UseCloudServices()).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
