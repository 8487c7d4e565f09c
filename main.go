package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basket-backend/config"
	"basket-backend/controllers"
	"basket-backend/events"
	"basket-backend/media"
	"basket-backend/routes"
	"basket-backend/session"
	"basket-backend/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	client, err := config.ConnectDB(cfg.MongoURI, cfg.MongoMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Exiting due to MongoDB connection failure")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnect MongoDB")
		}
	}()

	catalogDB := client.Database(cfg.CatalogDB)
	ordersDB := client.Database(cfg.OrdersDB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureIndexes(ctx, catalogDB, ordersDB); err != nil {
		log.Warn().Err(err).Msg("ensure indexes")
	}
	cancel()

	selector := store.NewTenantSelector(client)
	registry := store.NewProductRegistry(catalogDB)

	images, uploadDir := imageStore(cfg)
	publisher := eventPublisher(cfg)
	defer publisher.Close()

	sessions := session.NewManager(cfg.PasetoSecretKey, cfg.SessionTTL)
	if len(cfg.AdminPhoneHash) == 0 {
		log.Warn().Msg("ADMIN_PHONE_HASH is not set, admin login is disabled")
	}

	ctrl := &controllers.Controller{
		Catalog:  store.NewCatalogStore(catalogDB, registry),
		Tenants:  store.NewTenantStore(selector),
		Users:    store.NewUserStore(catalogDB, selector),
		Orders:   store.NewOrderStore(ordersDB, selector),
		Images:   images,
		Events:   publisher,
		Sessions: sessions,
		Admin:    controllers.AdminCredentials{Username: cfg.AdminUsername, PhoneHash: cfg.AdminPhoneHash},
		Timeout:  cfg.RequestTimeout,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}

	r := routes.Setup(ctrl, sessions, routes.Options{
		Env:         cfg.Env,
		CORSOrigins: cfg.CORSOrigins,
		Maintenance: cfg.Maintenance,
		UploadDir:   uploadDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Bool("maintenance", cfg.Maintenance).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

func setupLogger(cfg *config.AppConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if !cfg.IsProduction() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
}

// imageStore uses Cloudinary when configured. The returned directory is
// served as static files and is empty for Cloudinary.
func imageStore(cfg *config.AppConfig) (media.ImageStore, string) {
	if cfg.CloudinaryURL != "" {
		cld, err := media.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			log.Fatal().Err(err).Msg("cloudinary")
		}
		log.Info().Msg("Storing images on Cloudinary")
		return cld, ""
	}

	local, err := media.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir")
	}
	log.Info().Str("dir", local.Dir()).Msg("Storing images on local disk")
	return local, local.Dir()
}

func eventPublisher(cfg *config.AppConfig) events.Publisher {
	if cfg.KafkaBroker == "" {
		log.Info().Msg("KAFKA_BROKER is not set, order events are disabled")
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaOrderTopic)
}
