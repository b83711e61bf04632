package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"vidembed/internal/adapter/repo"
	"vidembed/internal/embed"
	"vidembed/internal/embedgen"
	"vidembed/internal/http/handlers"
	httpapi "vidembed/internal/http/httpapi"
	"vidembed/internal/infra"
	"vidembed/internal/infra/geoip"
	"vidembed/internal/media"
	"vidembed/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &handlers.App{
		Logger:             infra.Component(logger, "http"),
		MaxDurationSeconds: cfg.MaxDurationSeconds,
		MaxUploadBytes:     cfg.MaxUploadBytes,
	}

	// Asset registry is optional
	if cfg.HasDatabase() {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		assets := repo.NewAssetRepository(infra.NewSQLRunner(pool, logger))
		if err := assets.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare asset registry")
		}
		app.Assets = assets
	} else {
		logger.Info().Msg("DATABASE_URL not set, asset registry disabled")
	}

	store, err := storage.NewOSFileStore(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}
	app.Store = store

	generator := embedgen.New(0, 0)
	resolver, err := embed.NewResolver(embed.Options{
		Generator:          generator,
		MaxDurationSeconds: cfg.MaxDurationSeconds,
		Logger:             infra.Component(logger, "resolver"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build resolver")
	}
	app.Generator = generator
	app.Resolver = resolver

	prober := media.ChainProber{media.MP4Prober{}}
	if ff := media.NewFFProbe(cfg.FFProbePath); ff.Available() {
		prober = append(prober, ff)
	} else {
		logger.Info().Str("path", ff.Path).Msg("ffprobe not found, only ISO-BMFF durations are checked")
	}
	app.Prober = prober

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   geo.Lookup(),
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticFs:        store.Fs(),
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().Str("addr", server.Addr()).Str("storage", store.BasePath()).Msg("API listening")
	if err := server.Run(ctx, cfg.HTTPIdleTimeout); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		stop()
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
