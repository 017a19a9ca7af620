package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chris85gillis/atlas-cinema-guru/internal/auth"
	"github.com/chris85gillis/atlas-cinema-guru/internal/handlers"
	"github.com/chris85gillis/atlas-cinema-guru/internal/httpserver"
	"github.com/chris85gillis/atlas-cinema-guru/internal/logging"
	"github.com/chris85gillis/atlas-cinema-guru/internal/store"
)

type Config struct {
	Port             string `envconfig:"PORT" default:"8080"`
	DatabaseURL      string `envconfig:"DATABASE_URL" required:"true"`
	AuthJWTPublicKey string `envconfig:"AUTH_JWT_PUBLIC_KEY"`
	AuthJWKSURL      string `envconfig:"AUTH_JWKS_URL"`
	AuthJWTAudience  string `envconfig:"AUTH_JWT_AUDIENCE" default:"authenticated"`
	AuthJWTIssuer    string `envconfig:"AUTH_JWT_ISSUER" required:"true"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat        string `envconfig:"LOG_FORMAT" default:"json"`
}

func mustLoadEnv(log zerolog.Logger) Config {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		log.Fatal().Err(err).Msg("env error")
	}
	return c
}

func mustDB(dsn string, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sqlDB, _ := db.DB()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping error")
	}
	return db
}

func main() {
	log := logging.New("info", "json")
	cfg := mustLoadEnv(log)
	log = logging.New(cfg.LogLevel, cfg.LogFormat)

	db := mustDB(cfg.DatabaseURL, log)
	st := store.New(db, log)

	titleHandler := handlers.NewTitleHandler(st)
	favHandler := handlers.NewFavoriteHandler(st)
	wlHandler := handlers.NewWatchLaterHandler(st)
	actHandler := handlers.NewActivityHandler(st)

	verifier := &auth.Verifier{
		PublicKeyPEMOrJWKS: cfg.AuthJWTPublicKey,
		JWKSURL:            cfg.AuthJWKSURL,
		Audience:           cfg.AuthJWTAudience,
		Issuer:             cfg.AuthJWTIssuer,
	}

	mounter := func(r chi.Router) {
		// Everything is user-scoped; the verifier fronts all of it.
		r.Group(func(r chi.Router) {
			r.Use(verifier.Middleware)
			r.Get("/titles", titleHandler.List)
			r.Get("/genres", titleHandler.Genres)
			r.Route("/favorites", favHandler.Routes)
			r.Route("/watch-later", wlHandler.Routes)
			r.Get("/activities", actHandler.List)
		})
	}

	srv := httpserver.NewServer(log, mounter)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, srv.Router); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
