// Command server runs the repair-shop backend API.
//
// Startup order:
//  1. Load .env (best effort) and build the configuration
//  2. Configure zerolog (level, optional pretty console)
//  3. Set up OpenTelemetry tracing (optional)
//  4. Open SQLite and run migrations; missing DB_PATH leaves the ticket
//     store unconfigured but keeps the process serving
//  5. Serve HTTP with graceful shutdown on SIGINT/SIGTERM
//
// @title           FixLab Repair Backend API
// @version         1.0
// @description     Device repair shop management: tickets, lifecycle, income statistics, and staff accounts.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/fixlab/go-repair-backend/internal/config"
	httpapi "github.com/fixlab/go-repair-backend/internal/http"
	"github.com/fixlab/go-repair-backend/internal/observability"
	"github.com/fixlab/go-repair-backend/internal/repo"
	"github.com/fixlab/go-repair-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Local development convenience; real deployments set env directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	var db *gorm.DB
	if cfg.StoreConfigured() {
		db, err = repo.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		if cfg.OTEL.Enabled {
			if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
				log.Warn().Err(err).Msg("gorm tracing plugin")
			}
		}
	} else {
		log.Warn().Msg("DB_PATH empty: ticket store unconfigured, writes will fail with 503")
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set: using a random per-boot secret, tokens will not survive restarts")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// randomSecret returns a 64-hex-char secret from crypto/rand.
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal().Err(err).Msg("generate jwt secret")
	}
	return hex.EncodeToString(buf)
}
