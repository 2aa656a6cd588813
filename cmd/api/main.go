package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/salvage-vision/internal/application"
	appins "github.com/bryanwahyu/salvage-vision/internal/application/inspections"
	"github.com/bryanwahyu/salvage-vision/internal/config"
	"github.com/bryanwahyu/salvage-vision/internal/domain/auditerrors"
	domauth "github.com/bryanwahyu/salvage-vision/internal/domain/auth"
	"github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
	openaiclient "github.com/bryanwahyu/salvage-vision/internal/infra/ai/openai"
	jwtauth "github.com/bryanwahyu/salvage-vision/internal/infra/auth/jwt"
	mysqldb "github.com/bryanwahyu/salvage-vision/internal/infra/db/mysql"
	postgresdb "github.com/bryanwahyu/salvage-vision/internal/infra/db/postgres"
	"github.com/bryanwahyu/salvage-vision/internal/infra/fetch"
	"github.com/bryanwahyu/salvage-vision/internal/infra/httpserver"
	"github.com/bryanwahyu/salvage-vision/internal/infra/scrape"
	minioStore "github.com/bryanwahyu/salvage-vision/internal/infra/storage"
	"github.com/bryanwahyu/salvage-vision/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()
	slog := logger.Sugar()

	ctx := context.Background()

	var (
		db        *sql.DB
		repo      inspection.Repository
		errorRepo auditerrors.Repository
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			slog.Fatalw("mysql connect error", "err", err)
		}
		repo = mysqldb.NewInspectionRepository(db)
		errorRepo = mysqldb.NewAnalysisErrorRepository(db)
	default:
		db, err = postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			slog.Fatalw("postgres connect error", "err", err)
		}
		repo = postgresdb.NewInspectionRepository(db)
		errorRepo = postgresdb.NewAnalysisErrorRepository(db)
	}
	defer db.Close()

	fetcher := fetch.New(fetch.Config{
		UserAgent:     cfg.Fetch.UserAgent,
		Referer:       cfg.Fetch.Referer,
		Timeout:       time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxImageBytes: cfg.Fetch.MaxImageBytes,
	}, slog)

	scraper := scrape.New(scrape.Config{
		Endpoint:     cfg.Scraper.Endpoint,
		Timeout:      time.Duration(cfg.Scraper.TimeoutSecs) * time.Second,
		PageFallback: cfg.Scraper.PageFallback,
		UserAgent:    cfg.Fetch.UserAgent,
	}, slog)

	vision := openaiclient.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	vision.MaxTokens = cfg.AI.MaxTokens

	var archive inspection.ImageArchiver
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			slog.Fatalw("archive store init error", "err", err)
		}
		archive = store
	}

	var verifier domauth.Verifier
	if cfg.Auth.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	}

	svc := &appins.Service{
		Repo:    repo,
		Errors:  errorRepo,
		Scraper: scraper,
		Fetcher: fetcher,
		Vision:  vision,
		Archive: archive,
		Clock:   application.SystemClock{},
		Log:     slog,
	}

	mux := httpserver.NewRouter(svc, slog, httpserver.Options{
		Verifier: verifier,
		Health: middleware.HealthHandler(map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		}),
		RateLimitCapacity: cfg.Server.RateLimit.Capacity,
		RateLimitRefill:   cfg.Server.RateLimit.RefillRate,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // analysis holds the connection open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Infow("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Fatalw("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		slog.Errorw("shutdown error", "err", err)
	}
}
