package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/customer-data-service/internal/auth"
	"github.com/sangkips/customer-data-service/internal/config"
	"github.com/sangkips/customer-data-service/internal/db"
	"github.com/sangkips/customer-data-service/internal/domains/audit"
	"github.com/sangkips/customer-data-service/internal/domains/customers"
	"github.com/sangkips/customer-data-service/internal/health"
	"github.com/sangkips/customer-data-service/internal/logger"
	requestlog "github.com/sangkips/customer-data-service/internal/middleware"
	"github.com/sangkips/customer-data-service/internal/queue"
	"github.com/sangkips/customer-data-service/internal/worker"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.ConnectAndMigrate(cfg.DBURL, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnectRetries:  cfg.DBConnectRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbConn.Close()

	store, reloader, err := newCredentialStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize credential store")
	}
	authenticator := auth.NewAuthenticator(auth.NewBasicStrategy(store), auth.NewBearerStrategy(store))

	// The broker is optional: without it the API works and events are skipped.
	var events customers.EventPublisher
	var queueCheck health.Queue
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
		queueCheck = rabbitMQ
	}

	if cfg.IsProduction() && slices.Contains(cfg.CORSOrigins, "*") {
		log.Warn().Msg("CORS allows any origin in production")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestlog.RequestLogger)
	r.Use(requestlog.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthHandler := health.NewHandler(dbConn, queueCheck, cfg.ServiceName, cfg.Version, cfg.HealthCheckTimeout)
	r.Get("/health", healthHandler.Health)

	customerRepo := customers.NewRepository(dbConn, cfg.DBQueryTimeout)
	customerHandler := customers.NewHandler(customers.NewService(customerRepo, events))
	auditHandler := audit.NewHandler(audit.NewRepository(dbConn))
	r.Route("/customers", func(r chi.Router) {
		r.Use(auth.Middleware(authenticator))
		customerHandler.RegisterCustomerRoutes(r)
		auditHandler.RegisterAuditRoutes(r)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("env", cfg.Environment).Str("version", cfg.Version).Msg("server starting on :" + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if reloader != nil && cfg.CredentialsRefreshInterval > 0 {
		refresher := worker.NewCredentialRefresher(reloader, cfg.CredentialsRefreshInterval)
		g.Go(func() error { return refresher.Start(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// newCredentialStore selects the credential source. The returned Reloader is
// nil for sources that cannot change at runtime.
func newCredentialStore(ctx context.Context, cfg *config.Config) (auth.CredentialStore, auth.Reloader, error) {
	switch cfg.CredentialsSource {
	case config.CredentialsSourceFile:
		store := auth.NewFileStore(cfg.CredentialsFile)
		warmUp(ctx, store)
		return store, store, nil

	case config.CredentialsSourceSecretsManager:
		client, err := auth.NewSecretsManagerClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		store := auth.NewSecretsManagerStore(client, cfg.CredentialsSecretName)
		warmUp(ctx, store)
		return store, store, nil

	default:
		return auth.NewStaticStore(auth.Credentials{
			Username:    cfg.BasicAuthUsername,
			Password:    cfg.BasicAuthPassword,
			TokenSecret: cfg.JWTSecretKey,
		}), nil, nil
	}
}

// warmUp loads credentials once at startup. Failure is not fatal: requests
// receive 503 until a later reload succeeds.
func warmUp(ctx context.Context, store auth.Reloader) {
	if err := store.Reload(ctx); err != nil {
		log.Warn().Err(err).Msg("initial credential load failed")
		return
	}
	log.Info().Msg("credentials loaded")
}
