package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AnshRaj112/multicrypto-funnel/internal/config"
	"github.com/AnshRaj112/multicrypto-funnel/internal/counter"
	"github.com/AnshRaj112/multicrypto-funnel/internal/database"
	"github.com/AnshRaj112/multicrypto-funnel/internal/handlers"
	"github.com/AnshRaj112/multicrypto-funnel/internal/i18n"
	"github.com/AnshRaj112/multicrypto-funnel/internal/kv"
	"github.com/AnshRaj112/multicrypto-funnel/internal/leadstore"
	"github.com/AnshRaj112/multicrypto-funnel/internal/media"
	"github.com/AnshRaj112/multicrypto-funnel/internal/middleware"
	"github.com/AnshRaj112/multicrypto-funnel/internal/routes"
	"github.com/AnshRaj112/multicrypto-funnel/internal/session"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	local, closeLocal, err := openLocalStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open local store", zap.String("backend", cfg.LocalBackend), zap.Error(err))
	}
	defer closeLocal()

	remote, closeRemote := connectRemote(ctx, cfg, logger)
	defer closeRemote()

	leads := leadstore.New(leadstore.NewLocalLog(local, leadstore.WithLocalLogger(logger.Named("locallog"))),
		leadstore.WithRemote(remote),
		leadstore.WithSelfHeal(cfg.SelfHealSchema),
		leadstore.WithRemoteTimeout(cfg.RemoteTimeout),
		leadstore.WithLogger(logger.Named("leadstore")),
	)
	if !leads.RemoteConfigured() {
		logger.Info("no remote lead store configured, leads go to the local log")
	}

	resolver, err := media.New(cfg.VideoProvider, cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		logger.Warn("video provider unavailable, using youtube", zap.Error(err))
		resolver = media.YouTube{}
	}

	// Social-proof counter: one per process, device-scoped
	socialProof := counter.New(local, logger.Named("counter"))
	if _, err := socialProof.Initialize(ctx); err != nil {
		logger.Warn("social proof counter init failed, retrying on next tick", zap.Error(err))
	}
	counterDone := make(chan struct{})
	go func() {
		defer close(counterDone)
		socialProof.Run(ctx)
	}()

	sessions := session.NewRegistry(session.Config{
		Store:        leads,
		Resolver:     resolver,
		LaunchDate:   cfg.LaunchDate,
		MediaID:      cfg.VideoID,
		ReadyTimeout: cfg.PlayerReadyTimeout,
		TTL:          cfg.SessionTTL,
		Logger:       logger.Named("session"),
	})
	sessionsDone := make(chan struct{})
	go func() {
		defer close(sessionsDone)
		sessions.Run(ctx)
	}()

	h := handlers.New(handlers.Deps{
		Sessions:       sessions,
		Counter:        socialProof,
		Catalog:        i18n.NewCatalog(cfg.DefaultLanguage),
		WhatsAppNumber: cfg.WhatsAppNumber,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
		SessionTTL:     cfg.SessionTTL,
		Logger:         logger.Named("http"),
	})

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		logger.Info("production security enabled (security headers, per-IP rate limiting)")
	} else {
		r.Use(middleware.GlobalRateLimit)
	}
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("multicrypto funnel running",
		zap.String("port", cfg.Port),
		zap.String("remote", cfg.RemoteBackend),
		zap.String("local", cfg.LocalBackend),
		zap.Time("launch", cfg.LaunchDate))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("failed to start server", zap.Error(err))
		stop()
	}

	<-counterDone
	<-sessionsDone
	logger.Info("shutdown complete")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if !cfg.IsProduction() {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// openLocalStore opens the device-local key/value store.
func openLocalStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (kv.Store, func(), error) {
	switch cfg.LocalBackend {
	case config.LocalRedis:
		client, err := database.ConnectRedis(ctx, cfg.RedisURI, logger)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewRedis(client), func() { client.Close() }, nil
	default:
		db, err := database.OpenLocal(cfg.LocalDBPath, logger)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewSQLite(db), func() { db.Close() }, nil
	}
}

// connectRemote wires the optional remote lead store. A remote that cannot
// be reached at startup is treated as unconfigured; leads still land locally.
func connectRemote(ctx context.Context, cfg *config.Config, logger *zap.Logger) (leadstore.Remote, func()) {
	noop := func() {}
	if !cfg.RemoteConfigured() {
		return nil, noop
	}

	switch cfg.RemoteBackend {
	case config.RemotePostgres:
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI, logger)
		if err != nil {
			logger.Warn("postgres unavailable, running local-only", zap.Error(err))
			return nil, noop
		}
		return leadstore.NewPostgresRemote(db, cfg.PolicyRole), func() { db.Close() }
	case config.RemoteMongo:
		client, mdb, err := database.ConnectMongo(ctx, cfg.MongoURI, logger)
		if err != nil {
			logger.Warn("mongodb unavailable, running local-only", zap.Error(err))
			return nil, noop
		}
		return leadstore.NewMongoRemote(mdb), func() {
			if err := database.DisconnectMongo(client); err != nil {
				logger.Warn("mongodb disconnect", zap.Error(err))
			}
		}
	}
	return nil, noop
}
