package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/tasklight/tasklight/internal/auth"
	"github.com/tasklight/tasklight/internal/config"
	"github.com/tasklight/tasklight/internal/httpx"
	"github.com/tasklight/tasklight/internal/lists"
	"github.com/tasklight/tasklight/internal/middleware"
	"github.com/tasklight/tasklight/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()
	logger := slog.Default()

	kv, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("store connect", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	var archiver lists.Archiver
	if cfg.ArchiveConfigured() {
		m, err := store.NewMinio(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			logger.Error("minio connect", "error", err)
			os.Exit(1)
		}
		archiver = m
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      buildRouter(cfg, kv, archiver, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (store.KV, error) {
	switch cfg.StoreDriver {
	case config.DriverRedis:
		return store.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	case config.DriverPostgres:
		pg, err := store.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	case config.DriverMongo:
		return store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		slog.Warn("no external store configured, state is process-scoped", "driver", cfg.StoreDriver)
		return store.NewMemory(), nil
	}
}

// buildRouter wires stores, services, and handlers onto the chi router. Kept
// separate from main so tests can run the full stack over httptest.
func buildRouter(cfg *config.Config, kv store.KV, archiver lists.Archiver, logger *slog.Logger) http.Handler {
	users := auth.NewUserStore(kv)
	sessions := auth.NewSessionStore(kv)
	listStore := lists.NewStore(kv)

	listSvc := lists.NewService(listStore, archiver, logger)
	authSvc := auth.NewService(users, sessions, listStore)

	authHandler := auth.NewHandler(authSvc, cfg.Production(), logger)
	listsHandler := lists.NewHandler(listSvc, logger)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth/signup", func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/", authHandler.Signup)
		r.MethodNotAllowed(httpx.MethodNotAllowed("POST"))
	})
	r.Route("/auth/login", func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/", authHandler.Login)
		r.MethodNotAllowed(httpx.MethodNotAllowed("POST"))
	})
	r.Route("/auth/logout", func(r chi.Router) {
		r.Post("/", authHandler.Logout)
		r.MethodNotAllowed(httpx.MethodNotAllowed("POST"))
	})
	r.Route("/auth/session", func(r chi.Router) {
		r.Get("/", authHandler.Session)
		r.MethodNotAllowed(httpx.MethodNotAllowed("GET"))
	})

	r.Route("/lists", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Get("/", listsHandler.Get)
		r.Put("/", listsHandler.Put)
		r.MethodNotAllowed(httpx.MethodNotAllowed("GET", "PUT"))
	})

	return r
}
