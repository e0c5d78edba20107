package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dhun/cache"
	"dhun/config"
	"dhun/core/auth"
	"dhun/core/catalog"
	"dhun/core/workflow"
	"dhun/db"
	"dhun/logger"
	"dhun/model"
	"dhun/repository"
	"dhun/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until a shutdown
// signal arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	// The database is required; Redis and MinIO degrade gracefully.
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database schema", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(&model.User{}, &model.Song{}); err != nil {
		logger.Fatal("Failed to migrate database schema", logger.ErrorField(err))
	}

	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, catalog cache disabled", logger.ErrorField(err))
	} else {
		defer cache.CloseRedis()
	}

	if err := storage.InitMinio(); err != nil {
		logger.Warn("MinIO unavailable, media serving disabled", logger.ErrorField(err))
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	songRepo := repository.NewMySQLSongRepository(db.DB)
	engine := workflow.NewEngine(userRepo, songRepo)
	catalogSvc := catalog.NewService(userRepo, songRepo)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHour)*time.Hour)

	apiHandler := NewAPIHandler(userRepo, songRepo, engine, catalogSvc, tokens, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestLogMiddleware)

	// Auth endpoints
	router.HandleFunc("/api/auth/signup", apiHandler.SignupHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Catalog endpoints
	router.HandleFunc("/api/songs", apiHandler.AuthMiddleware(apiHandler.GetSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs", apiHandler.AuthMiddleware(apiHandler.SubmitSongHandler)).Methods(http.MethodPost)

	// Admin endpoints
	router.HandleFunc("/api/admin/distributors", apiHandler.AuthMiddleware(apiHandler.GetDistributorsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/distributors", apiHandler.AuthMiddleware(apiHandler.UpdateDistributorHandler)).Methods(http.MethodPatch)
	router.HandleFunc("/api/admin/songs/pending", apiHandler.AuthMiddleware(apiHandler.GetPendingSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/songs", apiHandler.AuthMiddleware(apiHandler.UpdateSongHandler)).Methods(http.MethodPatch)

	// Media objects
	router.PathPrefix("/media/").HandlerFunc(apiHandler.AuthMiddleware(apiHandler.MediaHandler)).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", logger.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("Server exited")
}

// corsMiddleware allows browser clients on other origins to call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestLogMiddleware tags each request with an id and logs it.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		logger.Debug("Request handled",
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("elapsed", time.Since(start)))
	})
}
