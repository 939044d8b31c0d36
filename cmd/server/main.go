package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-admin-server/internal/config"
	"storefront-admin-server/internal/handler"
	"storefront-admin-server/internal/logger"
	"storefront-admin-server/internal/middleware"
	"storefront-admin-server/internal/repository"
	"storefront-admin-server/internal/schema"
	"storefront-admin-server/internal/service"
	"storefront-admin-server/internal/websocket"
	"storefront-admin-server/pkg/hash"
	"storefront-admin-server/pkg/money"
	"storefront-admin-server/pkg/response"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const serviceName = "storefront-admin-server"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()

	client, err := kivik.New("couch", cfg.Database.URL())
	if err != nil {
		logg.Fatal("failed to connect to CouchDB", zap.Error(err))
	}

	created, err := repository.EnsureDatabase(context.Background(), client, cfg.Database.Name)
	if err != nil {
		logg.Fatal("failed to prepare database", zap.Error(err))
	}
	if created {
		logg.Info("created database", zap.String("name", cfg.Database.Name))
	}

	formatter, err := money.NewFormatter(cfg.Store.Currency, cfg.Store.Locale)
	if err != nil {
		logg.Fatal("invalid store currency settings", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	sequenceRepo := repository.NewSequenceRepository(client, cfg.Database.Name)
	categoryRepo := repository.NewCategoryRepository(client, cfg.Database.Name)
	productRepo := repository.NewProductRepository(client, cfg.Database.Name)
	customerRepo := repository.NewCustomerRepository(client, cfg.Database.Name)

	var events service.EventPublisher
	hub := websocket.NewHub(websocket.Options{
		MaxConnPerUser: cfg.WebSocket.MaxConnPerUser,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		PingPeriod:     cfg.WebSocket.PingPeriod,
	}, logg.Named("ws"))
	hubDone := make(chan struct{})
	if cfg.WebSocket.Enabled {
		go hub.Run(hubDone)
		events = hub
	}

	authService := service.NewAuthService(userRepo, hash.NewHasher(cfg.JWT.BcryptCost), cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	categoryService := service.NewCategoryService(categoryRepo, sequenceRepo, events)
	productService := service.NewProductService(productRepo, categoryRepo, formatter, events)
	customerService := service.NewCustomerService(customerRepo, events)

	authHandler := handler.NewAuthHandler(authService, logg)
	userHandler := handler.NewUserHandler(authService, logg)
	categoryHandler := handler.NewCategoryHandler(categoryService, cfg.Store.MaxUploadSize, logg)
	productHandler := handler.NewProductHandler(productService, logg)
	customerHandler := handler.NewCustomerHandler(customerService, logg)
	validateHandler := handler.NewValidateHandler(schema.Registry, cfg.Store.MaxUploadSize, logg)
	wsHandler := handler.NewWebSocketHandler(hub, authService, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize, logg.Named("ws"))

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(logg.Named("http")))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	api.HandleFunc("/validate", validateHandler.Schemas).Methods("GET", "OPTIONS")
	api.HandleFunc("/validate/{schema}", validateHandler.Validate).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(authService))

	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET", "OPTIONS")

	protected.HandleFunc("/categories", categoryHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/categories", categoryHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/categories/{id}", categoryHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/categories/{id}", categoryHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/categories/{id}", categoryHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/categories/{id}/image", categoryHandler.Image).Methods("GET", "OPTIONS")

	protected.HandleFunc("/products", productHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/products", productHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/products/{id}", productHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/products/{id}", productHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/products/{id}", productHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/customers", customerHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/customers", customerHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/customers/{id}", customerHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/customers/{id}", customerHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/customers/{id}", customerHandler.Delete).Methods("DELETE", "OPTIONS")

	if cfg.WebSocket.Enabled {
		r.HandleFunc("/ws", wsHandler.HandleConnection)
	}

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/", rootHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Info("starting server",
			zap.String("addr", addr),
			zap.String("env", cfg.Server.Env),
			zap.String("couchdb", fmt.Sprintf("%s:%s", cfg.Database.Host, cfg.Database.Port)),
			zap.Bool("websocket", cfg.WebSocket.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("server forced to shutdown", zap.Error(err))
	}
	close(hubDone)

	if err := client.Close(); err != nil {
		logg.Warn("failed to close CouchDB client", zap.Error(err))
	}

	logg.Info("server stopped gracefully")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{
		"message": "Storefront Admin API",
		"version": "1.0.0",
		"schemas": schema.Registry.Names(),
	})
}
