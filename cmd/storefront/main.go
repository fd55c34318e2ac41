package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andersondev17/AMMAE-sub000/internal/analytics"
	"github.com/andersondev17/AMMAE-sub000/internal/cart"
	"github.com/andersondev17/AMMAE-sub000/internal/catalog"
	"github.com/andersondev17/AMMAE-sub000/internal/checkout"
	h "github.com/andersondev17/AMMAE-sub000/internal/http"
	"github.com/andersondev17/AMMAE-sub000/internal/notify"
	"github.com/andersondev17/AMMAE-sub000/internal/order"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	KafkaBrokers    string
	OrderAPIBaseURL string
	WhatsAppNumber  string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "ammae"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		OrderAPIBaseURL: getEnv("ORDER_API_URL", "http://localhost:5000/api"),
		WhatsAppNumber:  getEnv("WHATSAPP_NUMBER", notify.BusinessNumber),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := catalog.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	catalogService := catalog.NewService(
		catalog.NewMongoRepository(db),
		catalog.NewRedisCache(redisClient),
	)

	carts := cart.NewManager(cart.NewRedisStorage(redisClient), catalogService)

	var events analytics.EventPublisher
	if cfg.KafkaBrokers != "" {
		publisher := analytics.NewPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer publisher.Close()
		events = publisher
	}

	dispatcher := notify.NewDispatcher(cfg.WhatsAppNumber, notify.PassthroughOpener{}, nil)
	orderClient := order.NewClient(cfg.OrderAPIBaseURL, nil)
	orchestrator := checkout.NewOrchestrator(orderClient, dispatcher, events)

	catalogHandler := h.NewCatalogHandler(catalogService, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(carts, catalogService, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(orchestrator, carts, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{product_id}", catalogHandler.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/open", cartHandler.OpenCart)
			r.Post("/close", cartHandler.CloseCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Begin)
			r.Post("/{checkout_id}/contact", checkoutHandler.SubmitContact)
			r.Post("/{checkout_id}/payment", checkoutHandler.SelectPayment)
			r.Post("/{checkout_id}/evidence", checkoutHandler.ConfirmEvidence)
			r.Delete("/{checkout_id}", checkoutHandler.Discard)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
