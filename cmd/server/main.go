package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nkravets/eshop/internal/api"
	"github.com/nkravets/eshop/internal/config"
	"github.com/nkravets/eshop/internal/handler"
	"github.com/nkravets/eshop/internal/infrastructure/auth"
	"github.com/nkravets/eshop/internal/infrastructure/kafka"
	"github.com/nkravets/eshop/internal/infrastructure/redis"
	"github.com/nkravets/eshop/internal/infrastructure/upload"
	"github.com/nkravets/eshop/internal/observability"
	core "github.com/nkravets/eshop/internal/repository/postgres"
	service "github.com/nkravets/eshop/internal/services"

	_ "github.com/lib/pq"
)

func main() {
	shutdown := observability.Setup("eshop-backend")
	defer shutdown(context.Background())

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	productRepo := core.NewPostgresProductRepository(db)
	categoryRepo := core.NewPostgresCategoryRepository(db)
	userRepo := core.NewPostgresUserRepository(db)
	redisClient := redis.NewClient(cfg.RedisAddr)
	defer redisClient.Close()
	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := kafka.NewConsumer(cfg.KafkaBrokers, "catalog", "eshop-backend", productRepo, redisClient)
	go consumer.Consume(consumerCtx)
	defer consumer.Close()
	defer stopConsumer()

	codec := auth.NewCodec([]byte(cfg.JWTSecret), cfg.TokenTTL)
	exemptions := auth.NewExemptions(
		auth.ExemptPath(cfg.APIPrefix+"/users/login"),
		auth.ExemptPath(cfg.APIPrefix+"/users/register"),
		auth.ExemptPattern("^"+cfg.APIPrefix+"/products", http.MethodGet, http.MethodOptions),
		auth.ExemptPattern("^"+cfg.APIPrefix+"/categories", http.MethodGet, http.MethodOptions),
		auth.ExemptPattern("^/public/uploads/", http.MethodGet),
		auth.ExemptPath("/healthz"),
		auth.ExemptPath("/metrics"),
	)
	gate := auth.NewGate(codec, exemptions, auth.AdminOnly{})

	diskStore, err := upload.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}
	pipeline := upload.NewPipeline(diskStore, cfg.PublicBaseURL)

	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, redisClient, producer)
	userSvc := service.NewUserService(userRepo, codec, redisClient, cfg.TokenTTL)

	router := api.SetupRouter(
		cfg,
		gate,
		handler.NewUsers(userSvc),
		handler.NewProducts(catalogSvc, pipeline),
		handler.NewCategories(catalogSvc),
	)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		log.Printf("Starting server on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
