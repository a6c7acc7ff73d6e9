package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/config"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/logger"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/model"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/repo"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/service"
	httptransport "github.com/imaadidikshit/TrustFlow-App-sub002/internal/transport/http"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// 1. load config
	cfg, err := config.Load("internal/config/config.yaml")
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	// 2. init logger
	log, err := logger.NewLogger(cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	// 3. postgres
	gdb, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{PrepareStmt: true})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gdb.AutoMigrate(&model.WebhookEndpoint{}, &model.DeliveryLog{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// 4. redis (endpoint-list cache)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	// 5. kafka writer (delivery-log analytics stream)
	kw := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	// 6. repo & dispatch service
	repository := repo.NewRepository(gdb, rdb, kw, log, cfg.Webhook.CacheTTL())
	svc := service.NewDispatchService(repository, cfg.Webhook, log)

	// 7. gin router
	router := httptransport.NewRouter(svc, repository, cfg.RateLimit, log)

	// 8. serve
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Infof("webhook-server listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
