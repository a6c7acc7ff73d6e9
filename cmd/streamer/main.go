package main

import (
	"context"
	"fmt"
	"time"

	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/config"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/logger"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/segmentio/kafka-go"
)

// Exports delivery-log rows to the Kafka analytics topic. This is a
// best-effort observability stream; webhook delivery itself never goes
// through a broker.
func main() {
	cfg, err := config.Load("internal/config/config.yaml")
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	log, err := logger.NewLogger(cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	gdb, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{PrepareStmt: true})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	kw := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	repository := repo.NewRepository(gdb, nil, kw, log, 0)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	log.Info("webhook-streamer started")
	for range ticker.C {
		ctx := context.Background()
		logs, err := repository.PollUnstreamedLogs(ctx, 100)
		if err != nil {
			log.Errorf("poll delivery logs: %v", err)
			continue
		}
		for _, l := range logs {
			if err := repository.PublishDeliveryEvent(ctx, l); err != nil {
				log.Errorf("publish id=%d: %v", l.ID, err)
				continue
			}
			if err := repository.MarkLogStreamed(ctx, l.ID); err != nil {
				log.Errorf("mark streamed id=%d: %v", l.ID, err)
			} else {
				log.Infof("delivery log %d streamed", l.ID)
			}
		}
	}
}
