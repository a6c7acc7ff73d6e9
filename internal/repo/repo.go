package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RepositoryInterface restricts Repo methods (keeps unit tests mockable).
type RepositoryInterface interface {
	DB(ctx context.Context) *gorm.DB
	Ping(ctx context.Context) error
	ListActiveEndpoints(ctx context.Context, spaceID, event string) ([]model.WebhookEndpoint, error)
	CreateDeliveryLog(ctx context.Context, l *model.DeliveryLog) error
	PollUnstreamedLogs(ctx context.Context, limit int) ([]model.DeliveryLog, error)
	MarkLogStreamed(ctx context.Context, id uint64) error
	PublishDeliveryEvent(ctx context.Context, l model.DeliveryLog) error
}

// Repository implements RepositoryInterface.
type Repository struct {
	db       *gorm.DB
	rdb      *redis.Client
	writer   *kafka.Writer
	log      *zap.SugaredLogger
	cacheTTL time.Duration
}

// NewRepository constructs repo. rdb may be nil or cacheTTL zero to disable
// the endpoint-list cache.
func NewRepository(db *gorm.DB, rdb *redis.Client, w *kafka.Writer, logger *zap.SugaredLogger, cacheTTL time.Duration) *Repository {
	return &Repository{db: db, rdb: rdb, writer: w, log: logger, cacheTTL: cacheTTL}
}

// DB returns underlying *gorm.DB
func (r *Repository) DB(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func endpointCacheKey(spaceID string) string { return fmt.Sprintf("endpoints:%s", spaceID) }

// ListActiveEndpoints loads the space's active endpoints subscribed to event.
// The active set is cached per space; the event filter runs after the cache
// read so every event shares one entry. Cache errors fall through to the DB.
func (r *Repository) ListActiveEndpoints(ctx context.Context, spaceID, event string) ([]model.WebhookEndpoint, error) {
	var active []model.WebhookEndpoint

	if cached, ok := r.cachedEndpoints(ctx, spaceID); ok {
		active = cached
	} else {
		err := r.db.WithContext(ctx).
			Where("space_id = ? AND is_active = ?", spaceID, true).
			Order("created_at, id").
			Find(&active).Error
		if err != nil {
			return nil, err
		}
		r.cacheEndpoints(ctx, spaceID, active)
	}

	subscribed := make([]model.WebhookEndpoint, 0, len(active))
	for _, ep := range active {
		if ep.Events.Contains(event) {
			subscribed = append(subscribed, ep)
		}
	}
	return subscribed, nil
}

func (r *Repository) cachedEndpoints(ctx context.Context, spaceID string) ([]model.WebhookEndpoint, bool) {
	if r.rdb == nil || r.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := r.rdb.Get(ctx, endpointCacheKey(spaceID)).Result()
	if err != nil {
		if err != redis.Nil {
			r.log.Warnf("endpoint cache get space=%s: %v", spaceID, err)
		}
		return nil, false
	}
	var eps []model.WebhookEndpoint
	if err := json.Unmarshal([]byte(raw), &eps); err != nil {
		r.log.Warnf("endpoint cache decode space=%s: %v", spaceID, err)
		return nil, false
	}
	return eps, true
}

func (r *Repository) cacheEndpoints(ctx context.Context, spaceID string, eps []model.WebhookEndpoint) {
	if r.rdb == nil || r.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(eps)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, endpointCacheKey(spaceID), raw, r.cacheTTL).Err(); err != nil {
		r.log.Warnf("endpoint cache set space=%s: %v", spaceID, err)
	}
}

// CreateDeliveryLog inserts one attempt record.
func (r *Repository) CreateDeliveryLog(ctx context.Context, l *model.DeliveryLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// PollUnstreamedLogs pulls attempt records not yet exported to Kafka.
func (r *Repository) PollUnstreamedLogs(ctx context.Context, limit int) ([]model.DeliveryLog, error) {
	var logs []model.DeliveryLog
	err := r.db.WithContext(ctx).Where("streamed = ?", false).Order("created_at").Limit(limit).Find(&logs).Error
	return logs, err
}

// MarkLogStreamed sets the streamed flag.
func (r *Repository) MarkLogStreamed(ctx context.Context, id uint64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.DeliveryLog{}).Where("id = ?", id).
		Updates(map[string]interface{}{"streamed": true, "streamed_at": &now}).Error
}

// PublishDeliveryEvent sends one attempt record to the analytics topic.
func (r *Repository) PublishDeliveryEvent(ctx context.Context, l model.DeliveryLog) error {
	value, err := json.Marshal(l)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(l.EndpointID),
		Value: value,
		Time:  time.Now(),
	}
	return r.writer.WriteMessages(ctx, msg)
}
