package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/logger"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&model.WebhookEndpoint{}, &model.DeliveryLog{}))
	return db
}

func TestListActiveEndpoints_Filtering(t *testing.T) {
	db := newTestDB(t)
	log, _ := logger.NewLogger("error")
	r := NewRepository(db, nil, &kafka.Writer{}, log, 0)
	ctx := context.Background()

	seed := []model.WebhookEndpoint{
		{ID: "ep1", SpaceID: "s1", URL: "https://a.example.com/hook", IsActive: true,
			Events: model.StringList{model.EventTestimonialCreated}},
		{ID: "ep2", SpaceID: "s1", URL: "https://b.example.com/hook", IsActive: false,
			Events: model.StringList{model.EventTestimonialCreated}},
		{ID: "ep3", SpaceID: "s1", URL: "https://c.example.com/hook", IsActive: true,
			Events: model.StringList{"space.deleted"}},
		{ID: "ep4", SpaceID: "s2", URL: "https://d.example.com/hook", IsActive: true,
			Events: model.StringList{model.EventTestimonialCreated}},
	}
	for i := range seed {
		assert.NoError(t, db.Create(&seed[i]).Error)
	}

	eps, err := r.ListActiveEndpoints(ctx, "s1", model.EventTestimonialCreated)
	assert.NoError(t, err)
	assert.Len(t, eps, 1)
	assert.Equal(t, "ep1", eps[0].ID)
}

func TestListActiveEndpoints_CacheHit(t *testing.T) {
	db := newTestDB(t) // deliberately empty: a hit must not touch the DB rows
	rdb, mock := redismock.NewClientMock()
	log, _ := logger.NewLogger("error")
	r := NewRepository(db, rdb, &kafka.Writer{}, log, 30*time.Second)

	cached := []model.WebhookEndpoint{
		{ID: "ep9", SpaceID: "s1", URL: "https://cached.example.com/hook", IsActive: true,
			Events: model.StringList{model.EventTestimonialCreated}},
	}
	raw, err := json.Marshal(cached)
	assert.NoError(t, err)
	mock.ExpectGet("endpoints:s1").SetVal(string(raw))

	eps, err := r.ListActiveEndpoints(context.Background(), "s1", model.EventTestimonialCreated)
	assert.NoError(t, err)
	assert.Len(t, eps, 1)
	assert.Equal(t, "ep9", eps[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveEndpoints_CacheMissFallsThrough(t *testing.T) {
	db := newTestDB(t)
	rdb, mock := redismock.NewClientMock()
	log, _ := logger.NewLogger("error")
	r := NewRepository(db, rdb, &kafka.Writer{}, log, 30*time.Second)

	ep := model.WebhookEndpoint{ID: "ep1", SpaceID: "s1", URL: "https://a.example.com/hook",
		IsActive: true, Events: model.StringList{model.EventTestimonialCreated}}
	assert.NoError(t, db.Create(&ep).Error)

	mock.ExpectGet("endpoints:s1").RedisNil()
	mock.Regexp().ExpectSet("endpoints:s1", `.*`, 30*time.Second).SetVal("OK")

	eps, err := r.ListActiveEndpoints(context.Background(), "s1", model.EventTestimonialCreated)
	assert.NoError(t, err)
	assert.Len(t, eps, 1)
	assert.Equal(t, "ep1", eps[0].ID)
}

func TestDeliveryLog_StreamCycle(t *testing.T) {
	db := newTestDB(t)
	log, _ := logger.NewLogger("error")
	r := NewRepository(db, nil, &kafka.Writer{}, log, 0)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		assert.NoError(t, r.CreateDeliveryLog(ctx, &model.DeliveryLog{
			EndpointID:     "ep1",
			EventType:      model.EventTestimonialCreated,
			Payload:        `{"event":"testimonial.created"}`,
			ResponseStatus: 200,
			Attempt:        i,
			Success:        true,
		}))
	}

	pending, err := r.PollUnstreamedLogs(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, pending, 2)

	assert.NoError(t, r.MarkLogStreamed(ctx, pending[0].ID))

	pending, err = r.PollUnstreamedLogs(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Attempt)
}
