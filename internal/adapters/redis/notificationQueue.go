package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prolearn/internal/core/notification"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const NotificationQueueKey = "notifications:queue"

// NotificationQueueRedis صف اعلان‌ها روی یک list در Redis
type NotificationQueueRedis struct {
	Client *redis.Client
	Key    string
	logger *zap.Logger
}

func NewNotificationQueueRedis(client *redis.Client, logger *zap.Logger) *NotificationQueueRedis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationQueueRedis{
		Client: client,
		Key:    NotificationQueueKey,
		logger: logger,
	}
}

// Enqueue: رویداد را به سر لیست اضافه می‌کند
func (q *NotificationQueueRedis) Enqueue(ctx context.Context, ev *notification.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	if err := q.Client.LPush(ctx, q.Key, payload).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", q.Key, err)
	}
	q.logger.Debug("notification enqueued",
		zap.String("type", string(ev.Type)),
		zap.String("recipient", ev.RecipientID))
	return nil
}

// Dequeue: برداشتن قدیمی‌ترین رویداد با BRPOP
func (q *NotificationQueueRedis) Dequeue(ctx context.Context, timeout time.Duration) (*notification.Event, error) {
	res, err := q.Client.BRPop(ctx, timeout, q.Key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("brpop %s: %w", q.Key, err)
	}
	// res = [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected brpop reply of length %d", len(res))
	}
	var ev notification.Event
	if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
		return nil, fmt.Errorf("decode notification event: %w", err)
	}
	return &ev, nil
}
