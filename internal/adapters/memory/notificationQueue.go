// Package memory صف درون‌فرایندی برای وقتی که Redis تنظیم نشده
package memory

import (
	"context"
	"errors"
	"time"

	"prolearn/internal/core/notification"
)

var ErrQueueFull = errors.New("notification queue is full")

type NotificationQueue struct {
	ch chan *notification.Event
}

func NewNotificationQueue(capacity int) *NotificationQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &NotificationQueue{ch: make(chan *notification.Event, capacity)}
}

// Enqueue بلاک نمی‌شود؛ صف پر خطا برمی‌گرداند
func (q *NotificationQueue) Enqueue(ctx context.Context, ev *notification.Event) error {
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *NotificationQueue) Dequeue(ctx context.Context, timeout time.Duration) (*notification.Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-q.ch:
		return ev, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
