package notification

import (
	"context"
	"time"

	"prolearn/internal/core/notification"

	"github.com/gofrs/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, offset, limit int) ([]*notification.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// Queue صف رویدادهای اعلان بین سرویس‌ها و NotificationWorker
type Queue interface {
	Enqueue(ctx context.Context, ev *notification.Event) error
	// Dequeue در صورت خالی ماندن صف تا timeout مقدار nil برمی‌گرداند
	Dequeue(ctx context.Context, timeout time.Duration) (*notification.Event, error)
}

// Emitter ثبت اعلان به صورت fire-and-forget
type Emitter interface {
	Emit(ctx context.Context, recipientID, actorID uuid.UUID, typ notification.Type, entityID string)
}

type NotificationDTO struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	Actor       string    `json:"actor"`
	ActorID     string    `json:"actorId"`
	Type        string    `json:"type"`
	EntityID    string    `json:"entityId"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}
