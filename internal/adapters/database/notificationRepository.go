package database

import (
	"context"

	"prolearn/internal/apperr"
	"prolearn/internal/core/notification"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryDatabase struct {
	db *gorm.DB
}

func NewNotificationRepositoryDatabase(db *gorm.DB) *NotificationRepositoryDatabase {
	return &NotificationRepositoryDatabase{db: db}
}

func (repo *NotificationRepositoryDatabase) Create(ctx context.Context, n *notification.Notification) error {
	if err := repo.db.WithContext(ctx).Create(n).Error; err != nil {
		return apperr.Storage("create notification", err)
	}
	return nil
}

func (repo *NotificationRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, notFoundOr(err, "notification %s not found", id)
	}
	return &n, nil
}

func (repo *NotificationRepositoryDatabase) ListByRecipient(ctx context.Context, recipientID uuid.UUID, offset, limit int) ([]*notification.Notification, int64, error) {
	base := repo.db.WithContext(ctx).Model(&notification.Notification{}).Where("recipient_id = ?", recipientID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage("count notifications", err)
	}

	var items []*notification.Notification
	err := repo.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, apperr.Storage("list notifications", err)
	}
	return items, total, nil
}

func (repo *NotificationRepositoryDatabase) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	err := repo.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Storage("count unread notifications", err)
	}
	return n, nil
}

func (repo *NotificationRepositoryDatabase) MarkRead(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return apperr.Storage("mark notification read", err)
	}
	return nil
}
