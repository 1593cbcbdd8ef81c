package notificationapp

import (
	"context"
	"time"

	"prolearn/internal/apperr"
	notificationEntity "prolearn/internal/core/notification"
	notificationPort "prolearn/internal/ports/notification"
	"prolearn/internal/ports/pagination"
	userPort "prolearn/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// NotificationService ثبت و خواندن اعلان‌ها؛ Emit فقط در صف می‌گذارد
type NotificationService struct {
	NotificationRepository notificationPort.NotificationRepository
	UserRepository         userPort.UserRepository
	Queue                  notificationPort.Queue
	logger                 *zap.Logger
	now                    func() time.Time
}

func NewNotificationService(
	repo notificationPort.NotificationRepository,
	userRepo userPort.UserRepository,
	queue notificationPort.Queue,
	logger *zap.Logger,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		NotificationRepository: repo,
		UserRepository:         userRepo,
		Queue:                  queue,
		logger:                 logger,
		now:                    time.Now,
	}
}

// Emit هرگز خطا به فراخواننده برنمی‌گرداند؛ اعلان به خود کاربر حذف می‌شود
func (s *NotificationService) Emit(ctx context.Context, recipientID, actorID uuid.UUID, typ notificationEntity.Type, entityID string) {
	if recipientID == uuid.Nil || recipientID == actorID {
		return
	}
	ev := &notificationEntity.Event{
		RecipientID: recipientID.String(),
		ActorID:     actorID.String(),
		Type:        typ,
		EntityID:    entityID,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.Queue.Enqueue(ctx, ev); err != nil {
		s.logger.Warn("⚠️ could not enqueue notification",
			zap.String("type", string(typ)),
			zap.String("recipient", ev.RecipientID),
			zap.Error(err))
	}
}

// Record اعلان دریافتی از صف را ذخیره می‌کند
func (s *NotificationService) Record(ctx context.Context, ev *notificationEntity.Event) (*notificationEntity.Notification, error) {
	recipient, err := uuid.FromString(ev.RecipientID)
	if err != nil {
		return nil, apperr.Invalid("invalid recipient id %q", ev.RecipientID)
	}
	actor, err := uuid.FromString(ev.ActorID)
	if err != nil {
		return nil, apperr.Invalid("invalid actor id %q", ev.ActorID)
	}
	n := &notificationEntity.Notification{
		RecipientID: recipient,
		ActorID:     actor,
		Type:        ev.Type,
		EntityID:    ev.EntityID,
		CreatedAt:   s.now().UTC(),
		Read:        false,
	}
	if err := s.NotificationRepository.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, username string, page, size int) (*pagination.Page[*notificationPort.NotificationDTO], error) {
	recipient, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	page, size = pagination.Normalize(page, size)
	items, total, err := s.NotificationRepository.ListByRecipient(ctx, recipient.ID, pagination.Offset(page, size), size)
	if err != nil {
		return nil, err
	}

	actors := map[uuid.UUID]string{}
	dtos := make([]*notificationPort.NotificationDTO, 0, len(items))
	for _, n := range items {
		name, ok := actors[n.ActorID]
		if !ok {
			if a, err := s.UserRepository.FindByID(ctx, n.ActorID); err == nil {
				name = a.Username
			}
			actors[n.ActorID] = name
		}
		dtos = append(dtos, &notificationPort.NotificationDTO{
			ID:          n.ID.String(),
			RecipientID: n.RecipientID.String(),
			Actor:       name,
			ActorID:     n.ActorID.String(),
			Type:        string(n.Type),
			EntityID:    n.EntityID,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		})
	}
	return pagination.New(dtos, page, size, total), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, username string) (int64, error) {
	recipient, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return s.NotificationRepository.CountUnread(ctx, recipient.ID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, username string) error {
	nid, err := uuid.FromString(id)
	if err != nil {
		return apperr.NotFound("notification %s not found", id)
	}
	n, err := s.NotificationRepository.FindByID(ctx, nid)
	if err != nil {
		return err
	}
	requester, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if n.RecipientID != requester.ID {
		return apperr.Forbidden("notification %s does not belong to %s", id, username)
	}
	if n.Read {
		return nil
	}
	return s.NotificationRepository.MarkRead(ctx, nid)
}
