package workers

import (
	"context"
	"errors"
	"time"

	notificationEntity "prolearn/internal/core/notification"
	notificationPort "prolearn/internal/ports/notification"

	"go.uber.org/zap"
)

// NotificationRecorder ذخیره یک رویداد اعلان (NotificationService)
type NotificationRecorder interface {
	Record(ctx context.Context, ev *notificationEntity.Event) (*notificationEntity.Notification, error)
}

type NotificationWorker struct {
	Queue       notificationPort.Queue
	Recorder    NotificationRecorder
	PollTimeout time.Duration
	Backoff     time.Duration
	Logger      *zap.Logger
}

func NewNotificationWorker(queue notificationPort.Queue, recorder NotificationRecorder, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		Queue:       queue,
		Recorder:    recorder,
		PollTimeout: 2 * time.Second,
		Backoff:     time.Second,
		Logger:      logger,
	}
}

// Run گوش دادن به صف و ثبت اعلان‌ها تا لغو context
func (w *NotificationWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 NotificationWorker started")
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 Notification worker stopped")
			return
		default:
		}

		ev, err := w.Queue.Dequeue(ctx, w.PollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.Logger.Error("❌ Error reading notification queue", zap.Error(err))
			w.sleep(ctx)
			continue
		}
		if ev == nil {
			continue
		}
		w.process(ctx, ev)
	}
}

func (w *NotificationWorker) process(ctx context.Context, ev *notificationEntity.Event) {
	n, err := w.Recorder.Record(ctx, ev)
	if err != nil {
		// رویداد خراب دوباره در صف قرار نمی‌گیرد
		w.Logger.Warn("⚠️ could not record notification",
			zap.String("type", string(ev.Type)),
			zap.String("recipient", ev.RecipientID),
			zap.Error(err))
		return
	}
	w.Logger.Debug("✅ notification recorded",
		zap.String("id", n.ID.String()),
		zap.String("type", string(n.Type)))
}

func (w *NotificationWorker) sleep(ctx context.Context) {
	t := time.NewTimer(w.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
