package workers

import (
	"context"
	"time"

	mediaPort "prolearn/internal/ports/media"

	"go.uber.org/zap"
)

// MediaReferences بررسی اینکه کدام فایل‌ها هنوز در post_media ثبت شده‌اند
type MediaReferences interface {
	ReferencedMedia(ctx context.Context, refs []string) (map[string]struct{}, error)
}

// MediaJanitor فایل‌هایی را که هیچ رکوردی به آن‌ها اشاره نمی‌کند و از Grace قدیمی‌ترند پاک می‌کند
type MediaJanitor struct {
	Store     mediaPort.Store
	Refs      MediaReferences
	Interval  time.Duration
	Grace     time.Duration
	BatchSize int
	Logger    *zap.Logger
	now       func() time.Time
}

func NewMediaJanitor(store mediaPort.Store, refs MediaReferences, interval, grace time.Duration, logger *zap.Logger) *MediaJanitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &MediaJanitor{
		Store:     store,
		Refs:      refs,
		Interval:  interval,
		Grace:     grace,
		BatchSize: 500,
		Logger:    logger,
		now:       time.Now,
	}
}

func (j *MediaJanitor) Run(ctx context.Context) {
	j.Logger.Info("🚀 MediaJanitor started", zap.Duration("interval", j.Interval), zap.Duration("grace", j.Grace))
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			j.Logger.Info("🛑 Media janitor stopped")
			return
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				j.Logger.Error("❌ media sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep یک دور پاکسازی؛ تعداد فایل‌های حذف‌شده را برمی‌گرداند
func (j *MediaJanitor) Sweep(ctx context.Context) (int, error) {
	files, err := j.Store.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := j.now().Add(-j.Grace)
	var candidates []string
	for _, f := range files {
		if f.ModTime.Before(cutoff) {
			candidates = append(candidates, f.Name)
		}
	}

	removed := 0
	for i := 0; i < len(candidates); i += j.BatchSize {
		end := min(i+j.BatchSize, len(candidates))
		batch := candidates[i:end]

		referenced, err := j.Refs.ReferencedMedia(ctx, batch)
		if err != nil {
			return removed, err
		}
		for _, name := range batch {
			if _, ok := referenced[name]; ok {
				continue
			}
			if err := j.Store.Delete(ctx, name); err != nil {
				j.Logger.Warn("⚠️ could not remove orphan media", zap.String("ref", name), zap.Error(err))
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		j.Logger.Info("🧹 orphan media removed", zap.Int("count", removed))
	}
	return removed, nil
}
