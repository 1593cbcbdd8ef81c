package media

import (
	"context"
	"io"
	"time"
)

// Store پورت ذخیره فایل‌های رسانه؛ reference نامی تولیدشده و مستقل از نام فایل کاربر است
type Store interface {
	Store(ctx context.Context, body io.Reader, originalName, contentType string) (string, error)
	Resolve(ctx context.Context, ref string) (*File, error)
	// Delete نبودن فایل خطا محسوب نمی‌شود
	Delete(ctx context.Context, ref string) error
	List(ctx context.Context) ([]StoredFile, error)
}

type File struct {
	Body    io.ReadCloser
	Name    string
	Size    int64
	ModTime time.Time
}

type StoredFile struct {
	Name    string
	ModTime time.Time
}

// Upload فایل دریافتی از درخواست
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
