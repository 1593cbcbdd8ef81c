package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"prolearn/internal/apperr"
	mediaPort "prolearn/internal/ports/media"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const maxExtLen = 10

// MediaStore فایل‌ها را زیر یک دایرکتوری ریشه با نام تصادفی ذخیره می‌کند
type MediaStore struct {
	root   string
	logger *zap.Logger
}

func NewMediaStore(root string, logger *zap.Logger) (*MediaStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media root %s: %w", abs, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaStore{root: abs, logger: logger}, nil
}

func (s *MediaStore) Root() string { return s.root }

func (s *MediaStore) Store(ctx context.Context, body io.Reader, originalName, contentType string) (string, error) {
	if strings.Contains(originalName, "..") {
		return "", apperr.Storage(fmt.Sprintf("invalid file name %q", originalName), nil)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", apperr.Storage("generate media name", err)
	}
	ref := id.String() + extension(originalName)
	path := filepath.Join(s.root, ref)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperr.Storage("create media file", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", apperr.Storage("write media file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", apperr.Storage("close media file", err)
	}

	s.logger.Debug("media stored",
		zap.String("ref", ref),
		zap.String("original", originalName),
		zap.String("contentType", contentType))
	return ref, nil
}

func (s *MediaStore) Resolve(ctx context.Context, ref string) (*mediaPort.File, error) {
	if !safeRef(ref) {
		return nil, apperr.NotFound("media %q not found", ref)
	}
	path := filepath.Join(s.root, ref)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, apperr.NotFound("media %q not found", ref)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("media %q not found", ref)
		}
		return nil, apperr.Storage("open media file", err)
	}
	return &mediaPort.File{Body: f, Name: ref, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (s *MediaStore) Delete(ctx context.Context, ref string) error {
	if !safeRef(ref) {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, ref))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return apperr.Storage(fmt.Sprintf("delete media %q", ref), err)
}

func (s *MediaStore) List(ctx context.Context) ([]mediaPort.StoredFile, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, apperr.Storage("list media root", err)
	}
	out := make([]mediaPort.StoredFile, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, mediaPort.StoredFile{Name: e.Name(), ModTime: info.ModTime()})
	}
	return out, nil
}

// extension پسوند تمیزشده نام اصلی؛ فقط حروف کوچک و رقم
func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filepath.Clean(name))))
	if len(ext) < 2 || len(ext)-1 > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func safeRef(ref string) bool {
	if ref == "" || ref == "." || strings.Contains(ref, "..") {
		return false
	}
	return !strings.ContainsAny(ref, `/\`)
}

// ContentType نوع محتوا برای ارسال فایل بر اساس پسوند
func ContentType(ref string) string {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
