package database

import (
	"context"
	"errors"

	"prolearn/internal/apperr"
	"prolearn/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserRepositoryDatabase پیاده‌سازی UserRepository برای دیتابیس
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase سازنده UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, apperr.Storage("create user", err)
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error) {
	var u user.User
	err := repo.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&u).Error
	if err != nil {
		return nil, notFoundOr(err, "user %q not found", username)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFoundOr(err, "user %q not found", username)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFoundOr(err, "user %s not found", id)
	}
	return &u, nil
}

// notFoundOr خطای ErrRecordNotFound را به NotFound و بقیه را به Storage تبدیل می‌کند
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return apperr.Storage("query failed", err)
}
