// Package testutil ابزارهای مشترک تست: دیتابیس sqlite در حافظه و ساخت داده نمونه
package testutil

import (
	"fmt"
	"testing"
	"time"

	"prolearn/internal/adapters/database"
	"prolearn/internal/core/post"
	"prolearn/internal/core/user"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB یک دیتابیس sqlite در حافظه با اسکیمای کامل؛ یک اتصال تا همه کوئری‌ها همان دیتابیس را ببینند
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.Must(uuid.NewV4()).String())
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) *user.User {
	t.Helper()
	u := &user.User{
		Username:       username,
		Email:          username + "@example.com",
		Password:       "x",
		ProfilePicture: "https://cdn.example.com/" + username + ".png",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost پستی با زمان ایجاد مشخص برای تست ترتیب
func CreatePost(t testing.TB, db *gorm.DB, owner *user.User, title string, category post.Category, createdAt time.Time) *post.Post {
	t.Helper()
	p := &post.Post{
		Title:     title,
		Category:  category,
		OwnerID:   owner.ID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Omit("Owner").Create(p).Error)
	return p
}
