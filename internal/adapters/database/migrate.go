package database

import (
	"fmt"

	"prolearn/internal/core/follower"
	"prolearn/internal/core/learningplan"
	"prolearn/internal/core/notification"
	"prolearn/internal/core/post"
	"prolearn/internal/core/user"

	"gorm.io/gorm"
)

// Models جداول به ترتیب وابستگی
func Models() []any {
	return []any{
		&user.User{},
		&post.Post{},
		&post.PostMedia{},
		&post.Comment{},
		&post.Like{},
		&follower.Follower{},
		&notification.Notification{},
		&learningplan.LearningPlan{},
		&learningplan.LearningStep{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
