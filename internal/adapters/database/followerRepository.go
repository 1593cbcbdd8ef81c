package database

import (
	"context"

	"prolearn/internal/apperr"
	"prolearn/internal/core/follower"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepositoryDatabase پیاده‌سازی FollowerRepository برای دیتابیس
type FollowerRepositoryDatabase struct {
	db *gorm.DB
}

// NewFollowerRepositoryDatabase سازنده FollowerRepositoryDatabase
func NewFollowerRepositoryDatabase(db *gorm.DB) *FollowerRepositoryDatabase {
	return &FollowerRepositoryDatabase{db: db}
}

func (repo *FollowerRepositoryDatabase) FollowUser(ctx context.Context, f *follower.Follower) (bool, error) {
	res := repo.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return false, apperr.Storage("follow user", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (repo *FollowerRepositoryDatabase) UnfollowUser(ctx context.Context, followerID, followeeID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followeeID).
		Delete(&follower.Follower{}).Error
	if err != nil {
		return apperr.Storage("unfollow user", err)
	}
	return nil
}

func (repo *FollowerRepositoryDatabase) GetFollowersByUserID(ctx context.Context, userID uuid.UUID) ([]*follower.Follower, error) {
	var followers []*follower.Follower
	err := repo.db.WithContext(ctx).
		Preload("Follower").
		Where("followed_id = ?", userID).
		Order("created_at DESC").
		Find(&followers).Error
	if err != nil {
		return nil, apperr.Storage("list followers", err)
	}
	return followers, nil
}

func (repo *FollowerRepositoryDatabase) GetFollowingByUserID(ctx context.Context, followerID uuid.UUID) ([]*follower.Follower, error) {
	var following []*follower.Follower
	err := repo.db.WithContext(ctx).
		Preload("User").
		Where("follower_id = ?", followerID).
		Order("created_at DESC").
		Find(&following).Error
	if err != nil {
		return nil, apperr.Storage("list following", err)
	}
	return following, nil
}

func (repo *FollowerRepositoryDatabase) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&follower.Follower{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Storage("check following", err)
	}
	return count > 0, nil
}
