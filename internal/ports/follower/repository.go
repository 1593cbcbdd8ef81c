package follower

import (
	"context"

	"prolearn/internal/core/follower"

	"github.com/gofrs/uuid"
)

// FollowerRepository پورت برای ذخیره‌سازی و بازیابی دنبال‌کنندگان
type FollowerRepository interface {
	// FollowUser در صورت وجود رابطه قبلی created=false برمی‌گرداند
	FollowUser(ctx context.Context, f *follower.Follower) (created bool, err error)
	UnfollowUser(ctx context.Context, followerID, followeeID uuid.UUID) error
	GetFollowersByUserID(ctx context.Context, userID uuid.UUID) ([]*follower.Follower, error)
	GetFollowingByUserID(ctx context.Context, followerID uuid.UUID) ([]*follower.Follower, error)
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
}

// DTOها برای UseCase
type FollowerDTO struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	FollowerID string `json:"followerId"`
}

type UserSummaryDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}
