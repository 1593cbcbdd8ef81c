package followerapp

import (
	"context"

	"prolearn/internal/apperr"
	followerEntity "prolearn/internal/core/follower"
	notificationEntity "prolearn/internal/core/notification"
	followerPort "prolearn/internal/ports/follower"
	notificationPort "prolearn/internal/ports/notification"
	userPort "prolearn/internal/ports/user"

	"go.uber.org/zap"
)

type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
	Notifications      notificationPort.Emitter
	logger             *zap.Logger
}

func NewFollowerService(
	repo followerPort.FollowerRepository,
	userRepo userPort.UserRepository,
	notifications notificationPort.Emitter,
	logger *zap.Logger,
) *FollowerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowerService{
		FollowerRepository: repo,
		UserRepository:     userRepo,
		Notifications:      notifications,
		logger:             logger,
	}
}

// FollowUser تکراری بودن رابطه خطا نیست؛ فقط رابطه جدید اعلان FOLLOW می‌سازد
func (s *FollowerService) FollowUser(ctx context.Context, followerUsername, followeeUsername string) error {
	if followerUsername == followeeUsername {
		s.logger.Warn("⚠️ Cannot follow yourself", zap.String("username", followerUsername))
		return apperr.Invalid("cannot follow yourself")
	}
	follower, err := s.UserRepository.FindByUsername(ctx, followerUsername)
	if err != nil {
		return err
	}
	followee, err := s.UserRepository.FindByUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}

	created, err := s.FollowerRepository.FollowUser(ctx, &followerEntity.Follower{
		UserID:     followee.ID,
		FollowerID: follower.ID,
	})
	if err != nil {
		return err
	}
	if created && s.Notifications != nil {
		s.Notifications.Emit(ctx, followee.ID, follower.ID, notificationEntity.TypeFollow, follower.ID.String())
	}
	return nil
}

func (s *FollowerService) UnfollowUser(ctx context.Context, followerUsername, followeeUsername string) error {
	follower, err := s.UserRepository.FindByUsername(ctx, followerUsername)
	if err != nil {
		return err
	}
	followee, err := s.UserRepository.FindByUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	return s.FollowerRepository.UnfollowUser(ctx, follower.ID, followee.ID)
}

func (s *FollowerService) GetFollowers(ctx context.Context, username string) ([]*followerPort.UserSummaryDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	followers, err := s.FollowerRepository.GetFollowersByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	// اگر slice خالی بود، آرایه خالی برمی‌گردد نه null
	out := make([]*followerPort.UserSummaryDTO, 0, len(followers))
	for _, f := range followers {
		out = append(out, &followerPort.UserSummaryDTO{
			ID:             f.Follower.ID.String(),
			Username:       f.Follower.Username,
			ProfilePicture: f.Follower.ProfilePicture,
		})
	}
	return out, nil
}

func (s *FollowerService) GetFollowing(ctx context.Context, username string) ([]*followerPort.UserSummaryDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	following, err := s.FollowerRepository.GetFollowingByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	out := make([]*followerPort.UserSummaryDTO, 0, len(following))
	for _, f := range following {
		out = append(out, &followerPort.UserSummaryDTO{
			ID:             f.User.ID.String(),
			Username:       f.User.Username,
			ProfilePicture: f.User.ProfilePicture,
		})
	}
	return out, nil
}

func (s *FollowerService) IsFollowing(ctx context.Context, followerUsername, followeeUsername string) (bool, error) {
	follower, err := s.UserRepository.FindByUsername(ctx, followerUsername)
	if err != nil {
		return false, err
	}
	followee, err := s.UserRepository.FindByUsername(ctx, followeeUsername)
	if err != nil {
		return false, err
	}
	return s.FollowerRepository.IsFollowing(ctx, follower.ID, followee.ID)
}
