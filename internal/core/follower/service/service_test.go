package followerapp

import (
	"context"
	"testing"

	"prolearn/internal/adapters/database"
	"prolearn/internal/apperr"
	notificationEntity "prolearn/internal/core/notification"
	"prolearn/internal/testutil"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmitter struct {
	types []notificationEntity.Type
}

func (c *countingEmitter) Emit(_ context.Context, _, _ uuid.UUID, typ notificationEntity.Type, _ string) {
	c.types = append(c.types, typ)
}

func TestFollowFlow(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "alice")
	testutil.CreateUser(t, db, "bob")
	emitter := &countingEmitter{}
	svc := NewFollowerService(
		database.NewFollowerRepositoryDatabase(db),
		database.NewUserRepositoryDatabase(db),
		emitter,
		nil,
	)
	ctx := context.Background()

	err := svc.FollowUser(ctx, "alice", "alice")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	err = svc.FollowUser(ctx, "alice", "ghost")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.FollowUser(ctx, "alice", "bob"))
	require.NoError(t, svc.FollowUser(ctx, "alice", "bob"))
	assert.Equal(t, []notificationEntity.Type{notificationEntity.TypeFollow}, emitter.types)

	followers, err := svc.GetFollowers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	following, err := svc.GetFollowing(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	ok, err := svc.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.UnfollowUser(ctx, "alice", "bob"))
	require.NoError(t, svc.UnfollowUser(ctx, "alice", "bob"))
	following, err = svc.GetFollowing(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, following)
	assert.Empty(t, following)
}
