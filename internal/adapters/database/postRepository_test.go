package database_test

import (
	"context"
	"testing"
	"time"

	"prolearn/internal/adapters/database"
	"prolearn/internal/apperr"
	"prolearn/internal/core/follower"
	"prolearn/internal/core/post"
	postPort "prolearn/internal/ports/post"
	"prolearn/internal/testutil"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_FindByIDLoadsAggregate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	p := testutil.CreatePost(t, db, alice, "Intro to Go", post.CategoryCoding, time.Now())

	require.NoError(t, repo.AddMedia(ctx, []*post.PostMedia{
		{PostID: p.ID, MediaURL: "b.png", Type: post.MediaImage, Position: 1},
		{PostID: p.ID, MediaURL: "a.mp4", Type: post.MediaVideo, Position: 0},
	}))
	require.NoError(t, repo.AddComment(ctx, &post.Comment{PostID: p.ID, UserID: bob.ID, Content: "nice"}))
	created, err := repo.AddLike(ctx, &post.Like{PostID: p.ID, UserID: bob.ID})
	require.NoError(t, err)
	assert.True(t, created)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner.Username)
	require.Len(t, got.Media, 2)
	assert.Equal(t, "a.mp4", got.Media[0].MediaURL)
	assert.Equal(t, "b.png", got.Media[1].MediaURL)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "bob", got.Comments[0].User.Username)
	assert.Len(t, got.Likes, 1)
}

func TestPostRepository_FindByIDMissing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)

	_, err := repo.FindByID(context.Background(), uuid.Must(uuid.NewV4()))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPostRepository_AddLikeIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	p := testutil.CreatePost(t, db, alice, "t", post.CategoryOther, time.Now())

	first, err := repo.AddLike(ctx, &post.Like{PostID: p.ID, UserID: alice.ID})
	require.NoError(t, err)
	second, err := repo.AddLike(ctx, &post.Like{PostID: p.ID, UserID: alice.ID})
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	var n int64
	require.NoError(t, db.Model(&post.Like{}).Where("post_id = ?", p.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	require.NoError(t, repo.RemoveLike(ctx, p.ID, alice.ID))
	require.NoError(t, repo.RemoveLike(ctx, p.ID, alice.ID))
	require.NoError(t, db.Model(&post.Like{}).Where("post_id = ?", p.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	p := testutil.CreatePost(t, db, alice, "t", post.CategoryOther, time.Now())
	require.NoError(t, repo.AddMedia(ctx, []*post.PostMedia{{PostID: p.ID, MediaURL: "x.png", Type: post.MediaImage}}))
	require.NoError(t, repo.AddComment(ctx, &post.Comment{PostID: p.ID, UserID: alice.ID, Content: "c"}))
	_, err := repo.AddLike(ctx, &post.Like{PostID: p.ID, UserID: alice.ID})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, p.ID))

	for _, m := range []any{&post.Post{}, &post.PostMedia{}, &post.Comment{}, &post.Like{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
}

func TestPostRepository_ListOrdersAndFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreatePost(t, db, alice, "oldest", post.CategoryCoding, base)
	testutil.CreatePost(t, db, bob, "middle", post.CategoryDataScience, base.Add(time.Hour))
	testutil.CreatePost(t, db, alice, "newest", post.CategoryCoding, base.Add(2*time.Hour))

	all, total, err := repo.List(ctx, postPort.ListFilter{}, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 2)
	assert.Equal(t, "newest", all[0].Title)
	assert.Equal(t, "middle", all[1].Title)

	rest, _, err := repo.List(ctx, postPort.ListFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "oldest", rest[0].Title)

	coding, total, err := repo.List(ctx, postPort.ListFilter{Category: post.CategoryCoding}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, coding, 2)

	byBob, total, err := repo.List(ctx, postPort.ListFilter{OwnerID: bob.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "middle", byBob[0].Title)
}

func TestPostRepository_ListFollowedBy(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	testutil.CreatePost(t, db, bob, "from bob", post.CategoryOther, time.Now())
	testutil.CreatePost(t, db, carol, "from carol", post.CategoryOther, time.Now())
	require.NoError(t, db.Omit("User", "Follower").Create(&follower.Follower{UserID: bob.ID, FollowerID: alice.ID}).Error)

	feed, total, err := repo.List(ctx, postPort.ListFilter{FollowedBy: alice.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, feed, 1)
	assert.Equal(t, "from bob", feed[0].Title)
}

func TestPostRepository_FindCommentOnOtherPost(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	p1 := testutil.CreatePost(t, db, alice, "p1", post.CategoryOther, time.Now())
	p2 := testutil.CreatePost(t, db, alice, "p2", post.CategoryOther, time.Now())
	c := &post.Comment{PostID: p1.ID, UserID: alice.ID, Content: "hi"}
	require.NoError(t, repo.AddComment(ctx, c))

	_, err := repo.FindComment(ctx, p2.ID, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	got, err := repo.FindComment(ctx, p1.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User.Username)
}

func TestPostRepository_ReferencedMedia(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	p := testutil.CreatePost(t, db, alice, "t", post.CategoryOther, time.Now())
	require.NoError(t, repo.AddMedia(ctx, []*post.PostMedia{{PostID: p.ID, MediaURL: "kept.png", Type: post.MediaImage}}))

	refs, err := repo.ReferencedMedia(ctx, []string{"kept.png", "orphan.png"})
	require.NoError(t, err)
	assert.Contains(t, refs, "kept.png")
	assert.NotContains(t, refs, "orphan.png")
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db := testutil.NewDB(t)
	runner := database.NewTxRunner(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")

	err := runner.InTx(ctx, func(repos postPort.Repositories) error {
		if err := repos.Posts.Create(ctx, &post.Post{Title: "t", Category: post.CategoryOther, OwnerID: alice.ID}); err != nil {
			return err
		}
		return apperr.Invalid("boom")
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&post.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}
