package database

import (
	"context"
	"errors"

	"prolearn/internal/apperr"
	"prolearn/internal/core/follower"
	"prolearn/internal/core/post"
	postPort "prolearn/internal/ports/post"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase پیاده‌سازی PostRepository برای دیتابیس
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase سازنده PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) error {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return apperr.Storage("create post", err)
	}
	return nil
}

func (repo *PostRepositoryDatabase) Save(ctx context.Context, p *post.Post) error {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return apperr.Storage("save post", err)
	}
	return nil
}

func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	// فرزندها به ترتیب و صریحاً حذف می‌شوند
	for _, child := range []any{&post.PostMedia{}, &post.Comment{}, &post.Like{}} {
		if err := db.Where("post_id = ?", id).Delete(child).Error; err != nil {
			return apperr.Storage("delete post children", err)
		}
	}
	if err := db.Where("id = ?", id).Delete(&post.Post{}).Error; err != nil {
		return apperr.Storage("delete post", err)
	}
	return nil
}

func (repo *PostRepositoryDatabase) preloaded(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Owner").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Comments.User").
		Preload("Likes")
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	if err := repo.preloaded(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFoundOr(err, "post %s not found", id)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) List(ctx context.Context, filter postPort.ListFilter, offset, limit int) ([]*post.Post, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Category != "" {
			db = db.Where("posts.category = ?", filter.Category)
		}
		if filter.OwnerID != uuid.Nil {
			db = db.Where("posts.user_id = ?", filter.OwnerID)
		}
		if filter.FollowedBy != uuid.Nil {
			followed := repo.db.Model(&follower.Follower{}).
				Select("followed_id").
				Where("follower_id = ?", filter.FollowedBy)
			db = db.Where("posts.user_id IN (?)", followed)
		}
		return db
	}

	var total int64
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage("count posts", err)
	}

	var posts []*post.Post
	err := repo.preloaded(ctx).
		Scopes(scope).
		Order("posts.created_at DESC").
		Order("posts.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, apperr.Storage("list posts", err)
	}
	return posts, total, nil
}

func (repo *PostRepositoryDatabase) AddMedia(ctx context.Context, media []*post.PostMedia) error {
	if len(media) == 0 {
		return nil
	}
	if err := repo.db.WithContext(ctx).Create(&media).Error; err != nil {
		return apperr.Storage("add media", err)
	}
	return nil
}

func (repo *PostRepositoryDatabase) DeleteMedia(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Delete(&post.PostMedia{}).Error; err != nil {
		return apperr.Storage("delete media", err)
	}
	return nil
}

func (repo *PostRepositoryDatabase) ReferencedMedia(ctx context.Context, refs []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(refs))
	if len(refs) == 0 {
		return out, nil
	}
	var found []string
	err := repo.db.WithContext(ctx).Model(&post.PostMedia{}).
		Where("media_url IN ?", refs).
		Pluck("media_url", &found).Error
	if err != nil {
		return nil, apperr.Storage("lookup media references", err)
	}
	for _, r := range found {
		out[r] = struct{}{}
	}
	return out, nil
}

func (repo *PostRepositoryDatabase) AddLike(ctx context.Context, like *post.Like) (bool, error) {
	res := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if res.Error != nil {
		return false, apperr.Storage("add like", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (repo *PostRepositoryDatabase) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&post.Like{}).Error
	if err != nil {
		return apperr.Storage("remove like", err)
	}
	return nil
}

func (repo *PostRepositoryDatabase) AddComment(ctx context.Context, c *post.Comment) error {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return apperr.Storage("add comment", err)
	}
	return nil
}

// FindComment کامنتی که به پست دیگری تعلق دارد وجود ندارد
func (repo *PostRepositoryDatabase) FindComment(ctx context.Context, postID, commentID uuid.UUID) (*post.Comment, error) {
	var c post.Comment
	err := repo.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment %s not found on post %s", commentID, postID)
		}
		return nil, apperr.Storage("find comment", err)
	}
	return &c, nil
}

func (repo *PostRepositoryDatabase) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&post.Comment{}).Error; err != nil {
		return apperr.Storage("delete comment", err)
	}
	return nil
}
