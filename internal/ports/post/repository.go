package post

import (
	"context"
	"time"

	"prolearn/internal/core/post"
	userPort "prolearn/internal/ports/user"

	"github.com/gofrs/uuid"
)

// ListFilter فیلترهای خواندن صفحه‌بندی‌شده؛ فیلدهای صفر نادیده گرفته می‌شوند
type ListFilter struct {
	Category   post.Category
	OwnerID    uuid.UUID
	FollowedBy uuid.UUID // فقط پست‌های کاربرانی که این کاربر دنبال می‌کند
}

// PostRepository پورت برای ذخیره‌سازی و بازیابی پست‌ها و مجموعه‌های وابسته
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) error
	Save(ctx context.Context, p *post.Post) error
	// Delete رسانه‌ها، کامنت‌ها و لایک‌های پست را صریحاً پاک می‌کند و سپس خود پست را
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]*post.Post, int64, error)

	AddMedia(ctx context.Context, media []*post.PostMedia) error
	DeleteMedia(ctx context.Context, ids []uuid.UUID) error
	// ReferencedMedia از بین نام‌های داده‌شده، آن‌هایی که در post_media ثبت شده‌اند
	ReferencedMedia(ctx context.Context, refs []string) (map[string]struct{}, error)

	// AddLike در صورت وجود لایک تکراری false برمی‌گرداند
	AddLike(ctx context.Context, like *post.Like) (bool, error)
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) error

	AddComment(ctx context.Context, c *post.Comment) error
	FindComment(ctx context.Context, postID, commentID uuid.UUID) (*post.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// Repositories مخازنی که داخل یک تراکنش در اختیار سرویس قرار می‌گیرند
type Repositories struct {
	Posts PostRepository
	Users userPort.UserRepository
}

// TxRunner مرز تراکنش برای عملیات‌های تغییردهنده
type TxRunner interface {
	InTx(ctx context.Context, fn func(repos Repositories) error) error
}

// DTOها برای UseCase
type MediaDTO struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type PostDTO struct {
	ID                  string      `json:"id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Category            string      `json:"category"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
	Owner               string      `json:"owner"`
	OwnerDisplayName    string      `json:"ownerDisplayName"`
	OwnerProfilePicture string      `json:"ownerProfilePicture"`
	Media               []*MediaDTO `json:"media"`
	LikesCount          int         `json:"likesCount"`
	CommentsCount       int         `json:"commentsCount"`
}

type CommentDTO struct {
	ID                 string    `json:"id"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	Username           string    `json:"username"`
	UserProfilePicture string    `json:"userProfilePicture"`
}

// PostInput فیلدهای قابل ویرایش پست
type PostInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"required"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,max=500"`
}
