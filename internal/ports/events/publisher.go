package events

import "context"

const (
	SubjectPostCreated   = "post.created"
	SubjectPostUpdated   = "post.updated"
	SubjectPostDeleted   = "post.deleted"
	SubjectPostLiked     = "post.liked"
	SubjectPostCommented = "post.commented"
)

// Publisher انتشار رویدادهای دامنه پس از commit
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

type PostEvent struct {
	PostID    string `json:"postId"`
	ActorID   string `json:"actorId"`
	Category  string `json:"category,omitempty"`
	CommentID string `json:"commentId,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Nop وقتی NATS تنظیم نشده
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
