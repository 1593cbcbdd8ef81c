package post

import "github.com/gofrs/uuid"

// قوانین دسترسی پست‌ها و کامنت‌ها در یک جا نگه داشته می‌شوند

// CanModifyPost فقط مالک پست اجازه ویرایش یا حذف دارد
func CanModifyPost(actorID uuid.UUID, p *Post) bool {
	if p == nil || actorID == uuid.Nil {
		return false
	}
	return p.OwnerID == actorID
}

// CanDeleteComment نویسنده کامنت یا مالک پست
func CanDeleteComment(actorID uuid.UUID, p *Post, c *Comment) bool {
	if p == nil || c == nil || actorID == uuid.Nil {
		return false
	}
	return c.UserID == actorID || p.OwnerID == actorID
}
