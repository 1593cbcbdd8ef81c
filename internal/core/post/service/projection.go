package postapp

import (
	postEntity "prolearn/internal/core/post"
	postPort "prolearn/internal/ports/post"
)

// ToPostDTO شمارش‌ها از طول مجموعه‌های بارگذاری‌شده محاسبه می‌شوند
func ToPostDTO(p *postEntity.Post) *postPort.PostDTO {
	if p == nil {
		return nil
	}
	media := make([]*postPort.MediaDTO, 0, len(p.Media))
	for _, m := range p.Media {
		media = append(media, &postPort.MediaDTO{
			ID:   m.ID.String(),
			URL:  m.MediaURL,
			Type: string(m.Type),
		})
	}
	return &postPort.PostDTO{
		ID:                  p.ID.String(),
		Title:               p.Title,
		Description:         p.Description,
		Category:            string(p.Category),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Owner:               p.Owner.Username,
		OwnerDisplayName:    p.Owner.Username,
		OwnerProfilePicture: p.Owner.ProfilePicture,
		Media:               media,
		LikesCount:          len(p.Likes),
		CommentsCount:       len(p.Comments),
	}
}

func ToCommentDTO(c *postEntity.Comment) *postPort.CommentDTO {
	if c == nil {
		return nil
	}
	return &postPort.CommentDTO{
		ID:                 c.ID.String(),
		Content:            c.Content,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		Username:           c.User.Username,
		UserProfilePicture: c.User.ProfilePicture,
	}
}

func toPostDTOs(posts []*postEntity.Post) []*postPort.PostDTO {
	out := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToPostDTO(p))
	}
	return out
}
