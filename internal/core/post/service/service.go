package postapp

import (
	"context"
	"strings"
	"time"

	"prolearn/internal/apperr"
	notificationEntity "prolearn/internal/core/notification"
	postEntity "prolearn/internal/core/post"
	userEntity "prolearn/internal/core/user"
	eventsPort "prolearn/internal/ports/events"
	mediaPort "prolearn/internal/ports/media"
	notificationPort "prolearn/internal/ports/notification"
	"prolearn/internal/ports/pagination"
	postPort "prolearn/internal/ports/post"
	userPort "prolearn/internal/ports/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type PostService struct {
	Tx             postPort.TxRunner
	PostRepository postPort.PostRepository
	UserRepository userPort.UserRepository
	Media          mediaPort.Store
	Notifications  notificationPort.Emitter // تزریق شده، اختیاری
	Events         eventsPort.Publisher     // تزریق شده، اختیاری

	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewPostService(
	tx postPort.TxRunner,
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
	media mediaPort.Store,
	notifications notificationPort.Emitter,
	events eventsPort.Publisher,
	logger *zap.Logger,
) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = eventsPort.Nop{}
	}
	return &PostService{
		Tx:             tx,
		PostRepository: postRepo,
		UserRepository: userRepo,
		Media:          media,
		Notifications:  notifications,
		Events:         events,
		validate:       validator.New(),
		logger:         logger,
		now:            time.Now,
	}
}

// CreatePost ایجاد پست و ذخیره رسانه‌ها در یک تراکنش
func (s *PostService) CreatePost(ctx context.Context, in postPort.PostInput, ownerUsername string, files []mediaPort.Upload) (*postPort.PostDTO, error) {
	category, err := s.validatePost(&in)
	if err != nil {
		return nil, err
	}

	var stored []string
	var created *postEntity.Post
	err = s.Tx.InTx(ctx, func(repos postPort.Repositories) error {
		owner, err := repos.Users.FindByUsername(ctx, ownerUsername)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		p := &postEntity.Post{
			Title:       in.Title,
			Description: in.Description,
			Category:    category,
			OwnerID:     owner.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Posts.Create(ctx, p); err != nil {
			return err
		}
		if err := s.attachMedia(ctx, repos, p.ID, 0, files, &stored); err != nil {
			return err
		}
		created, err = repos.Posts.FindByID(ctx, p.ID)
		return err
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}

	s.logger.Info("✅ post created",
		zap.String("postID", created.ID.String()),
		zap.String("owner", ownerUsername),
		zap.Int("media", len(created.Media)))
	s.publish(ctx, eventsPort.SubjectPostCreated, created.ID, created.OwnerID, string(created.Category), "")
	return ToPostDTO(created), nil
}

// UpdatePost retainMediaIDs برابر nil یعنی پارامتر ارسال نشده و همه رسانه‌های قبلی حذف می‌شوند
func (s *PostService) UpdatePost(ctx context.Context, postID string, in postPort.PostInput, newFiles []mediaPort.Upload, retainMediaIDs []string, requester string) (*postPort.PostDTO, error) {
	id, err := parseID(postID, "post")
	if err != nil {
		return nil, err
	}
	category, err := s.validatePost(&in)
	if err != nil {
		return nil, err
	}

	// شناسه‌های نامعتبر نگه داشته نمی‌شوند
	retain := make(map[uuid.UUID]struct{}, len(retainMediaIDs))
	for _, r := range retainMediaIDs {
		if mid, err := uuid.FromString(strings.TrimSpace(r)); err == nil {
			retain[mid] = struct{}{}
		}
	}

	var stored []string
	var updated *postEntity.Post
	err = s.Tx.InTx(ctx, func(repos postPort.Repositories) error {
		p, actor, err := s.loadForModify(ctx, repos, id, requester)
		if err != nil {
			return err
		}

		p.Title = in.Title
		p.Description = in.Description
		p.Category = category
		p.UpdatedAt = s.now().UTC()
		if err := repos.Posts.Save(ctx, p); err != nil {
			return err
		}

		// اول حذف، بعد افزودن؛ فایل‌های جدید با مجموعه retain مقایسه نمی‌شوند
		var kept []postEntity.PostMedia
		var removed []uuid.UUID
		for _, m := range p.Media {
			if _, ok := retain[m.ID]; ok {
				kept = append(kept, m)
				continue
			}
			if err := s.Media.Delete(ctx, m.MediaURL); err != nil {
				return err
			}
			removed = append(removed, m.ID)
		}
		if err := repos.Posts.DeleteMedia(ctx, removed); err != nil {
			return err
		}
		p.Media = kept

		if err := s.attachMedia(ctx, repos, p.ID, p.NextMediaPosition(), newFiles, &stored); err != nil {
			return err
		}
		updated, err = repos.Posts.FindByID(ctx, p.ID)
		if err != nil {
			return err
		}
		s.logger.Info("✅ post updated",
			zap.String("postID", p.ID.String()),
			zap.String("by", actor.Username),
			zap.Int("removedMedia", len(removed)),
			zap.Int("newMedia", len(newFiles)))
		return nil
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}

	s.publish(ctx, eventsPort.SubjectPostUpdated, updated.ID, updated.OwnerID, string(updated.Category), "")
	return ToPostDTO(updated), nil
}

// DeletePost فایل‌ها قبل از حذف رکوردها پاک می‌شوند
func (s *PostService) DeletePost(ctx context.Context, postID, requester string) error {
	id, err := parseID(postID, "post")
	if err != nil {
		return err
	}
	var deleted *postEntity.Post
	err = s.Tx.InTx(ctx, func(repos postPort.Repositories) error {
		p, _, err := s.loadForModify(ctx, repos, id, requester)
		if err != nil {
			return err
		}
		for _, m := range p.Media {
			if err := s.Media.Delete(ctx, m.MediaURL); err != nil {
				return err
			}
		}
		if err := repos.Posts.Delete(ctx, p.ID); err != nil {
			return err
		}
		deleted = p
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("🗑️ post deleted", zap.String("postID", postID), zap.String("by", requester))
	s.publish(ctx, eventsPort.SubjectPostDeleted, deleted.ID, deleted.OwnerID, string(deleted.Category), "")
	return nil
}

// LikePost دوبار لایک کردن بدون خطا و بدون رکورد اضافه است
func (s *PostService) LikePost(ctx context.Context, postID, username string) error {
	id, err := parseID(postID, "post")
	if err != nil {
		return err
	}
	var p *postEntity.Post
	var liker uuid.UUID
	var created bool
	err = s.Tx.InTx(ctx, func(repos postPort.Repositories) error {
		var err error
		if p, err = repos.Posts.FindByID(ctx, id); err != nil {
			return err
		}
		u, err := repos.Users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		liker = u.ID
		created, err = repos.Posts.AddLike(ctx, &postEntity.Like{
			PostID:    p.ID,
			UserID:    u.ID,
			CreatedAt: s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.emit(ctx, p.OwnerID, liker, notificationEntity.TypeLike, p.ID.String())
	s.publish(ctx, eventsPort.SubjectPostLiked, p.ID, liker, "", "")
	return nil
}

func (s *PostService) UnlikePost(ctx context.Context, postID, username string) error {
	id, err := parseID(postID, "post")
	if err != nil {
		return err
	}
	return s.Tx.InTx(ctx, func(repos postPort.Repositories) error {
		p, err := repos.Posts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		u, err := repos.Users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		return repos.Posts.RemoveLike(ctx, p.ID, u.ID)
	})
}

func (s *PostService) AddComment(ctx context.Context, postID string, in postPort.CommentInput, username string) (*postPort.CommentDTO, error) {
	id, err := parseID(postID, "post")
	if err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	var p *postEntity.Post
	var comment *postEntity.Comment
	err = s.Tx.InTx(ctx, func(repos postPort.Repositories) error {
		var err error
		if p, err = repos.Posts.FindByID(ctx, id); err != nil {
			return err
		}
		author, err := repos.Users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		comment = &postEntity.Comment{
			PostID:    p.ID,
			UserID:    author.ID,
			User:      *author,
			Content:   in.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return repos.Posts.AddComment(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, p.OwnerID, comment.UserID, notificationEntity.TypeComment, p.ID.String())
	s.publish(ctx, eventsPort.SubjectPostCommented, p.ID, comment.UserID, "", comment.ID.String())
	return ToCommentDTO(comment), nil
}

// DeleteComment فقط نویسنده کامنت یا مالک پست
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID, username string) error {
	pid, err := parseID(postID, "post")
	if err != nil {
		return err
	}
	cid, err := parseID(commentID, "comment")
	if err != nil {
		return err
	}
	return s.Tx.InTx(ctx, func(repos postPort.Repositories) error {
		p, err := repos.Posts.FindByID(ctx, pid)
		if err != nil {
			return err
		}
		c, err := repos.Posts.FindComment(ctx, p.ID, cid)
		if err != nil {
			return err
		}
		actor, err := repos.Users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if !postEntity.CanDeleteComment(actor.ID, p, c) {
			return apperr.Forbidden("user %s may not delete comment %s", username, commentID)
		}
		return repos.Posts.DeleteComment(ctx, c.ID)
	})
}

func (s *PostService) GetAllPosts(ctx context.Context, page, size int) (*pagination.Page[*postPort.PostDTO], error) {
	return s.list(ctx, postPort.ListFilter{}, page, size)
}

func (s *PostService) GetPostByID(ctx context.Context, postID string) (*postPort.PostDTO, error) {
	id, err := parseID(postID, "post")
	if err != nil {
		return nil, err
	}
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPostDTO(p), nil
}

func (s *PostService) GetPostsByCategory(ctx context.Context, category string, page, size int) (*pagination.Page[*postPort.PostDTO], error) {
	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, postPort.ListFilter{Category: c}, page, size)
}

func (s *PostService) GetPostsByOwner(ctx context.Context, username string, page, size int) (*pagination.Page[*postPort.PostDTO], error) {
	owner, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, postPort.ListFilter{OwnerID: owner.ID}, page, size)
}

// GetFollowingFeed پست‌های کاربرانی که username دنبال می‌کند
func (s *PostService) GetFollowingFeed(ctx context.Context, username string, page, size int) (*pagination.Page[*postPort.PostDTO], error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, postPort.ListFilter{FollowedBy: u.ID}, page, size)
}

func (s *PostService) list(ctx context.Context, filter postPort.ListFilter, page, size int) (*pagination.Page[*postPort.PostDTO], error) {
	page, size = pagination.Normalize(page, size)
	posts, total, err := s.PostRepository.List(ctx, filter, pagination.Offset(page, size), size)
	if err != nil {
		return nil, err
	}
	return pagination.New(toPostDTOs(posts), page, size, total), nil
}

// LoadMedia فایل رسانه را برای ارسال باز می‌کند
func (s *PostService) LoadMedia(ctx context.Context, ref string) (*mediaPort.File, error) {
	return s.Media.Resolve(ctx, ref)
}

func (s *PostService) loadForModify(ctx context.Context, repos postPort.Repositories, id uuid.UUID, requester string) (*postEntity.Post, *userEntity.User, error) {
	p, err := repos.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	actor, err := repos.Users.FindByUsername(ctx, requester)
	if err != nil {
		return nil, nil, err
	}
	if !postEntity.CanModifyPost(actor.ID, p) {
		return nil, nil, apperr.Forbidden("user %s may not modify post %s", requester, id)
	}
	return p, actor, nil
}

func (s *PostService) attachMedia(ctx context.Context, repos postPort.Repositories, postID uuid.UUID, start int, files []mediaPort.Upload, stored *[]string) error {
	if len(files) == 0 {
		return nil
	}
	records := make([]*postEntity.PostMedia, 0, len(files))
	for i, f := range files {
		ref, err := s.Media.Store(ctx, f.Body, f.Filename, f.ContentType)
		if err != nil {
			return err
		}
		*stored = append(*stored, ref)
		records = append(records, &postEntity.PostMedia{
			PostID:   postID,
			MediaURL: ref,
			Type:     postEntity.ClassifyMedia(f.ContentType),
			Position: start + i,
		})
	}
	return repos.Posts.AddMedia(ctx, records)
}

// discard فایل‌های ذخیره‌شده یک تراکنش ناموفق
func (s *PostService) discard(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.Media.Delete(ctx, ref); err != nil {
			s.logger.Warn("⚠️ could not remove media of failed transaction", zap.String("ref", ref), zap.Error(err))
		}
	}
}

// validatePost عنوان را trim می‌کند؛ عنوان فقط شامل فاصله خالی حساب می‌شود
func (s *PostService) validatePost(in *postPort.PostInput) (postEntity.Category, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in); err != nil {
		return "", validationError(err)
	}
	return parseCategory(in.Category)
}

func parseCategory(raw string) (postEntity.Category, error) {
	c, ok := postEntity.ParseCategory(raw)
	if !ok {
		names := make([]string, 0, len(postEntity.Categories()))
		for _, v := range postEntity.Categories() {
			names = append(names, string(v))
		}
		return "", apperr.Invalid("invalid category %q, expected one of %s", raw, strings.Join(names, ", "))
	}
	return c, nil
}

func (s *PostService) emit(ctx context.Context, recipient, actor uuid.UUID, typ notificationEntity.Type, entityID string) {
	if s.Notifications == nil {
		return
	}
	s.Notifications.Emit(ctx, recipient, actor, typ, entityID)
}

func (s *PostService) publish(ctx context.Context, subject string, postID, actorID uuid.UUID, category, commentID string) {
	ev := eventsPort.PostEvent{
		PostID:    postID.String(),
		ActorID:   actorID.String(),
		Category:  category,
		CommentID: commentID,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.Events.Publish(ctx, subject, ev); err != nil {
		s.logger.Warn("⚠️ could not publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.FromString(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.NotFound("%s %s not found", what, raw)
	}
	return id, nil
}

// validationError اولین خطای فیلد را به پیام خوانا تبدیل می‌کند
func validationError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return apperr.New(apperr.KindValidation, field+" is required", err)
		case "max":
			return apperr.New(apperr.KindValidation, field+" must be at most "+fe.Param()+" characters", err)
		}
		return apperr.New(apperr.KindValidation, "invalid "+field, err)
	}
	return apperr.New(apperr.KindValidation, "invalid input", err)
}
