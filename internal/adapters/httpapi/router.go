package httpapi

import (
	"context"
	"net/http"
	"time"

	"prolearn/internal/adapters/httpapi/middleware"
	userapp "prolearn/internal/core/user/service"
	followerPort "prolearn/internal/ports/follower"
	mediaPort "prolearn/internal/ports/media"
	notificationPort "prolearn/internal/ports/notification"
	"prolearn/internal/ports/pagination"
	postPort "prolearn/internal/ports/post"
	userPort "prolearn/internal/ports/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, in userapp.RegisterInput) (*userPort.UserDTO, error)
	GetByUsername(ctx context.Context, username string) (*userPort.UserDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, in postPort.PostInput, ownerUsername string, files []mediaPort.Upload) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, postID string, in postPort.PostInput, newFiles []mediaPort.Upload, retainMediaIDs []string, requester string) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, postID, requester string) error
	LikePost(ctx context.Context, postID, username string) error
	UnlikePost(ctx context.Context, postID, username string) error
	AddComment(ctx context.Context, postID string, in postPort.CommentInput, username string) (*postPort.CommentDTO, error)
	DeleteComment(ctx context.Context, postID, commentID, username string) error
	GetAllPosts(ctx context.Context, page, size int) (*pagination.Page[*postPort.PostDTO], error)
	GetPostByID(ctx context.Context, postID string) (*postPort.PostDTO, error)
	GetPostsByCategory(ctx context.Context, category string, page, size int) (*pagination.Page[*postPort.PostDTO], error)
	GetPostsByOwner(ctx context.Context, username string, page, size int) (*pagination.Page[*postPort.PostDTO], error)
	GetFollowingFeed(ctx context.Context, username string, page, size int) (*pagination.Page[*postPort.PostDTO], error)
	LoadMedia(ctx context.Context, ref string) (*mediaPort.File, error)
}

type FollowerUseCase interface {
	FollowUser(ctx context.Context, followerUsername, followeeUsername string) error
	UnfollowUser(ctx context.Context, followerUsername, followeeUsername string) error
	GetFollowers(ctx context.Context, username string) ([]*followerPort.UserSummaryDTO, error)
	GetFollowing(ctx context.Context, username string) ([]*followerPort.UserSummaryDTO, error)
}

type NotificationUseCase interface {
	List(ctx context.Context, username string, page, size int) (*pagination.Page[*notificationPort.NotificationDTO], error)
	UnreadCount(ctx context.Context, username string) (int64, error)
	MarkRead(ctx context.Context, id, username string) error
}

// RouterConfig تنظیمات لایه HTTP
type RouterConfig struct {
	JWTSecret      []byte
	AllowedOrigins []string
	MaxUploadBytes int64
	Logger         *zap.Logger
	// Health در صورت تنظیم در /healthz فراخوانی می‌شود
	Health func(ctx context.Context) error
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(
	cfg RouterConfig,
	userUC UserUseCase,
	postUC PostUseCase,
	followerUC FollowerUseCase,
	notificationUC NotificationUseCase,
) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 << 20
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/posts/media/"})))

	uc := NewUserController(userUC, logger)
	pc := NewPostController(postUC, cfg.MaxUploadBytes, logger)
	fc := NewFollowerController(followerUC, logger)
	nc := NewNotificationController(notificationUC, logger)
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	r.GET("/healthz", func(c *gin.Context) {
		if cfg.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// مسیرهای ثبت‌نام و ورود بدون JWT Middleware
	api.POST("/auth/register", uc.RegisterUser)
	api.POST("/auth/login", uc.LoginUser)

	posts := api.Group("/posts")
	posts.GET("", pc.GetAllPosts)
	posts.GET("/:id", pc.GetPostByID)
	posts.GET("/category/:category", pc.GetPostsByCategory)
	posts.GET("/media/:filename", pc.GetMedia)
	posts.POST("", auth, pc.CreatePost)
	posts.PUT("/:id", auth, pc.UpdatePost)
	posts.DELETE("/:id", auth, pc.DeletePost)
	posts.POST("/:id/like", auth, pc.LikePost)
	posts.DELETE("/:id/like", auth, pc.UnlikePost)
	posts.POST("/:id/comments", auth, pc.AddComment)
	posts.DELETE("/:id/comments/:commentId", auth, pc.DeleteComment)

	users := api.Group("/users")
	users.GET("/:username", uc.GetUser)
	users.GET("/:username/posts", pc.GetPostsByOwner)
	users.GET("/:username/followers", fc.GetFollowers)
	users.GET("/:username/following", fc.GetFollowing)
	users.POST("/:username/follow", auth, fc.FollowUser)
	users.DELETE("/:username/follow", auth, fc.UnfollowUser)

	api.GET("/feed", auth, pc.GetFollowingFeed)

	notifications := api.Group("/notifications", auth)
	notifications.GET("", nc.List)
	notifications.GET("/unread-count", nc.UnreadCount)
	notifications.PUT("/:id/read", nc.MarkRead)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// currentUser نام کاربری ثبت‌شده توسط JWT Middleware
func currentUser(c *gin.Context) (string, bool) {
	username := c.GetString(middleware.ContextUsername)
	return username, username != ""
}
