package post

import (
	"strings"
	"time"

	"prolearn/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryTech                Category = "TECH"
	CategoryCoding              Category = "CODING"
	CategorySoftwareDevelopment Category = "SOFTWARE_DEVELOPMENT"
	CategoryCybersecurity       Category = "CYBERSECURITY"
	CategoryDataScience         Category = "DATA_SCIENCE"
	CategoryOther               Category = "OTHER"
)

var categories = []Category{
	CategoryTech,
	CategoryCoding,
	CategorySoftwareDevelopment,
	CategoryCybersecurity,
	CategoryDataScience,
	CategoryOther,
}

// ParseCategory نام دسته را (بدون حساسیت به حروف) به مقدار معتبر تبدیل می‌کند
func ParseCategory(s string) (Category, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

type MediaType string

const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
)

// ClassifyMedia نوع رسانه را از content type اعلام‌شده تعیین می‌کند؛ پیش‌فرض IMAGE
func ClassifyMedia(contentType string) MediaType {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video/") {
		return MediaVideo
	}
	return MediaImage
}

type Post struct {
	ID          uuid.UUID `gorm:"primary_key;type:char(36)"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:varchar(1000);not null;default:''"`
	Category    Category  `gorm:"type:varchar(32);not null;index"`
	OwnerID     uuid.UUID `gorm:"column:user_id;type:char(36);not null;index"`
	Owner       user.User `gorm:"foreignKey:OwnerID"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"` // توسط سرویس تنظیم می‌شود

	Media    []PostMedia `gorm:"foreignKey:PostID"`
	Comments []Comment   `gorm:"foreignKey:PostID"`
	Likes    []Like      `gorm:"foreignKey:PostID"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

// NextMediaPosition جایگاه بعدی برای رسانه‌های جدید
func (p *Post) NextMediaPosition() int {
	next := 0
	for _, m := range p.Media {
		if m.Position >= next {
			next = m.Position + 1
		}
	}
	return next
}

type PostMedia struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;index"`
	MediaURL  string    `gorm:"type:varchar(255);not null"`
	Type      MediaType `gorm:"type:varchar(16);not null"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PostMedia) TableName() string { return "post_media" }

func (m *PostMedia) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	User      user.User `gorm:"foreignKey:UserID"`
	Content   string    `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

// Like برای هر جفت (post, user) حداکثر یک رکورد
type Like struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_post_user"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_post_user"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Like) TableName() string { return "post_likes" }

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
