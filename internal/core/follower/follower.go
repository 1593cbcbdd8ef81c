package follower

import (
	"time"

	"prolearn/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Follower رابطه «FollowerID کاربر UserID را دنبال می‌کند»
type Follower struct {
	ID         uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID     uuid.UUID `gorm:"column:followed_id;type:char(36);not null;uniqueIndex:uniq_followed_follower"`
	User       user.User `gorm:"foreignKey:UserID"`
	FollowerID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_followed_follower;index"`
	Follower   user.User `gorm:"foreignKey:FollowerID"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Follower) TableName() string { return "user_followers" }

func (f *Follower) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
