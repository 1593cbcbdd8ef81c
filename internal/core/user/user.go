package user

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"primary_key;type:char(36)"`
	Username       string    `gorm:"type:varchar(64);unique;not null"`
	Email          string    `gorm:"type:varchar(255);unique;not null"`
	Password       string    `gorm:"not null"`
	ProfilePicture string    `gorm:"type:varchar(512)"`
	Bio            string    `gorm:"type:varchar(1000)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// BeforeCreate شناسه را قبل از درج تولید می‌کند
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
