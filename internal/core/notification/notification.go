package notification

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypeLike       Type = "LIKE"
	TypeComment    Type = "COMMENT"
	TypeFollow     Type = "FOLLOW"
	TypePlanUpdate Type = "PLAN_UPDATE"
)

type Notification struct {
	ID          uuid.UUID `gorm:"primary_key;type:char(36)"`
	RecipientID uuid.UUID `gorm:"type:char(36);not null;index:idx_recipient_created"`
	ActorID     uuid.UUID `gorm:"type:char(36);not null"`
	Type        Type      `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time `gorm:"not null;index:idx_recipient_created"`
	Read        bool      `gorm:"column:is_read;not null;default:false"`
	EntityID    string    `gorm:"type:varchar(64)"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

// Event پیامی که در صف قرار می‌گیرد و worker آن را ثبت می‌کند
type Event struct {
	RecipientID string    `json:"recipientId"`
	ActorID     string    `json:"actorId"`
	Type        Type      `json:"type"`
	EntityID    string    `json:"entityId"`
	OccurredAt  time.Time `json:"occurredAt"`
}
