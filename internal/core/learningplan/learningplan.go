package learningplan

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// LearningPlan و LearningStep فعلاً فقط بخشی از اسکیما هستند و عملیاتی روی آن‌ها تعریف نشده
type LearningPlan struct {
	ID          uuid.UUID `gorm:"primary_key;type:char(36)"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:varchar(1000);not null"`
	CreatorID   uuid.UUID `gorm:"column:user_id;type:char(36);not null;index"`
	Category    string    `gorm:"type:varchar(32)"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   *time.Time

	Steps []LearningStep `gorm:"foreignKey:LearningPlanID"`
}

func (LearningPlan) TableName() string { return "learning_plans" }

func (p *LearningPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

type LearningStep struct {
	ID             uuid.UUID `gorm:"primary_key;type:char(36)"`
	LearningPlanID uuid.UUID `gorm:"type:char(36);not null;index"`
	Title          string    `gorm:"type:varchar(255);not null"`
	Description    string    `gorm:"type:varchar(1000)"`
	OrderNumber    int
	Completed      bool `gorm:"not null;default:false"`
}

func (LearningStep) TableName() string { return "learning_steps" }

func (s *LearningStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
