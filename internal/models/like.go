package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is a (user, goal) pair; the composite unique index caps it at one
// like per user per goal.
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_goal"`
	GoalID    uuid.UUID `json:"goalId" gorm:"type:uuid;index;not null;uniqueIndex:idx_likes_user_goal"`
	CreatedAt time.Time `json:"createdAt"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
