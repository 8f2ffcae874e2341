package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Progress is one day's recorded value for a goal. The composite unique
// index guarantees at most one row per (user, goal, date); same-day
// submissions overwrite the existing row.
type Progress struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_goal_date"`
	GoalID    uuid.UUID `json:"goalId" gorm:"type:uuid;index;not null;uniqueIndex:idx_progress_user_goal_date"`
	Value     float64   `json:"value" gorm:"not null"`
	Date      time.Time `json:"date" gorm:"not null;uniqueIndex:idx_progress_user_goal_date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Photos []ProgressPhoto `json:"photos,omitempty" gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE"`
}

func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ProgressPhoto struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProgressID uuid.UUID `json:"progressId" gorm:"type:uuid;index;not null"`
	ImageURL   string    `json:"imageUrl" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (p *ProgressPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
