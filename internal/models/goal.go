package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Goal struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	CategoryID  *uuid.UUID `json:"categoryId" gorm:"type:uuid;index"`
	UnitID      *uuid.UUID `json:"unitId" gorm:"type:uuid"`
	TargetValue float64    `json:"targetValue" gorm:"not null"`
	Deadline    *time.Time `json:"deadline"`
	// No gorm default tag here: GORM would skip a false value on insert and
	// let the column default win. CreateGoal fills in true when the request
	// omits the field.
	IsPublic bool `json:"isPublic"`
	// FinishedAt is set once, the first time the progress sum reaches the
	// target, and is never cleared afterwards even if entries are deleted.
	FinishedAt *time.Time `json:"finishedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	User     User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Category *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Unit     *Unit      `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	Progress []Progress `json:"-" gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
	Likes    []Like     `json:"-" gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
	Comments []Comment  `json:"-" gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Goal DTOs
type CreateGoalRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  string  `json:"categoryId"`
	UnitID      string  `json:"unitId"`
	TargetValue float64 `json:"targetValue"`
	Deadline    string  `json:"deadline"` // YYYY-MM-DD
	IsPublic    *bool   `json:"isPublic"`
}

// UpdateGoalRequest deliberately has no category or unit fields; both are
// fixed after creation.
type UpdateGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"` // YYYY-MM-DD
	IsPublic    *bool   `json:"isPublic"`
}
