package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug  string    `json:"slug" gorm:"uniqueIndex"`
	Order int       `json:"order" gorm:"default:0"`

	Units []Unit `json:"units,omitempty" gorm:"many2many:category_units"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Slug == "" {
		s, err := uniqueSlug(tx, c.Name, c.ID)
		if err != nil {
			return err
		}
		c.Slug = s
	}
	return nil
}

// uniqueSlug slugifies name and appends a numeric suffix until no other
// category holds the slug.
func uniqueSlug(tx *gorm.DB, name string, selfID uuid.UUID) (string, error) {
	base := slug.Make(name)
	candidate := base
	for counter := 1; ; counter++ {
		var count int64
		if err := tx.Model(&Category{}).
			Where("slug = ? AND id != ?", candidate, selfID).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

type Unit struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name" gorm:"not null"`
	Order int       `json:"order" gorm:"default:0"`

	Categories []Category `json:"-" gorm:"many2many:category_units"`
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
