package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wellpath/wellpath-api/internal/config"
	"github.com/wellpath/wellpath-api/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	// Use PostgreSQL if URL starts with postgres, otherwise SQLite
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Unit{},
		&models.Goal{},
		&models.Progress{},
		&models.ProgressPhoto{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
	)
}

// Seed inserts the default taxonomy on an empty database: categories with
// the units that are valid for goals in them.
func Seed() error {
	var count int64
	if err := DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	units := map[string]*models.Unit{}
	for i, name := range []string{"km", "kg", "hours", "days", "times", "pages", "ml"} {
		u := &models.Unit{Name: name, Order: i}
		if err := DB.Create(u).Error; err != nil {
			return err
		}
		units[name] = u
	}

	seed := []struct {
		name  string
		units []string
	}{
		{"Fitness", []string{"km", "kg", "hours", "times"}},
		{"Health", []string{"kg", "ml", "days", "hours"}},
		{"Learning", []string{"hours", "pages", "days"}},
		{"Habits", []string{"days", "times"}},
	}
	for i, s := range seed {
		category := models.Category{Name: s.name, Order: i}
		if err := DB.Create(&category).Error; err != nil {
			return err
		}
		for _, name := range s.units {
			if err := DB.Model(&category).Association("Units").Append(units[name]); err != nil {
				return err
			}
		}
	}
	return nil
}
