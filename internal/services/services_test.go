package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wellpath/wellpath-api/internal/models"
)

// testDB opens a fresh in-memory database per test. The shared-cache DSN
// keeps every pooled connection pointed at the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Unit{},
		&models.Goal{},
		&models.Progress{},
		&models.ProgressPhoto{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
	))
	return db
}

func makeUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func makeGoal(t *testing.T, db *gorm.DB, userID uuid.UUID, target float64, deadline *time.Time, public bool) models.Goal {
	t.Helper()
	goal := models.Goal{
		UserID:      userID,
		Title:       "goal",
		TargetValue: target,
		Deadline:    deadline,
		IsPublic:    public,
	}
	require.NoError(t, db.Create(&goal).Error)
	return goal
}

func addProgress(t *testing.T, db *gorm.DB, userID, goalID uuid.UUID, value float64, date time.Time) {
	t.Helper()
	p := models.Progress{UserID: userID, GoalID: goalID, Value: value, Date: dayOf(date)}
	require.NoError(t, db.Create(&p).Error)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
