package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Unit{}))
	return db
}

func TestCategorySlug(t *testing.T) {
	db := testDB(t)

	c := Category{Name: "Mental Health"}
	require.NoError(t, db.Create(&c).Error)
	assert.Equal(t, "mental-health", c.Slug)
}

func TestCategorySlugCollisionGetsSuffix(t *testing.T) {
	db := testDB(t)

	first := Category{Name: "Mental Health"}
	require.NoError(t, db.Create(&first).Error)

	// Different names, identical slugified form.
	second := Category{Name: "Mental-Health"}
	require.NoError(t, db.Create(&second).Error)
	assert.Equal(t, "mental-health-1", second.Slug)

	third := Category{Name: "Mental  Health"}
	require.NoError(t, db.Create(&third).Error)
	assert.Equal(t, "mental-health-2", third.Slug)
}

func TestCategorySlugExplicitValueKept(t *testing.T) {
	db := testDB(t)

	c := Category{Name: "Fitness", Slug: "custom-slug"}
	require.NoError(t, db.Create(&c).Error)
	assert.Equal(t, "custom-slug", c.Slug)
}
