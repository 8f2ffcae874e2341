package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellpath/wellpath-api/internal/database"
	"github.com/wellpath/wellpath-api/internal/middleware"
	"github.com/wellpath/wellpath-api/internal/models"
	"github.com/wellpath/wellpath-api/internal/services"
	"github.com/wellpath/wellpath-api/internal/status"
)

// GetCategories lists all categories with their valid units, in display
// order.
func GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.DB.Preload("Units", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\"")
	}).Order("\"order\"").Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load categories",
		})
	}
	return c.JSON(categories)
}

// GetCategoryGoals returns the current user's active goals in the category
// identified by its slug.
func GetCategoryGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var category models.Category
	if err := database.DB.Where("slug = ?", c.Params("slug")).First(&category).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	goals, err := services.ListCategoryGoals(database.DB, userID, category.ID, string(status.Active), time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	if goals == nil {
		goals = []services.AnnotatedGoal{}
	}

	return c.JSON(fiber.Map{
		"category": category,
		"goals":    goals,
	})
}

// LoadUnits serves the goal form's unit dropdown: units valid for the
// selected category, in display order.
func LoadUnits(c *fiber.Ctx) error {
	categoryID, err := uuid.Parse(c.Query("category_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	var units []models.Unit
	if err := database.DB.
		Joins("JOIN category_units ON category_units.unit_id = units.id").
		Where("category_units.category_id = ?", categoryID).
		Order("units.\"order\"").
		Find(&units).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load units",
		})
	}
	return c.JSON(units)
}
