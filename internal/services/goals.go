package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellpath/wellpath-api/internal/models"
	"github.com/wellpath/wellpath-api/internal/status"
)

// maxDeadlineHorizon caps how far out a deadline may be set.
const maxDeadlineHorizon = 2 // years

// AnnotatedGoal is a goal with its derived fields attached. CurrentValue is
// scanned straight from the aggregate query; it is never stored on the goal.
type AnnotatedGoal struct {
	models.Goal  `gorm:"embedded"`
	CurrentValue float64       `json:"currentValue"`
	Status       status.Status `json:"status" gorm:"-"`
	Percentage   float64       `json:"progressPercentage" gorm:"-"`
}

// progressTotals is the grouped sum subquery joined onto goal listings, so
// filtering and annotation scale with the number of goals rather than the
// number of progress rows loaded into the process.
func progressTotals(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Progress{}).
		Select("goal_id, SUM(value) AS total").
		Group("goal_id")
}

func annotatedQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Goal{}).
		Select("goals.*, COALESCE(totals.total, 0) AS current_value").
		Joins("LEFT JOIN (?) totals ON totals.goal_id = goals.id", progressTotals(db))
}

// applyStatusFilter pushes the status predicate into SQL over the joined
// sum; the three cases mirror status.Compute.
func applyStatusFilter(q *gorm.DB, filter string, today time.Time) *gorm.DB {
	today = dayOf(today)
	switch status.Status(filter) {
	case status.Completed:
		return q.Where("COALESCE(totals.total, 0) >= goals.target_value")
	case status.Overdue:
		return q.Where(
			"COALESCE(totals.total, 0) < goals.target_value AND goals.deadline IS NOT NULL AND goals.deadline < ?",
			today)
	case status.Active:
		return q.Where(
			"COALESCE(totals.total, 0) < goals.target_value AND (goals.deadline IS NULL OR goals.deadline >= ?)",
			today)
	}
	return q
}

func finishAnnotation(goals []AnnotatedGoal, today time.Time) {
	for i := range goals {
		g := &goals[i]
		g.Status = status.Compute(g.TargetValue, g.CurrentValue, g.Deadline, today)
		g.Percentage = status.Percentage(g.TargetValue, g.CurrentValue)
	}
}

// ListGoalsForUser returns the user's goals annotated with current value,
// status and percentage, optionally filtered to one status.
func ListGoalsForUser(db *gorm.DB, userID uuid.UUID, statusFilter string, today time.Time) ([]AnnotatedGoal, error) {
	q := annotatedQuery(db).
		Where("goals.user_id = ?", userID).
		Preload("Category").
		Preload("Unit")
	q = applyStatusFilter(q, statusFilter, today)

	var goals []AnnotatedGoal
	if err := q.Order("goals.created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	finishAnnotation(goals, today)
	return goals, nil
}

// ListCategoryGoals returns the user's goals in one category, annotated and
// optionally filtered to one status. The category predicate rides the same
// aggregate query as the status filter.
func ListCategoryGoals(db *gorm.DB, userID, categoryID uuid.UUID, statusFilter string, today time.Time) ([]AnnotatedGoal, error) {
	q := annotatedQuery(db).
		Where("goals.user_id = ? AND goals.category_id = ?", userID, categoryID).
		Preload("Category").
		Preload("Unit")
	q = applyStatusFilter(q, statusFilter, today)

	var goals []AnnotatedGoal
	if err := q.Order("goals.created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	finishAnnotation(goals, today)
	return goals, nil
}

// ListPublicGoals returns annotated public goals for the feed.
func ListPublicGoals(db *gorm.DB, statusFilter string, today time.Time) ([]AnnotatedGoal, error) {
	q := annotatedQuery(db).
		Where("goals.is_public = ?", true).
		Preload("User").
		Preload("Category").
		Preload("Unit")
	q = applyStatusFilter(q, statusFilter, today)

	var goals []AnnotatedGoal
	if err := q.Order("goals.created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	finishAnnotation(goals, today)
	return goals, nil
}

// GetGoal returns one goal with derived fields, or ErrNotFound.
func GetGoal(db *gorm.DB, goalID uuid.UUID, today time.Time) (*AnnotatedGoal, error) {
	var goal AnnotatedGoal
	err := annotatedQuery(db).
		Where("goals.id = ?", goalID).
		Preload("User").
		Preload("Category").
		Preload("Unit").
		First(&goal).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	goal.Status = status.Compute(goal.TargetValue, goal.CurrentValue, goal.Deadline, today)
	goal.Percentage = status.Percentage(goal.TargetValue, goal.CurrentValue)
	return &goal, nil
}

// CategoryStat is one row of the dashboard overview.
type CategoryStat struct {
	Category  models.Category `json:"category"`
	Active    int             `json:"active"`
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
}

// CategoryStats counts the user's goals per category, grouped in SQL and
// zero-filled for categories the user has no goals in.
func CategoryStats(db *gorm.DB, userID uuid.UUID, today time.Time) ([]CategoryStat, error) {
	var categories []models.Category
	if err := db.Order("\"order\"").Find(&categories).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		CategoryID uuid.UUID
		Total      int
		Completed  int
		Active     int
	}
	var rows []countRow
	err := db.Model(&models.Goal{}).
		Select(`goals.category_id AS category_id,
			COUNT(goals.id) AS total,
			SUM(CASE WHEN COALESCE(totals.total, 0) >= goals.target_value THEN 1 ELSE 0 END) AS completed,
			SUM(CASE WHEN COALESCE(totals.total, 0) < goals.target_value
				AND (goals.deadline IS NULL OR goals.deadline >= ?) THEN 1 ELSE 0 END) AS active`,
			dayOf(today)).
		Joins("LEFT JOIN (?) totals ON totals.goal_id = goals.id", progressTotals(db)).
		Where("goals.user_id = ? AND goals.category_id IS NOT NULL", userID).
		Group("goals.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uuid.UUID]countRow, len(rows))
	for _, r := range rows {
		byCategory[r.CategoryID] = r
	}

	stats := make([]CategoryStat, 0, len(categories))
	for _, c := range categories {
		r := byCategory[c.ID]
		stats = append(stats, CategoryStat{
			Category:  c,
			Active:    r.Active,
			Completed: r.Completed,
			Total:     r.Total,
		})
	}
	return stats, nil
}

// CreateGoal validates the request and creates a goal for the user.
func CreateGoal(db *gorm.DB, userID uuid.UUID, req models.CreateGoalRequest, today time.Time) (*models.Goal, error) {
	verrs := ValidationErrors{}
	if req.Title == "" {
		verrs["title"] = "Title is required"
	}
	if req.TargetValue <= 0 {
		verrs["targetValue"] = "Target value must be greater than zero"
	}

	deadline, derr := parseDeadline(req.Deadline, today)
	if derr != "" {
		verrs["deadline"] = derr
	}

	var categoryID, unitID *uuid.UUID
	if req.CategoryID == "" {
		verrs["category"] = "Category is required"
	} else if id, err := uuid.Parse(req.CategoryID); err != nil {
		verrs["category"] = "Select a valid category"
	} else {
		var category models.Category
		if err := db.First(&category, "id = ?", id).Error; err != nil {
			verrs["category"] = "Select a valid category"
		} else {
			categoryID = &id
			uid, uerr := resolveUnit(db, category, req.UnitID)
			if uerr != "" {
				verrs["unit"] = uerr
			} else {
				unitID = uid
			}
		}
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  categoryID,
		UnitID:      unitID,
		TargetValue: req.TargetValue,
		Deadline:    deadline,
		IsPublic:    isPublic,
	}
	if err := db.Create(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateGoal applies owner edits. Category and unit are not editable.
func UpdateGoal(db *gorm.DB, userID, goalID uuid.UUID, req models.UpdateGoalRequest, today time.Time) (*models.Goal, error) {
	var goal models.Goal
	if err := db.First(&goal, "id = ?", goalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrPermissionDenied
	}

	verrs := ValidationErrors{}
	if req.Title != nil {
		if *req.Title == "" {
			verrs["title"] = "Title is required"
		} else {
			goal.Title = *req.Title
		}
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Deadline != nil {
		deadline, derr := parseDeadline(*req.Deadline, today)
		if derr != "" {
			verrs["deadline"] = derr
		} else {
			goal.Deadline = deadline
		}
	}
	if req.IsPublic != nil {
		goal.IsPublic = *req.IsPublic
	}

	if len(verrs) > 0 {
		return nil, verrs
	}
	if err := db.Save(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// DeleteGoal removes a goal and everything hanging off it. Only the owner
// may delete.
func DeleteGoal(db *gorm.DB, userID, goalID uuid.UUID) error {
	var goal models.Goal
	if err := db.First(&goal, "id = ?", goalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if goal.UserID != userID {
		return ErrPermissionDenied
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var progressIDs []uuid.UUID
		if err := tx.Model(&models.Progress{}).Where("goal_id = ?", goalID).
			Pluck("id", &progressIDs).Error; err != nil {
			return err
		}
		if len(progressIDs) > 0 {
			if err := tx.Where("progress_id IN ?", progressIDs).
				Delete(&models.ProgressPhoto{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []interface{}{&models.Progress{}, &models.Like{}, &models.Comment{}} {
			if err := tx.Where("goal_id = ?", goalID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&goal).Error
	})
}

func parseDeadline(raw string, today time.Time) (*time.Time, string) {
	if raw == "" {
		return nil, "Deadline is required"
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, "Enter a valid date (YYYY-MM-DD)"
	}
	today = dayOf(today)
	if d.Before(today) {
		return nil, "Deadline cannot be in the past"
	}
	if d.After(today.AddDate(maxDeadlineHorizon, 0, 0)) {
		return nil, "Deadline cannot be more than 2 years away"
	}
	return &d, ""
}

// resolveUnit checks the chosen unit is one the category declares valid.
func resolveUnit(db *gorm.DB, category models.Category, rawUnitID string) (*uuid.UUID, string) {
	if rawUnitID == "" {
		return nil, "Unit is required"
	}
	id, err := uuid.Parse(rawUnitID)
	if err != nil {
		return nil, "Select a valid unit"
	}
	var count int64
	if err := db.Table("category_units").
		Where("category_id = ? AND unit_id = ?", category.ID, id).
		Count(&count).Error; err != nil || count == 0 {
		return nil, "Select a unit valid for this category"
	}
	return &id, ""
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
