package services

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellpath/wellpath-api/internal/models"
	"github.com/wellpath/wellpath-api/internal/status"
)

// MaxPhotoBytes is the upload size cap for a single progress photo.
const MaxPhotoBytes = 5 * 1024 * 1024

// PhotoStore persists an uploaded file under the given name and returns its
// public URL. The HTTP layer supplies one backed by the uploads directory.
type PhotoStore func(file *multipart.FileHeader, filename string) (string, error)

// PhotoError reports why one photo was rejected. A bad photo never undoes
// the progress value that was already saved.
type PhotoError struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type RecordResult struct {
	Progress     models.Progress `json:"progress"`
	Created      bool            `json:"created"`
	CompletedNow bool            `json:"completedNow"`
	PhotoErrors  []PhotoError    `json:"photoErrors,omitempty"`
}

// RecordProgress creates or overwrites the user's progress entry for the
// goal on the given day. One row exists per (user, goal, date): a second
// submission for the same day replaces the value rather than adding a row.
// If the insert loses a race to a concurrent request, it is retried once as
// an update.
func RecordProgress(db *gorm.DB, userID, goalID uuid.UUID, value float64, date time.Time, photos []*multipart.FileHeader, store PhotoStore, now time.Time) (*RecordResult, error) {
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
	if value <= 0 {
		return nil, ValidationErrors{"value": "Progress value must be greater than zero"}
	}

	day := dayOf(date)
	result := &RecordResult{}

	progress, created, err := upsertProgress(db, userID, goalID, value, day)
	if err != nil {
		return nil, err
	}
	result.Progress = *progress
	result.Created = created

	for _, photo := range photos {
		if reason := validatePhoto(photo); reason != "" {
			result.PhotoErrors = append(result.PhotoErrors, PhotoError{Filename: photo.Filename, Reason: reason})
			continue
		}
		url, err := store(photo, uuid.New().String()+extOf(photo.Filename))
		if err != nil {
			result.PhotoErrors = append(result.PhotoErrors, PhotoError{Filename: photo.Filename, Reason: "Failed to store photo"})
			continue
		}
		db.Create(&models.ProgressPhoto{ProgressID: progress.ID, ImageURL: url})
	}

	completedNow, err := CheckGoalCompletion(db, &goal, now)
	if err != nil {
		return nil, err
	}
	result.CompletedNow = completedNow

	return result, nil
}

func upsertProgress(db *gorm.DB, userID, goalID uuid.UUID, value float64, day time.Time) (*models.Progress, bool, error) {
	update := func() (*models.Progress, error) {
		var existing models.Progress
		err := db.Where("user_id = ? AND goal_id = ? AND date = ?", userID, goalID, day).
			First(&existing).Error
		if err != nil {
			return nil, err
		}
		existing.Value = value
		if err := db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	if existing, err := update(); err == nil {
		return existing, false, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	progress := models.Progress{UserID: userID, GoalID: goalID, Value: value, Date: day}
	if err := db.Create(&progress).Error; err != nil {
		// A concurrent insert for the same day won the race; absorb the
		// constraint violation and go through the update path once.
		existing, uerr := update()
		if uerr != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return &progress, true, nil
}

// CheckGoalCompletion sets finished_at the first time the progress sum
// reaches the target, and only then. Calling it again after completion
// changes nothing; finished_at is a one-way latch and is never cleared even
// if entries are later deleted.
func CheckGoalCompletion(db *gorm.DB, goal *models.Goal, now time.Time) (bool, error) {
	total, err := GoalCurrentValue(db, goal.ID)
	if err != nil {
		return false, err
	}
	if !status.IsCompleted(goal.TargetValue, total) || goal.FinishedAt != nil {
		return false, nil
	}
	if err := db.Model(goal).Update("finished_at", now).Error; err != nil {
		return false, err
	}
	goal.FinishedAt = &now
	return true, nil
}

// GoalCurrentValue sums the goal's progress entries in SQL.
func GoalCurrentValue(db *gorm.DB, goalID uuid.UUID) (float64, error) {
	var total float64
	err := db.Model(&models.Progress{}).
		Where("goal_id = ?", goalID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&total).Error
	return total, err
}

// ListProgress returns a goal's entries in chronological order.
func ListProgress(db *gorm.DB, goalID uuid.UUID) ([]models.Progress, error) {
	var entries []models.Progress
	err := db.Where("goal_id = ?", goalID).
		Preload("Photos").
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}

func validatePhoto(photo *multipart.FileHeader) string {
	if photo.Size > MaxPhotoBytes {
		return "Image must be under 5MB"
	}
	if !strings.HasPrefix(photo.Header.Get("Content-Type"), "image/") {
		return "Only image files are allowed"
	}
	return ""
}

func extOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return strings.ToLower(filename[i:])
	}
	return ""
}
