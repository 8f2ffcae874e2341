package services

import (
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellpath/wellpath-api/internal/models"
	"github.com/wellpath/wellpath-api/internal/status"
)

var (
	day1 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	noon = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func TestRecordProgressSameDayOverwrites(t *testing.T) {
	db := testDB(t)
	user := makeUser(t, db, "alice")
	goal := makeGoal(t, db, user.ID, 100, nil, true)

	first, err := RecordProgress(db, user.ID, goal.ID, 50, day1, nil, nil, noon)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, 50.0, first.Progress.Value)

	second, err := RecordProgress(db, user.ID, goal.ID, 80, day1, nil, nil, noon)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, 80.0, second.Progress.Value)
	assert.Equal(t, first.Progress.ID, second.Progress.ID)

	// Last write wins: exactly one row, value 80, 80% toward the target.
	var count int64
	db.Model(&models.Progress{}).Where("goal_id = ?", goal.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	annotated, err := GetGoal(db, goal.ID, noon)
	require.NoError(t, err)
	assert.Equal(t, 80.0, annotated.CurrentValue)
	assert.Equal(t, 80.0, annotated.Percentage)
	assert.Equal(t, status.Active, annotated.Status)
}

func TestRecordProgressSeparateDays(t *testing.T) {
	db := testDB(t)
	user := makeUser(t, db, "alice")
	goal := makeGoal(t, db, user.ID, 100, nil, true)

	_, err := RecordProgress(db, user.ID, goal.ID, 10, day1, nil, nil, noon)
	require.NoError(t, err)
	result, err := RecordProgress(db, user.ID, goal.ID, 20, day1.AddDate(0, 0, 1), nil, nil, noon)
	require.NoError(t, err)
	assert.True(t, result.Created)

	total, err := GoalCurrentValue(db, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, total)
}

func TestRecordProgressCompletionLatch(t *testing.T) {
	db := testDB(t)
	user := makeUser(t, db, "alice")
	goal := makeGoal(t, db, user.ID, 10, nil, true)

	result, err := RecordProgress(db, user.ID, goal.ID, 10, day1, nil, nil, noon)
	require.NoError(t, err)
	assert.True(t, result.CompletedNow)

	var stored models.Goal
	require.NoError(t, db.First(&stored, "id = ?", goal.ID).Error)
	require.NotNil(t, stored.FinishedAt)
	finishedAt := *stored.FinishedAt

	// A second completion check is a no-op; the timestamp does not move.
	later := noon.Add(2 * time.Hour)
	completedNow, err := CheckGoalCompletion(db, &stored, later)
	require.NoError(t, err)
	assert.False(t, completedNow)

	require.NoError(t, db.First(&stored, "id = ?", goal.ID).Error)
	assert.True(t, stored.FinishedAt.Equal(finishedAt))

	// More progress after completion does not re-trigger it either.
	result, err = RecordProgress(db, user.ID, goal.ID, 5, day1.AddDate(0, 0, 1), nil, nil, later)
	require.NoError(t, err)
	assert.False(t, result.CompletedNow)
}

func TestRecordProgressValidation(t *testing.T) {
	db := testDB(t)
	user := makeUser(t, db, "alice")
	goal := makeGoal(t, db, user.ID, 100, nil, true)

	_, err := RecordProgress(db, user.ID, goal.ID, 0, day1, nil, nil, noon)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "value")
}

func TestRecordProgressWrongOwner(t *testing.T) {
	db := testDB(t)
	owner := makeUser(t, db, "alice")
	other := makeUser(t, db, "bob")
	goal := makeGoal(t, db, owner.ID, 100, nil, true)

	_, err := RecordProgress(db, other.ID, goal.ID, 5, day1, nil, nil, noon)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func photoHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestRecordProgressPhotoValidation(t *testing.T) {
	db := testDB(t)
	user := makeUser(t, db, "alice")
	goal := makeGoal(t, db, user.ID, 100, nil, true)

	var stored []string
	store := func(file *multipart.FileHeader, filename string) (string, error) {
		stored = append(stored, filename)
		return "/uploads/" + filename, nil
	}

	photos := []*multipart.FileHeader{
		photoHeader("run.jpg", "image/jpeg", 1024),
		photoHeader("huge.jpg", "image/jpeg", MaxPhotoBytes+1),
		photoHeader("notes.pdf", "application/pdf", 1024),
	}

	result, err := RecordProgress(db, user.ID, goal.ID, 5, day1, photos, store, noon)
	require.NoError(t, err)

	// The valid photo is attached; each invalid one is reported without
	// touching the saved progress value.
	assert.Len(t, stored, 1)
	require.Len(t, result.PhotoErrors, 2)
	assert.Equal(t, "huge.jpg", result.PhotoErrors[0].Filename)
	assert.Equal(t, "notes.pdf", result.PhotoErrors[1].Filename)

	var photoCount int64
	db.Model(&models.ProgressPhoto{}).Where("progress_id = ?", result.Progress.ID).Count(&photoCount)
	assert.EqualValues(t, 1, photoCount)

	total, err := GoalCurrentValue(db, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, total)
}

func TestUpsertAbsorbsConstraintViolation(t *testing.T) {
	db := testDB(t)
	user := makeUser(t, db, "alice")
	goal := makeGoal(t, db, user.ID, 100, nil, true)

	// Simulate losing the race: the row appears between the existence check
	// and the insert. The direct insert path must fall back to update.
	addProgress(t, db, user.ID, goal.ID, 10, day1)

	progress := models.Progress{UserID: user.ID, GoalID: goal.ID, Value: 20, Date: dayOf(day1)}
	err := db.Create(&progress).Error
	require.Error(t, err, "duplicate (user, goal, date) insert should violate the unique index")

	result, err := RecordProgress(db, user.ID, goal.ID, 20, day1, nil, nil, noon)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, 20.0, result.Progress.Value)

	var count int64
	db.Model(&models.Progress{}).Where("goal_id = ?", goal.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
