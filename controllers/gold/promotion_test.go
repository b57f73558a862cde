package controllers

import (
	"testing"
	"time"

	"lms/database"
	goldModels "lms/models/gold"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

// seedTrack creates a track with two ordered levels and a student enrolled
// at the first one
func seedTrack(t *testing.T, db *gorm.DB, studentID uint) (goldModels.Track, []goldModels.Level) {
	t.Helper()

	track := goldModels.Track{Title: "Gold Path", IsActive: true}
	require.NoError(t, db.Create(&track).Error)

	levels := []goldModels.Level{
		{TrackID: track.ID, Title: "Level 1", OrderIndex: 1, IsActive: true},
		{TrackID: track.ID, Title: "Level 2", OrderIndex: 2, IsActive: true},
	}
	require.NoError(t, db.Create(&levels).Error)

	require.NoError(t, db.Create(&goldModels.GoldEnrollment{
		UserID: studentID, TrackID: track.ID, CurrentLevelID: levels[0].ID, Status: "ACTIVE",
	}).Error)
	require.NoError(t, db.Create(&goldModels.LevelProgress{
		UserID: studentID, LevelID: levels[0].ID, Status: goldModels.LevelInProgress, StartedAt: time.Now(),
	}).Error)

	return track, levels
}

func TestRequestResolvesNextLevel(t *testing.T) {
	db := newTestDB(t)
	_, levels := seedTrack(t, db, 1)

	request, err := RequestLevelPromotion(db, 1, levels[0].ID)
	require.NoError(t, err)
	assert.Equal(t, goldModels.PromotionPending, request.Status)
	assert.Equal(t, levels[0].ID, request.CurrentLevelID)
	assert.Equal(t, levels[1].ID, request.NextLevelID)
}

func TestRequestFailsWhenTrackExhausted(t *testing.T) {
	db := newTestDB(t)
	_, levels := seedTrack(t, db, 1)

	_, err := RequestLevelPromotion(db, 1, levels[1].ID)
	assert.ErrorIs(t, err, ErrTrackExhausted)
}

func TestRequestFailsForUnknownLevel(t *testing.T) {
	db := newTestDB(t)
	seedTrack(t, db, 1)

	_, err := RequestLevelPromotion(db, 1, 9999)
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestOnlyOnePendingRequestPerLevel(t *testing.T) {
	db := newTestDB(t)
	_, levels := seedTrack(t, db, 1)

	_, err := RequestLevelPromotion(db, 1, levels[0].ID)
	require.NoError(t, err)

	_, err = RequestLevelPromotion(db, 1, levels[0].ID)
	assert.ErrorIs(t, err, ErrPromotionPending)
}

func TestApprovalAppliesAllThreeEffects(t *testing.T) {
	db := newTestDB(t)
	_, levels := seedTrack(t, db, 1)

	request, err := RequestLevelPromotion(db, 1, levels[0].ID)
	require.NoError(t, err)

	approved, err := ApproveLevelPromotion(db, request.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, goldModels.PromotionApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, uint(42), *approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)

	// 1. Enrollment pointer moved
	var enrollment goldModels.GoldEnrollment
	require.NoError(t, db.Where("user_id = ?", 1).First(&enrollment).Error)
	assert.Equal(t, levels[1].ID, enrollment.CurrentLevelID)

	// 2. Old level completed
	var oldProgress goldModels.LevelProgress
	require.NoError(t, db.Where("user_id = ? AND level_id = ?", 1, levels[0].ID).First(&oldProgress).Error)
	assert.Equal(t, goldModels.LevelCompleted, oldProgress.Status)
	require.NotNil(t, oldProgress.CompletedAt)

	// 3. New level started
	var newProgress goldModels.LevelProgress
	require.NoError(t, db.Where("user_id = ? AND level_id = ?", 1, levels[1].ID).First(&newProgress).Error)
	assert.Equal(t, goldModels.LevelInProgress, newProgress.Status)
	assert.Nil(t, newProgress.CompletedAt)
}

func TestApprovalRollsBackWithoutEnrollment(t *testing.T) {
	db := newTestDB(t)
	_, levels := seedTrack(t, db, 1)

	request, err := RequestLevelPromotion(db, 1, levels[0].ID)
	require.NoError(t, err)

	// Enrollment disappears before review; the approval must fail whole
	require.NoError(t, db.Where("user_id = ?", 1).Delete(&goldModels.GoldEnrollment{}).Error)

	_, err = ApproveLevelPromotion(db, request.ID, 42)
	assert.ErrorIs(t, err, ErrNoEnrollment)

	// Nothing was applied: the request is still pending and the old level
	// untouched
	var stored goldModels.LevelPromotionRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	assert.Equal(t, goldModels.PromotionPending, stored.Status)

	var oldProgress goldModels.LevelProgress
	require.NoError(t, db.Where("user_id = ? AND level_id = ?", 1, levels[0].ID).First(&oldProgress).Error)
	assert.Equal(t, goldModels.LevelInProgress, oldProgress.Status)
}

func TestRejectionLeavesStateAndAllowsRetry(t *testing.T) {
	db := newTestDB(t)
	_, levels := seedTrack(t, db, 1)

	request, err := RequestLevelPromotion(db, 1, levels[0].ID)
	require.NoError(t, err)

	rejected, err := RejectLevelPromotion(db, request.ID, 42, "Finish the level quizzes first")
	require.NoError(t, err)
	assert.Equal(t, goldModels.PromotionRejected, rejected.Status)
	assert.Equal(t, "Finish the level quizzes first", rejected.RejectionReason)

	// No promotion side effects
	var enrollment goldModels.GoldEnrollment
	require.NoError(t, db.Where("user_id = ?", 1).First(&enrollment).Error)
	assert.Equal(t, levels[0].ID, enrollment.CurrentLevelID)

	// A rejected request does not block a new one
	_, err = RequestLevelPromotion(db, 1, levels[0].ID)
	assert.NoError(t, err)
}

func TestReviewIsTerminal(t *testing.T) {
	db := newTestDB(t)
	_, levels := seedTrack(t, db, 1)

	request, err := RequestLevelPromotion(db, 1, levels[0].ID)
	require.NoError(t, err)

	_, err = ApproveLevelPromotion(db, request.ID, 42)
	require.NoError(t, err)

	_, err = ApproveLevelPromotion(db, request.ID, 42)
	assert.ErrorIs(t, err, ErrRequestReviewed)

	_, err = RejectLevelPromotion(db, request.ID, 42, "too late")
	assert.ErrorIs(t, err, ErrRequestReviewed)
}
