package controllers

import (
	"testing"
	"time"

	"lms/database"
	courseModels "lms/models/course"
	gamificationModels "lms/models/gamification"

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
	database.SeedBadges(db)
	return db
}

func completeLesson(t *testing.T, db *gorm.DB, userID, lessonID uint) {
	t.Helper()
	now := time.Now()
	require.NoError(t, db.Create(&courseModels.LessonProgress{
		UserID:             userID,
		LessonID:           lessonID,
		Status:             courseModels.ProgressCompleted,
		ProgressPercentage: 100,
		CompletedAt:        &now,
	}).Error)
}

func badgeByKey(t *testing.T, db *gorm.DB, key string) gamificationModels.Badge {
	t.Helper()
	var badge gamificationModels.Badge
	require.NoError(t, db.Where("key = ?", key).First(&badge).Error)
	return badge
}

func TestFirstLessonBadgeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	completeLesson(t, db, 1, 10)

	EvaluateBadges(db, 1)
	EvaluateBadges(db, 1)

	badge := badgeByKey(t, db, gamificationModels.KeyFirstLesson)

	var grants int64
	db.Model(&gamificationModels.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", 1, badge.ID).Count(&grants)
	assert.Equal(t, int64(1), grants)

	var entries int64
	db.Model(&gamificationModels.XPEntry{}).
		Where("user_id = ? AND source_type = ? AND source_id = ?", 1, gamificationModels.XPSourceBadge, badge.ID).
		Count(&entries)
	assert.Equal(t, int64(1), entries)

	var summary gamificationModels.UserXP
	require.NoError(t, db.Where("user_id = ?", 1).First(&summary).Error)
	assert.Equal(t, badge.XPReward, summary.TotalXP)
}

func TestFirstLessonBadgeRequiresExactlyOne(t *testing.T) {
	db := newTestDB(t)
	completeLesson(t, db, 1, 10)
	completeLesson(t, db, 1, 11)

	EvaluateBadges(db, 1)

	badge := badgeByKey(t, db, gamificationModels.KeyFirstLesson)
	var grants int64
	db.Model(&gamificationModels.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", 1, badge.ID).Count(&grants)
	assert.Equal(t, int64(0), grants)
}

func TestFirstModuleBadge(t *testing.T) {
	db := newTestDB(t)

	module := courseModels.Module{CourseID: 1, Title: "Basics", OrderIndex: 1}
	require.NoError(t, db.Create(&module).Error)
	lessons := []courseModels.Lesson{
		{ModuleID: module.ID, Title: "A", OrderIndex: 1, IsActive: true, IsRequired: true},
		{ModuleID: module.ID, Title: "B", OrderIndex: 2, IsActive: true, IsRequired: true},
	}
	require.NoError(t, db.Create(&lessons).Error)

	completeLesson(t, db, 1, lessons[0].ID)
	EvaluateBadges(db, 1)

	badge := badgeByKey(t, db, gamificationModels.KeyFirstModule)
	var grants int64
	db.Model(&gamificationModels.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", 1, badge.ID).Count(&grants)
	assert.Equal(t, int64(0), grants)

	completeLesson(t, db, 1, lessons[1].ID)
	EvaluateBadges(db, 1)

	db.Model(&gamificationModels.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", 1, badge.ID).Count(&grants)
	assert.Equal(t, int64(1), grants)
}

func TestLessonXPGrantedOnce(t *testing.T) {
	db := newTestDB(t)

	lesson := courseModels.Lesson{ModuleID: 1, Title: "A", OrderIndex: 1, IsActive: true, XPReward: 25}
	require.NoError(t, db.Create(&lesson).Error)

	require.NoError(t, AwardLessonXP(db, 1, &lesson))
	require.NoError(t, AwardLessonXP(db, 1, &lesson))

	var entries int64
	db.Model(&gamificationModels.XPEntry{}).
		Where("user_id = ? AND source_type = ? AND source_id = ?", 1, gamificationModels.XPSourceLesson, lesson.ID).
		Count(&entries)
	assert.Equal(t, int64(1), entries)

	var summary gamificationModels.UserXP
	require.NoError(t, db.Where("user_id = ?", 1).First(&summary).Error)
	assert.Equal(t, 25, summary.TotalXP)
}

func TestStreakCountsOncePerDay(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, TouchStreak(db, 1, 20))
	require.NoError(t, TouchStreak(db, 1, 20))

	var days int64
	db.Model(&gamificationModels.DailyStreak{}).Where("user_id = ?", 1).Count(&days)
	assert.Equal(t, int64(1), days)

	var summary gamificationModels.UserXP
	require.NoError(t, db.Where("user_id = ?", 1).First(&summary).Error)
	assert.Equal(t, 1, summary.CurrentStreak)

	var day gamificationModels.DailyStreak
	require.NoError(t, db.Where("user_id = ?", 1).First(&day).Error)
	assert.Equal(t, 2, day.LessonsDone)
	assert.Equal(t, 40, day.XPEarned)
}

func TestStreakContinuesFromYesterday(t *testing.T) {
	db := newTestDB(t)

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	require.NoError(t, db.Create(&gamificationModels.DailyStreak{
		UserID: 1, ActivityDate: yesterday, LessonsDone: 1,
	}).Error)
	require.NoError(t, db.Create(&gamificationModels.UserXP{
		UserID: 1, CurrentStreak: 6, LongestStreak: 6, LastActiveDay: yesterday,
	}).Error)

	require.NoError(t, TouchStreak(db, 1, 20))

	var summary gamificationModels.UserXP
	require.NoError(t, db.Where("user_id = ?", 1).First(&summary).Error)
	assert.Equal(t, 7, summary.CurrentStreak)
	assert.Equal(t, 7, summary.LongestStreak)

	// Seven days in a row qualifies for the week streak badge
	EvaluateBadges(db, 1)
	badge := badgeByKey(t, db, gamificationModels.KeyWeekStreak)
	var grants int64
	db.Model(&gamificationModels.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", 1, badge.ID).Count(&grants)
	assert.Equal(t, int64(1), grants)
}

func TestBrokenStreakRestartsAtOne(t *testing.T) {
	db := newTestDB(t)

	threeDaysAgo := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	require.NoError(t, db.Create(&gamificationModels.UserXP{
		UserID: 1, CurrentStreak: 12, LongestStreak: 12, LastActiveDay: threeDaysAgo,
	}).Error)

	require.NoError(t, TouchStreak(db, 1, 20))

	var summary gamificationModels.UserXP
	require.NoError(t, db.Where("user_id = ?", 1).First(&summary).Error)
	assert.Equal(t, 1, summary.CurrentStreak)
	assert.Equal(t, 12, summary.LongestStreak)
}

func TestAwardBadgeUnknownKeyFails(t *testing.T) {
	db := newTestDB(t)

	_, err := AwardBadge(db, 1, "no_such_badge")
	assert.Error(t, err)
}
