package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	gamificationModels "lms/models/gamification"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[STREAK-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// breakStaleStreaks resets the streak counter for users with no activity
// row for yesterday or today. Runs shortly after midnight so a learner who
// was active yesterday keeps their streak alive until the end of today.
func breakStaleStreaks() {
	db := database.Database.Db
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	var stale []gamificationModels.UserXP
	if err := db.Where("current_streak > 0 AND last_active_day NOT IN (?, ?)", today, yesterday).
		Find(&stale).Error; err != nil {
		logScheduler("Error fetching streak summaries: " + err.Error())
		return
	}

	for _, summary := range stale {
		summary.CurrentStreak = 0
		if err := db.Save(&summary).Error; err != nil {
			logScheduler("Error resetting streak: " + err.Error())
		}
	}

	if len(stale) > 0 {
		logScheduler("Reset streaks for stale users")
	}
}

// StartStreakScheduler runs the nightly streak sweep
func StartStreakScheduler() *cron.Cron {
	c := cron.New()

	spec := "10 0 * * *"
	if config.AppConfig != nil && config.AppConfig.StreakSweepSpec != "" {
		spec = config.AppConfig.StreakSweepSpec
	}

	if _, err := c.AddFunc(spec, breakStaleStreaks); err != nil {
		log.Fatalf("Failed to schedule streak sweep: %v", err)
	}

	c.Start()
	logScheduler("Streak scheduler started")
	return c
}
