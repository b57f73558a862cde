package controllers

import (
	"lms/database"
	"lms/middleware"
	goldModels "lms/models/gold"

	"github.com/gofiber/fiber/v2"
)

// GetTrackOverview returns the track's levels with the caller's state per
// level: completed, in progress, current, or locked behind promotion.
func GetTrackOverview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trackID := c.Locals("trackID").(int)

	var track goldModels.Track
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_active = ?", trackID, false, true).
		First(&track).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Track not found!", nil)
	}

	var enrollment goldModels.GoldEnrollment
	enrolled := database.Database.Db.Where("user_id = ? AND track_id = ? AND is_deleted = ?",
		userID, trackID, false).First(&enrollment).Error == nil

	var levels []goldModels.Level
	database.Database.Db.Where("track_id = ? AND is_deleted = ? AND is_active = ?", trackID, false, true).
		Order("order_index asc").Find(&levels)

	type LevelWithState struct {
		goldModels.Level
		State     string `json:"state"` // COMPLETED, IN_PROGRESS, LOCKED
		IsCurrent bool   `json:"is_current"`
	}

	result := make([]LevelWithState, len(levels))
	for i, level := range levels {
		state := "LOCKED"
		var progress goldModels.LevelProgress
		if err := database.Database.Db.Where("user_id = ? AND level_id = ? AND is_deleted = ?",
			userID, level.ID, false).First(&progress).Error; err == nil {
			state = progress.Status
		}
		result[i] = LevelWithState{
			Level:     level,
			State:     state,
			IsCurrent: enrolled && enrollment.CurrentLevelID == level.ID,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Track overview fetched successfully!", fiber.Map{
		"track":    track,
		"enrolled": enrolled,
		"levels":   result,
	})
}
