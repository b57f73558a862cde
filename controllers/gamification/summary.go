package controllers

import (
	"lms/database"
	"lms/middleware"
	gamificationModels "lms/models/gamification"

	"github.com/gofiber/fiber/v2"
)

// GetUserBadges lists the caller's earned badges with their definitions
func GetUserBadges(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var grants []gamificationModels.UserBadge
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&grants).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	type BadgeWithGrant struct {
		gamificationModels.Badge
		EarnedAt string `json:"earned_at"`
	}

	result := make([]BadgeWithGrant, 0, len(grants))
	for _, g := range grants {
		var badge gamificationModels.Badge
		if err := database.Database.Db.Where("id = ?", g.BadgeID).First(&badge).Error; err != nil {
			continue
		}
		result = append(result, BadgeWithGrant{
			Badge:    badge,
			EarnedAt: g.CreatedAt.Format("2006-01-02"),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badges fetched successfully!", fiber.Map{
		"badges": result,
		"total":  len(result),
	})
}

// GetUserXP returns the caller's XP summary and recent ledger entries
func GetUserXP(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var summary gamificationModels.UserXP
	if err := database.Database.Db.Where("user_id = ?", userID).First(&summary).Error; err != nil {
		// First-time users simply have an empty summary
		summary = gamificationModels.UserXP{UserID: userID}
	}

	var recent []gamificationModels.XPEntry
	database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Limit(20).Find(&recent)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "XP summary fetched successfully!", fiber.Map{
		"total_xp":       summary.TotalXP,
		"current_streak": summary.CurrentStreak,
		"longest_streak": summary.LongestStreak,
		"recent_entries": recent,
	})
}
