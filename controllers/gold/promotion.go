package controllers

import (
	"errors"
	"time"

	"lms/database"
	"lms/middleware"
	goldModels "lms/models/gold"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	ErrLevelNotFound    = errors.New("level not found")
	ErrTrackExhausted   = errors.New("no next level in track")
	ErrPromotionPending = errors.New("a pending promotion request already exists")
	ErrRequestNotFound  = errors.New("promotion request not found")
	ErrRequestReviewed  = errors.New("promotion request already reviewed")
	ErrNoEnrollment     = errors.New("no enrollment at the current level")
)

// RequestLevelPromotion opens a pending promotion request for the student.
// The next level is resolved now, as the active level one order index above
// the current one in the same track. At most one pending request per
// (student, current level); a rejected request does not block a new one.
func RequestLevelPromotion(db *gorm.DB, studentID, currentLevelID uint) (*goldModels.LevelPromotionRequest, error) {
	var current goldModels.Level
	if err := db.Where("id = ? AND is_deleted = ? AND is_active = ?", currentLevelID, false, true).
		First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}

	var pending goldModels.LevelPromotionRequest
	err := db.Where("student_id = ? AND current_level_id = ? AND status = ? AND is_deleted = ?",
		studentID, currentLevelID, goldModels.PromotionPending, false).First(&pending).Error
	if err == nil {
		return nil, ErrPromotionPending
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var next goldModels.Level
	err = db.Where("track_id = ? AND order_index = ? AND is_deleted = ? AND is_active = ?",
		current.TrackID, current.OrderIndex+1, false, true).First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackExhausted
		}
		return nil, err
	}

	request := goldModels.LevelPromotionRequest{
		StudentID:      studentID,
		TrackID:        current.TrackID,
		CurrentLevelID: current.ID,
		NextLevelID:    next.ID,
		Status:         goldModels.PromotionPending,
		RequestedAt:    time.Now(),
	}
	if err := db.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ApproveLevelPromotion approves a pending request and applies the three
// promotion effects as one transaction: the enrollment pointer moves to
// the next level, the current LevelProgress completes, and a LevelProgress
// for the next level starts fresh. Any failure rolls the whole approval
// back; a partial promotion is never left behind.
func ApproveLevelPromotion(db *gorm.DB, requestID, reviewerID uint) (*goldModels.LevelPromotionRequest, error) {
	var request goldModels.LevelPromotionRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if request.Status != goldModels.PromotionPending {
			return ErrRequestReviewed
		}

		now := time.Now()
		request.Status = goldModels.PromotionApproved
		request.ReviewedAt = &now
		request.ReviewedBy = &reviewerID
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		// 1. Move the enrollment pointer, scoped to the matching row
		res := tx.Model(&goldModels.GoldEnrollment{}).
			Where("user_id = ? AND current_level_id = ? AND is_deleted = ?",
				request.StudentID, request.CurrentLevelID, false).
			Update("current_level_id", request.NextLevelID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoEnrollment
		}

		// 2. Complete the current level
		var currentProgress goldModels.LevelProgress
		err := tx.Where("user_id = ? AND level_id = ? AND is_deleted = ?",
			request.StudentID, request.CurrentLevelID, false).First(&currentProgress).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			currentProgress = goldModels.LevelProgress{
				UserID:    request.StudentID,
				LevelID:   request.CurrentLevelID,
				StartedAt: now,
			}
		}
		currentProgress.Status = goldModels.LevelCompleted
		if currentProgress.CompletedAt == nil {
			currentProgress.CompletedAt = &now
		}
		if currentProgress.ID == 0 {
			if err := tx.Create(&currentProgress).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&currentProgress).Error; err != nil {
			return err
		}

		// 3. Start the next level, reactivating an old row if one exists
		var nextProgress goldModels.LevelProgress
		err = tx.Where("user_id = ? AND level_id = ? AND is_deleted = ?",
			request.StudentID, request.NextLevelID, false).First(&nextProgress).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			nextProgress = goldModels.LevelProgress{
				UserID:  request.StudentID,
				LevelID: request.NextLevelID,
			}
		}
		nextProgress.Status = goldModels.LevelInProgress
		nextProgress.StartedAt = now
		nextProgress.CompletedAt = nil
		if nextProgress.ID == 0 {
			return tx.Create(&nextProgress).Error
		}
		return tx.Save(&nextProgress).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// RejectLevelPromotion rejects a pending request with a reason. No other
// state changes; the student may request again for the same level.
func RejectLevelPromotion(db *gorm.DB, requestID, reviewerID uint, reason string) (*goldModels.LevelPromotionRequest, error) {
	var request goldModels.LevelPromotionRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Status != goldModels.PromotionPending {
		return nil, ErrRequestReviewed
	}

	now := time.Now()
	request.Status = goldModels.PromotionRejected
	request.ReviewedAt = &now
	request.ReviewedBy = &reviewerID
	request.RejectionReason = reason
	if err := db.Save(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// RequestPromotion opens a promotion request for the calling student
func RequestPromotion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedPromotionRequest").(*struct {
		CurrentLevelID uint `json:"current_level_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	request, err := RequestLevelPromotion(database.Database.Db, userID, reqData.CurrentLevelID)
	if err != nil {
		switch {
		case errors.Is(err, ErrLevelNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Level not found!", nil)
		case errors.Is(err, ErrTrackExhausted):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are already at the final level of this track!", nil)
		case errors.Is(err, ErrPromotionPending):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A promotion request is already pending for this level!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit promotion request!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Promotion request submitted successfully!", request)
}

// AdminApprovePromotion approves a pending promotion request
func AdminApprovePromotion(c *fiber.Ctx) error {
	reviewerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)

	request, err := ApproveLevelPromotion(database.Database.Db, uint(requestID), reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Promotion request not found!", nil)
		case errors.Is(err, ErrRequestReviewed):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Promotion request already reviewed!", nil)
		case errors.Is(err, ErrNoEnrollment):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Student has no enrollment at the requested level!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve promotion!", nil)
		}
	}

	utils.NotifyAsync("promotion.approved", fiber.Map{
		"student_id": request.StudentID,
		"level_id":   request.NextLevelID,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promotion approved successfully!", request)
}

// AdminRejectPromotion rejects a pending promotion request with a reason
func AdminRejectPromotion(c *fiber.Ctx) error {
	reviewerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)

	reqData, ok := c.Locals("validatedPromotionReview").(*struct {
		Reason string `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	request, err := RejectLevelPromotion(database.Database.Db, uint(requestID), reviewerID, reqData.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Promotion request not found!", nil)
		case errors.Is(err, ErrRequestReviewed):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Promotion request already reviewed!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject promotion!", nil)
		}
	}

	utils.NotifyAsync("promotion.rejected", fiber.Map{
		"student_id": request.StudentID,
		"level_id":   request.CurrentLevelID,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promotion rejected.", request)
}

// AdminListPendingPromotions lists pending requests, oldest first
func AdminListPendingPromotions(c *fiber.Ctx) error {
	var requests []goldModels.LevelPromotionRequest
	if err := database.Database.Db.Where("status = ? AND is_deleted = ?", goldModels.PromotionPending, false).
		Order("requested_at asc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch promotion requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promotion requests fetched successfully!", fiber.Map{
		"requests": requests,
		"total":    len(requests),
	})
}
