package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hearth/database"
	"hearth/models"
)

// ListActivity returns the household activity log (parent only)
func ListActivity(c *fiber.Ctx) error {
	// Parse query parameters
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	action := c.Query("action")
	userIDStr := c.Query("user_id")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	// Build query
	query := database.DB.Model(&models.ActivityLog{})

	if action != "" {
		query = query.Where("action = ?", action)
	}
	if userIDStr != "" {
		if userID, err := strconv.ParseUint(userIDStr, 10, 32); err == nil {
			query = query.Where("user_id = ?", userID)
		}
	}

	// Get total count
	var total int64
	query.Count(&total)

	var entries []models.ActivityLog
	if result := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activity log",
		})
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetActivityActions returns available activity actions for filtering
func GetActivityActions(c *fiber.Ctx) error {
	actions := []string{
		string(models.ActivityLogin),
		string(models.ActivityMemberCreate),
		string(models.ActivityMemberUpdate),
		string(models.ActivityMemberDelete),
		string(models.ActivityPlanFinalize),
		string(models.ActivityPlanDelete),
		string(models.ActivityRecipeImport),
		string(models.ActivityAllowanceDeposit),
		string(models.ActivityAllowanceWithdraw),
		string(models.ActivityCalendarSync),
		string(models.ActivitySettingsUpdate),
	}

	return c.JSON(actions)
}
