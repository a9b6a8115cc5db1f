package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hearth/database"
	"hearth/middleware"
	"hearth/models"
	"hearth/services"
)

// GetSettings returns the household settings (parent only). The
// calendar credential never leaves the server; only its presence is
// reported.
func GetSettings(c *fiber.Ctx) error {
	settings, err := loadSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load settings",
		})
	}

	return c.JSON(fiber.Map{
		"calendar_id":        settings.CalendarID,
		"has_credential":     len(settings.CalendarCredential) > 0,
		"timezone":           settings.Timezone,
		"split_spend_pct":    settings.SplitSpendPct,
		"split_save_pct":     settings.SplitSavePct,
		"split_give_pct":     settings.SplitGivePct,
		"timezone_groups":    models.TimezoneGroups(),
	})
}

// UpdateSettings updates household settings (parent only)
func UpdateSettings(c *fiber.Ctx) error {
	var input models.SettingsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	settings, err := loadSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load settings",
		})
	}

	if input.CalendarID != "" {
		settings.CalendarID = input.CalendarID
	}
	if input.Timezone != "" {
		if !models.ValidTimezone(input.Timezone) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown timezone",
			})
		}
		settings.Timezone = input.Timezone
	}

	spend, save, give := settings.SplitSpendPct, settings.SplitSavePct, settings.SplitGivePct
	if input.SplitSpendPct != nil {
		spend = *input.SplitSpendPct
	}
	if input.SplitSavePct != nil {
		save = *input.SplitSavePct
	}
	if input.SplitGivePct != nil {
		give = *input.SplitGivePct
	}
	if err := models.ValidateSplit(spend, save, give); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	settings.SplitSpendPct, settings.SplitSavePct, settings.SplitGivePct = spend, save, give

	if input.CalendarCredential != "" {
		encrypted, err := services.EncryptCredential([]byte(input.CalendarCredential))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to encrypt calendar credential",
			})
		}
		settings.CalendarCredential = encrypted
	}

	if result := database.DB.Save(settings); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save settings",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogActivity(userID, username, models.ActivitySettingsUpdate, nil, "", c.IP())

	return GetSettings(c)
}

// loadSettings fetches the single settings row, creating it on first
// use.
func loadSettings() (*models.Settings, error) {
	var settings models.Settings
	if result := database.DB.FirstOrCreate(&settings, models.Settings{ID: 1}); result.Error != nil {
		return nil, result.Error
	}
	return &settings, nil
}
