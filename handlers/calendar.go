package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"hearth/database"
	"hearth/middleware"
	"hearth/models"
	"hearth/services"
)

// calendarService builds a provider client from the stored settings.
func calendarService(c *fiber.Ctx) (*services.CalendarService, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load settings")
	}
	if settings.CalendarID == "" || len(settings.CalendarCredential) == 0 {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Calendar is not configured")
	}

	credential, err := services.DecryptCredential(settings.CalendarCredential)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to decrypt calendar credential")
	}

	svc, err := services.NewCalendarService(c.Context(), settings.CalendarID, credential, settings.Timezone)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return svc, nil
}

// ListCalendarEvents returns the mirrored events for one week
func ListCalendarEvents(c *fiber.Ctx) error {
	weekOf := c.Query("week_of")
	if weekOf == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "week_of query parameter is required",
		})
	}

	settings, err := loadSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load settings",
		})
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01-02", weekOf, loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid week_of date",
		})
	}

	var events []models.CalendarEvent
	if result := database.DB.Preload("Assignees").Where("start >= ? AND start < ?", start, start.AddDate(0, 0, 7)).Order("start").Find(&events); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch events",
		})
	}

	return c.JSON(events)
}

// SyncCalendar refreshes the local mirror from the provider
func SyncCalendar(c *fiber.Ctx) error {
	weekOf := c.Query("week_of")
	if weekOf == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "week_of query parameter is required",
		})
	}

	svc, err := calendarService(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}

	events, err := svc.SyncWeek(weekOf)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogActivity(userID, username, models.ActivityCalendarSync, nil, "Synced week "+weekOf, c.IP())

	return c.JSON(events)
}

// CreateCalendarEvent writes an event to the provider and mirrors it
func CreateCalendarEvent(c *fiber.Ctx) error {
	var input models.CalendarEventInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if input.Title == "" || input.Start.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and start are required",
		})
	}
	if input.End.IsZero() {
		input.End = input.Start.Add(time.Hour)
	}

	svc, err := calendarService(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}

	event, err := svc.CreateEvent(input)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if result := database.DB.Create(event); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Event created upstream but failed to mirror locally",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// UpdateCalendarEvent patches an event upstream and in the mirror
func UpdateCalendarEvent(c *fiber.Ctx) error {
	eventID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	var event models.CalendarEvent
	if result := database.DB.First(&event, eventID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Event not found",
		})
	}

	var input models.CalendarEventInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	svc, err := calendarService(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}

	updated, err := svc.UpdateEvent(event.ProviderID, input)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	event.Title = updated.Title
	event.Start = updated.Start
	event.End = updated.End
	event.AllDay = updated.AllDay
	event.Location = updated.Location

	if result := database.DB.Save(&event); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update mirrored event",
		})
	}

	return c.JSON(event)
}

// DeleteCalendarEvent removes an event upstream and locally
func DeleteCalendarEvent(c *fiber.Ctx) error {
	eventID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	var event models.CalendarEvent
	if result := database.DB.First(&event, eventID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Event not found",
		})
	}

	svc, err := calendarService(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}

	if err := svc.DeleteEvent(event.ProviderID); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.DB.Where("calendar_event_id = ?", event.ID).Delete(&models.EventAssignment{})
	if result := database.DB.Delete(&event); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete mirrored event",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
