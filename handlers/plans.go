package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"hearth/database"
	"hearth/middleware"
	"hearth/models"
	"hearth/services"
	"hearth/wizard"
)

// ListPlans returns all weekly plans, newest week first
func ListPlans(c *fiber.Ctx) error {
	var plans []models.WeeklyPlan
	if result := database.DB.Preload("Meals").Order("week_of DESC").Find(&plans); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch plans",
		})
	}

	return c.JSON(plans)
}

// GetPlan returns a single plan with its meals
func GetPlan(c *fiber.Ctx) error {
	planID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	var plan models.WeeklyPlan
	if result := database.DB.Preload("Meals").First(&plan, planID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	return c.JSON(plan)
}

// WeekOptions returns the eight selectable week anchors, each flagged
// if a plan already exists for it.
func WeekOptions(c *fiber.Ctx) error {
	var plans []models.WeeklyPlan
	if result := database.DB.Select("week_of").Find(&plans); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch plans",
		})
	}

	existing := make(map[string]bool, len(plans))
	for _, p := range plans {
		existing[p.WeekOf] = true
	}

	return c.JSON(wizard.AnchorOptions(time.Now(), existing))
}

// FinalizePlan persists the caller's wizard draft as one weekly plan,
// grocery list, and set of event assignments. The write is a single
// transaction: if any part fails nothing is committed and the draft
// stays intact for a retry.
func FinalizePlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	draft := WizardStore.Get(userID)

	settings, err := loadSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load settings",
		})
	}

	eventIDs, err := services.WeekEventIDs(draft.WeekOf, settings.Timezone)
	if err != nil {
		eventIDs = nil
	}

	if err := draft.ReadyToFinalize(eventIDs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Plan-uniqueness gate
	var count int64
	database.DB.Model(&models.WeeklyPlan{}).Where("week_of = ?", draft.WeekOf).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A plan already exists for week " + draft.WeekOf,
		})
	}

	var plan models.WeeklyPlan
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		plan = models.WeeklyPlan{
			WeekOf:      draft.WeekOf,
			Status:      models.PlanStatusActive,
			Preferences: draft.Preferences,
			CreatedByID: userID,
		}
		for _, m := range draft.Meals {
			plan.Meals = append(plan.Meals, models.Meal{
				Day:        m.Day,
				Date:       m.Date,
				RecipeID:   m.RecipeID,
				Name:       m.Name,
				TimeRating: m.TimeRating,
				Rationale:  m.Rationale,
				CookID:     m.CookID,
				Origin:     m.Origin,
			})
		}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}

		list := models.GroceryList{
			Name:   "Week of " + draft.WeekOf,
			WeekOf: draft.WeekOf,
		}
		storeIDs := storeIDsByName(tx)
		for _, item := range draft.GroceryItems {
			if item.Removed {
				continue
			}
			row := models.GroceryItem{
				Name:         item.Name,
				Department:   item.Department,
				Quantity:     item.Quantity,
				Attributions: services.EncodeAttributions(item.Attributions),
				Manual:       item.Manual,
				Staple:       item.Staple,
				Checked:      item.Checked,
			}
			if id, ok := storeIDs[item.Store]; ok {
				row.StoreID = &id
			}
			list.Items = append(list.Items, row)
		}
		if err := tx.Create(&list).Error; err != nil {
			return err
		}
		plan.GroceryListID = &list.ID
		if err := tx.Model(&plan).Update("grocery_list_id", list.ID).Error; err != nil {
			return err
		}

		// Event assignments replace whatever the week had before
		for providerID, userIDs := range draft.EventAssignments {
			var event models.CalendarEvent
			if err := tx.Where("provider_id = ?", providerID).First(&event).Error; err != nil {
				continue // event disappeared since the events step
			}
			if err := tx.Where("calendar_event_id = ?", event.ID).Delete(&models.EventAssignment{}).Error; err != nil {
				return err
			}
			for _, uid := range userIDs {
				if err := tx.Create(&models.EventAssignment{CalendarEventID: event.ID, UserID: uid}).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to finalize plan",
		})
	}

	// Draft is only cleared once the transaction has committed
	WizardStore.Reset(userID)
	database.DB.Where("user_id = ?", userID).Delete(&models.WizardDraft{})

	username := middleware.GetUsername(c)
	services.LogActivity(userID, username, models.ActivityPlanFinalize, &plan.ID, "Finalized week "+plan.WeekOf, c.IP())

	database.DB.Preload("Meals").First(&plan, plan.ID)
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// DeletePlan deletes a plan and its grocery list (parent only)
func DeletePlan(c *fiber.Ctx) error {
	planID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	var plan models.WeeklyPlan
	if result := database.DB.First(&plan, planID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	database.DB.Where("plan_id = ?", plan.ID).Delete(&models.Meal{})
	if plan.GroceryListID != nil {
		database.DB.Where("list_id = ?", *plan.GroceryListID).Delete(&models.GroceryItem{})
		database.DB.Delete(&models.GroceryList{}, *plan.GroceryListID)
	}

	deletedID := plan.ID
	if result := database.DB.Delete(&plan); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete plan",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogActivity(userID, username, models.ActivityPlanDelete, &deletedID, "Deleted week "+plan.WeekOf, c.IP())

	return c.SendStatus(fiber.StatusNoContent)
}

func storeIDsByName(tx *gorm.DB) map[string]uint {
	var stores []models.Store
	tx.Find(&stores)
	ids := make(map[string]uint, len(stores))
	for _, s := range stores {
		ids[s.Name] = s.ID
	}
	return ids
}
