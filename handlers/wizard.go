package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hearth/database"
	"hearth/middleware"
	"hearth/models"
	"hearth/services"
	"hearth/wizard"
)

// WizardStore holds every user's in-progress plan draft; set at
// startup.
var WizardStore *wizard.Store

// MealSuggester is nil when no AI key is configured; suggestion
// endpoints degrade to a clear error instead of a panic.
var MealSuggester *services.Suggester

// saveDraft writes the draft through to the database so a reload can
// offer to resume it.
func saveDraft(userID uint, draft *wizard.Draft) {
	payload, err := wizard.Serialize(draft)
	if err != nil {
		return
	}
	var row models.WizardDraft
	if result := database.DB.Where("user_id = ?", userID).First(&row); result.Error != nil {
		database.DB.Create(&models.WizardDraft{UserID: userID, Payload: payload})
		return
	}
	row.Payload = payload
	database.DB.Save(&row)
}

// GetWizardDraft returns the caller's draft plus whether a saved
// draft exists to resume.
func GetWizardDraft(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	draft := WizardStore.Get(userID)

	var saved models.WizardDraft
	hasSaved := database.DB.Where("user_id = ?", userID).First(&saved).Error == nil

	return c.JSON(fiber.Map{
		"draft":     draft,
		"has_saved": hasSaved,
	})
}

// ResumeWizardDraft restores the saved draft into the session store
func ResumeWizardDraft(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var saved models.WizardDraft
	if result := database.DB.Where("user_id = ?", userID).First(&saved); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No saved draft to resume",
		})
	}

	if err := WizardStore.Restore(userID, saved.Payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Saved draft is corrupted",
		})
	}

	return c.JSON(WizardStore.Get(userID))
}

// DiscardWizardDraft throws away the in-memory and saved drafts
func DiscardWizardDraft(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	WizardStore.Reset(userID)
	database.DB.Where("user_id = ?", userID).Delete(&models.WizardDraft{})
	return c.SendStatus(fiber.StatusNoContent)
}

type WeekRequest struct {
	WeekOf string `json:"week_of"`
}

// SetWizardWeek selects the week anchor for the draft
func SetWizardWeek(c *fiber.Ctx) error {
	var req WeekRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if _, err := wizard.WeekDates(req.WeekOf); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid week anchor date",
		})
	}

	// Weeks that already have a plan cannot be drafted again
	var count int64
	database.DB.Model(&models.WeeklyPlan{}).Where("week_of = ?", req.WeekOf).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A plan already exists for week " + req.WeekOf,
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		d.SetWeekOf(req.WeekOf)
	})
	saveDraft(userID, draft)

	return c.JSON(draft)
}

type PreferencesRequest struct {
	Preferences string `json:"preferences"`
}

// SetWizardPreferences records the free-text preferences that bias
// AI suggestion
func SetWizardPreferences(c *fiber.Ctx) error {
	var req PreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		d.Preferences = req.Preferences
	})
	saveDraft(userID, draft)

	return c.JSON(draft)
}

type RecipeSelectionRequest struct {
	RecipeID  uint   `json:"recipe_id"`
	RecipeIDs []uint `json:"recipe_ids"`
}

// ToggleWizardRecipe flips one recipe in or out of the manual
// pre-selection
func ToggleWizardRecipe(c *fiber.Ctx) error {
	var req RecipeSelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		if req.RecipeIDs != nil {
			d.SetSelectedRecipeIDs(req.RecipeIDs)
		} else {
			d.ToggleRecipeSelection(req.RecipeID)
		}
	})
	saveDraft(userID, draft)

	return c.JSON(draft)
}

// SuggestWizardMeals asks the AI for a full week of proposed meals
func SuggestWizardMeals(c *fiber.Ctx) error {
	if MealSuggester == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Meal suggestion is not configured",
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Get(userID)
	if draft.WeekOf == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Select a week before requesting suggestions",
		})
	}

	var recipes []models.Recipe
	if result := database.DB.Find(&recipes); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch recipes",
		})
	}

	meals, err := MealSuggester.SuggestWeek(c.Context(), draft.WeekOf, draft.Preferences, recipes, draft.SelectedRecipeIDs)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	draft = WizardStore.Update(userID, func(d *wizard.Draft) {
		d.SetProposedMeals(meals)
	})
	saveDraft(userID, draft)

	return c.JSON(draft)
}

type AddMealRequest struct {
	Day      int    `json:"day"`
	RecipeID *uint  `json:"recipe_id"`
	Name     string `json:"name"`
}

// AddWizardMeal adds a manually chosen meal to a day
func AddWizardMeal(c *fiber.Ctx) error {
	var req AddMealRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Day < 1 || req.Day > 7 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Day must be between 1 and 7",
		})
	}

	meal := wizard.ProposedMeal{Name: req.Name, Origin: models.MealOriginManual}
	if req.RecipeID != nil {
		var recipe models.Recipe
		if result := database.DB.First(&recipe, *req.RecipeID); result.Error != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown recipe",
			})
		}
		meal.RecipeID = req.RecipeID
		meal.Name = recipe.Name
		meal.TimeRating = recipe.TimeRating
	}
	if meal.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A recipe or a name is required",
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		d.AddMealToDay(req.Day, meal)
	})
	saveDraft(userID, draft)

	return c.Status(fiber.StatusCreated).JSON(draft)
}

// UpdateWizardMeal patches one proposed meal
func UpdateWizardMeal(c *fiber.Ctx) error {
	var patch wizard.MealPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := middleware.GetUserID(c)
	found := false
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		found = d.UpdateMealByID(c.Params("id"), patch)
	})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meal not found",
		})
	}
	saveDraft(userID, draft)

	return c.JSON(draft)
}

// RemoveWizardMeal removes one proposed meal
func RemoveWizardMeal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	found := false
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		found = d.RemoveMeal(c.Params("id"))
	})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meal not found",
		})
	}
	saveDraft(userID, draft)

	return c.JSON(draft)
}

type SwapRequest struct {
	IDA string `json:"id_a"`
	IDB string `json:"id_b"`
}

// SwapWizardMeals exchanges the days of two meals (drag-to-swap)
func SwapWizardMeals(c *fiber.Ctx) error {
	var req SwapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := middleware.GetUserID(c)
	swapped := false
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		swapped = d.SwapMealsByID(req.IDA, req.IDB)
	})
	if !swapped {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meal not found",
		})
	}
	saveDraft(userID, draft)

	return c.JSON(draft)
}

type MoveRequest struct {
	Day int `json:"day"`
}

// MoveWizardMeal re-dates a meal onto another day (tap-to-move)
func MoveWizardMeal(c *fiber.Ctx) error {
	var req MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Day < 1 || req.Day > 7 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Day must be between 1 and 7",
		})
	}

	userID := middleware.GetUserID(c)
	moved := false
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		moved = d.MoveMealToDay(c.Params("id"), req.Day)
	})
	if !moved {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meal not found",
		})
	}
	saveDraft(userID, draft)

	return c.JSON(draft)
}

// ReplaceWizardMeal asks the AI for a different recipe for one day
func ReplaceWizardMeal(c *fiber.Ctx) error {
	if MealSuggester == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Meal suggestion is not configured",
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Get(userID)

	mealID := c.Params("id")
	var target *wizard.ProposedMeal
	for i := range draft.Meals {
		if draft.Meals[i].ID == mealID {
			target = &draft.Meals[i]
			break
		}
	}
	if target == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meal not found",
		})
	}

	var recipes []models.Recipe
	if result := database.DB.Find(&recipes); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch recipes",
		})
	}

	// Avoid every recipe already on the plan
	avoid := make([]uint, 0, len(draft.Meals))
	for _, m := range draft.Meals {
		if m.RecipeID != nil {
			avoid = append(avoid, *m.RecipeID)
		}
	}

	replacement, err := MealSuggester.ReplaceMeal(c.Context(), draft.WeekOf, target.Day, draft.Preferences, recipes, avoid)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	draft = WizardStore.Update(userID, func(d *wizard.Draft) {
		d.UpdateMealByID(mealID, wizard.MealPatch{
			RecipeID:   replacement.RecipeID,
			Name:       &replacement.Name,
			TimeRating: &replacement.TimeRating,
			Rationale:  &replacement.Rationale,
			Origin:     &replacement.Origin,
		})
	})
	saveDraft(userID, draft)

	return c.JSON(draft)
}

// LoadWizardStaples copies the household staples into the draft,
// replacing whatever staple edits the draft had.
func LoadWizardStaples(c *fiber.Ctx) error {
	var staples []models.StapleItem
	if result := database.DB.Preload("Ingredient").Find(&staples); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch staples",
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		d.Staples = nil
		for _, s := range staples {
			d.AddStaple(wizard.StapleDraft{
				IngredientID: s.IngredientID,
				Name:         s.Ingredient.Name,
				Department:   s.Ingredient.Department,
				Quantity:     s.Quantity,
				Unit:         s.Unit,
			})
		}
	})
	saveDraft(userID, draft)

	return c.JSON(draft)
}

type StapleDraftRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

// AddWizardStaple adds a one-off staple to the draft
func AddWizardStaple(c *fiber.Ctx) error {
	var req StapleDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var ingredient models.Ingredient
	if result := database.DB.First(&ingredient, req.IngredientID); result.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown ingredient",
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		d.AddStaple(wizard.StapleDraft{
			IngredientID: ingredient.ID,
			Name:         ingredient.Name,
			Department:   ingredient.Department,
			Quantity:     req.Quantity,
			Unit:         req.Unit,
		})
	})
	saveDraft(userID, draft)

	return c.Status(fiber.StatusCreated).JSON(draft)
}

// UpdateWizardStaple updates a draft staple's quantity or unit
func UpdateWizardStaple(c *fiber.Ctx) error {
	var req StapleDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := middleware.GetUserID(c)
	found := false
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		found = d.UpdateStapleByID(c.Params("id"), req.Quantity, req.Unit)
	})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staple not found",
		})
	}
	saveDraft(userID, draft)

	return c.JSON(draft)
}

// RemoveWizardStaple drops a staple from the draft
func RemoveWizardStaple(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	found := false
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		found = d.RemoveStaple(c.Params("id"))
	})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staple not found",
		})
	}
	saveDraft(userID, draft)

	return c.JSON(draft)
}

type ToggleAssignmentRequest struct {
	EventID string `json:"event_id"`
	UserID  uint   `json:"user_id"`
}

// ToggleWizardAssignment toggles a member on or off an event's
// assignee set
func ToggleWizardAssignment(c *fiber.Ctx) error {
	var req ToggleAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.EventID == "" || req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "event_id and user_id are required",
		})
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		d.ToggleEventUserAssignment(req.EventID, req.UserID)
	})
	saveDraft(userID, draft)

	return c.JSON(draft)
}

// GenerateWizardGroceries builds the draft grocery list from the
// proposed meals and staples, replacing any prior draft list. Local
// edits to the old list are lost, matching the regenerate button.
func GenerateWizardGroceries(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	draft := WizardStore.Get(userID)

	if err := draft.ReadyForReview(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	items, err := services.GenerateGroceryList(draft.Meals, draft.Staples)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	draft = WizardStore.Update(userID, func(d *wizard.Draft) {
		d.SetGroceryItems(items)
	})
	saveDraft(userID, draft)

	return c.JSON(draft)
}

type GroceryDraftRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Quantity   string `json:"quantity"`
	Store      string `json:"store"`
}

// AddWizardGroceryItem adds a manual item to the draft list
func AddWizardGroceryItem(c *fiber.Ctx) error {
	var req GroceryDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}
	if req.Department == "" {
		req.Department = "Other"
	}

	userID := middleware.GetUserID(c)
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		d.AddGroceryItem(wizard.GroceryItemDraft{
			Name:       req.Name,
			Department: req.Department,
			Quantity:   req.Quantity,
			Store:      req.Store,
		})
	})
	saveDraft(userID, draft)

	return c.Status(fiber.StatusCreated).JSON(draft)
}

// UpdateWizardGroceryItem patches one draft grocery item
func UpdateWizardGroceryItem(c *fiber.Ctx) error {
	var patch wizard.GroceryPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := middleware.GetUserID(c)
	found := false
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		found = d.UpdateGroceryItemByID(c.Params("id"), patch)
	})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Grocery item not found",
		})
	}
	saveDraft(userID, draft)

	return c.JSON(draft)
}

// RemoveWizardGroceryItem drops one item from the draft list
func RemoveWizardGroceryItem(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	found := false
	draft := WizardStore.Update(userID, func(d *wizard.Draft) {
		found = d.RemoveGroceryItem(c.Params("id"))
	})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Grocery item not found",
		})
	}
	saveDraft(userID, draft)

	return c.JSON(draft)
}

// GroupedWizardGroceries returns the draft list grouped for shopping:
// by department, or by store then department with ?by=store.
func GroupedWizardGroceries(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	draft := WizardStore.Get(userID)

	order := departmentWalkOrder()

	if c.Query("by") == "store" {
		groups := wizard.GroupByStoreThenDepartment(draft.GroceryItems, order, StoreOrderOverrides())
		return c.JSON(fiber.Map{
			"groups":    groups,
			"unchecked": wizard.UncheckedCount(draft.GroceryItems),
		})
	}

	groups := wizard.GroupByDepartment(draft.GroceryItems, order)
	return c.JSON(fiber.Map{
		"groups":    groups,
		"unchecked": wizard.UncheckedCount(draft.GroceryItems),
	})
}

// WizardStatus reports each step gate so pages can redirect backward
// when a prerequisite is missing.
func WizardStatus(c *fiber.Ctx) error {
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

	status := fiber.Map{
		"week_selected":  draft.WeekOf != "",
		"review_ready":   draft.ReadyForReview() == nil,
		"events_ready":   draft.EventsComplete(eventIDs) == nil,
		"list_generated": draft.ListGenerated,
	}
	if err := draft.ReadyToFinalize(eventIDs); err != nil {
		status["finalize_blocked_by"] = err.Error()
	} else {
		status["finalize_ready"] = true
	}

	return c.JSON(status)
}

// departmentWalkOrder reads the configured department order, falling
// back to the built-in reference order on an empty table.
func departmentWalkOrder() []string {
	var departments []models.Department
	database.DB.Order("sort_order").Find(&departments)
	if len(departments) == 0 {
		return models.DepartmentOrder()
	}
	order := make([]string, len(departments))
	for i, d := range departments {
		order[i] = d.Name
	}
	return order
}
