package wizard

import (
	"fmt"

	"github.com/google/uuid"

	"hearth/models"
)

// ProposedMeal is one dinner in the draft. The ID is generated on the
// client side of the wizard and is not a database key; rows only get
// real keys at finalize.
type ProposedMeal struct {
	ID         string            `json:"id"`
	Day        int               `json:"day"` // 1-7 counting from the week anchor
	Date       string            `json:"date"`
	RecipeID   *uint             `json:"recipe_id,omitempty"`
	Name       string            `json:"name"`
	TimeRating models.TimeRating `json:"time_rating"`
	Rationale  string            `json:"rationale,omitempty"`
	CookID     *uint             `json:"cook_id,omitempty"`
	Origin     models.MealOrigin `json:"origin"`
}

type StapleDraft struct {
	ID           string  `json:"id"`
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Department   string  `json:"department"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

type Attribution struct {
	Recipe   string `json:"recipe"`
	Quantity string `json:"quantity"`
}

type GroceryItemDraft struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Department   string        `json:"department"`
	Quantity     string        `json:"quantity"`
	Store        string        `json:"store,omitempty"`
	Attributions []Attribution `json:"attributions,omitempty"`
	Manual       bool          `json:"manual"`
	Staple       bool          `json:"staple"`
	Checked      bool          `json:"checked"`
	Removed      bool          `json:"removed"`
}

// Draft is the in-progress weekly plan. It lives in the session store
// until finalize and never touches external services itself; every
// mutation below is synchronous and cannot fail.
type Draft struct {
	WeekOf            string             `json:"week_of"`
	Preferences       string             `json:"preferences"`
	SelectedRecipeIDs []uint             `json:"selected_recipe_ids"`
	Meals             []ProposedMeal     `json:"meals"`
	Staples           []StapleDraft      `json:"staples"`
	EventAssignments  map[string][]uint  `json:"event_assignments"`
	GroceryItems      []GroceryItemDraft `json:"grocery_items"`
	ListGenerated     bool               `json:"list_generated"`
}

func NewDraft() *Draft {
	return &Draft{
		EventAssignments: map[string][]uint{},
	}
}

// SetWeekOf replaces the week anchor and re-derives every meal's date
// from its day index, so nothing downstream sees a stale date.
func (d *Draft) SetWeekOf(weekOf string) {
	d.WeekOf = weekOf
	for i := range d.Meals {
		if date, err := DayDate(weekOf, d.Meals[i].Day); err == nil {
			d.Meals[i].Date = date
		}
	}
}

func (d *Draft) SetProposedMeals(meals []ProposedMeal) {
	for i := range meals {
		if meals[i].ID == "" {
			meals[i].ID = uuid.NewString()
		}
	}
	d.Meals = meals
}

// MealPatch carries the optional fields of an UpdateMealByID call.
type MealPatch struct {
	RecipeID   *uint              `json:"recipe_id"`
	Name       *string            `json:"name"`
	TimeRating *models.TimeRating `json:"time_rating"`
	Rationale  *string            `json:"rationale"`
	CookID     *uint              `json:"cook_id"`
	ClearCook  bool               `json:"clear_cook"`
	Origin     *models.MealOrigin `json:"origin"`
}

func (d *Draft) UpdateMealByID(id string, patch MealPatch) bool {
	m := d.mealByID(id)
	if m == nil {
		return false
	}
	if patch.RecipeID != nil {
		m.RecipeID = patch.RecipeID
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.TimeRating != nil {
		m.TimeRating = *patch.TimeRating
	}
	if patch.Rationale != nil {
		m.Rationale = *patch.Rationale
	}
	if patch.ClearCook {
		m.CookID = nil
	} else if patch.CookID != nil {
		m.CookID = patch.CookID
	}
	if patch.Origin != nil {
		m.Origin = *patch.Origin
	}
	return true
}

func (d *Draft) RemoveMeal(id string) bool {
	for i := range d.Meals {
		if d.Meals[i].ID == id {
			d.Meals = append(d.Meals[:i], d.Meals[i+1:]...)
			return true
		}
	}
	return false
}

// AddMealToDay creates a meal on the given day. The date is derived
// from the week anchor when one is set.
func (d *Draft) AddMealToDay(day int, meal ProposedMeal) *ProposedMeal {
	meal.ID = uuid.NewString()
	meal.Day = day
	if d.WeekOf != "" {
		if date, err := DayDate(d.WeekOf, day); err == nil {
			meal.Date = date
		}
	}
	if meal.Origin == "" {
		meal.Origin = models.MealOriginManual
	}
	d.Meals = append(d.Meals, meal)
	return &d.Meals[len(d.Meals)-1]
}

// SwapMealsByID exchanges the day and date of two meals, leaving the
// recipe content attached to its original id. This backs the
// drag-to-swap interaction; the tap-to-move path converges on
// MoveMealToDay.
func (d *Draft) SwapMealsByID(idA, idB string) bool {
	a := d.mealByID(idA)
	b := d.mealByID(idB)
	if a == nil || b == nil || a == b {
		return false
	}
	a.Day, b.Day = b.Day, a.Day
	a.Date, b.Date = b.Date, a.Date
	return true
}

// MoveMealToDay re-dates one meal onto a different day.
func (d *Draft) MoveMealToDay(id string, day int) bool {
	m := d.mealByID(id)
	if m == nil {
		return false
	}
	m.Day = day
	if d.WeekOf != "" {
		if date, err := DayDate(d.WeekOf, day); err == nil {
			m.Date = date
		}
	}
	return true
}

func (d *Draft) mealByID(id string) *ProposedMeal {
	for i := range d.Meals {
		if d.Meals[i].ID == id {
			return &d.Meals[i]
		}
	}
	return nil
}

// ToggleRecipeSelection flips a recipe in or out of the manual
// pre-selection that biases AI suggestion.
func (d *Draft) ToggleRecipeSelection(recipeID uint) {
	for i, id := range d.SelectedRecipeIDs {
		if id == recipeID {
			d.SelectedRecipeIDs = append(d.SelectedRecipeIDs[:i], d.SelectedRecipeIDs[i+1:]...)
			return
		}
	}
	d.SelectedRecipeIDs = append(d.SelectedRecipeIDs, recipeID)
}

func (d *Draft) SetSelectedRecipeIDs(ids []uint) {
	d.SelectedRecipeIDs = ids
}

func (d *Draft) AddStaple(s StapleDraft) *StapleDraft {
	s.ID = uuid.NewString()
	d.Staples = append(d.Staples, s)
	return &d.Staples[len(d.Staples)-1]
}

func (d *Draft) UpdateStapleByID(id string, quantity float64, unit string) bool {
	for i := range d.Staples {
		if d.Staples[i].ID == id {
			d.Staples[i].Quantity = quantity
			d.Staples[i].Unit = unit
			return true
		}
	}
	return false
}

func (d *Draft) RemoveStaple(id string) bool {
	for i := range d.Staples {
		if d.Staples[i].ID == id {
			d.Staples = append(d.Staples[:i], d.Staples[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleEventUserAssignment toggles userID's membership in the
// assignee set for one calendar event. Calling it twice with the same
// pair restores the original set.
func (d *Draft) ToggleEventUserAssignment(eventID string, userID uint) {
	if d.EventAssignments == nil {
		d.EventAssignments = map[string][]uint{}
	}
	assignees := d.EventAssignments[eventID]
	for i, id := range assignees {
		if id == userID {
			assignees = append(assignees[:i], assignees[i+1:]...)
			if len(assignees) == 0 {
				delete(d.EventAssignments, eventID)
			} else {
				d.EventAssignments[eventID] = assignees
			}
			return
		}
	}
	d.EventAssignments[eventID] = append(assignees, userID)
}

// SetGroceryItems replaces the whole draft list, as the generation
// call does. Items without ids get fresh ones.
func (d *Draft) SetGroceryItems(items []GroceryItemDraft) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
	d.GroceryItems = items
	d.ListGenerated = true
}

func (d *Draft) AddGroceryItem(item GroceryItemDraft) *GroceryItemDraft {
	item.ID = uuid.NewString()
	item.Manual = true
	d.GroceryItems = append(d.GroceryItems, item)
	return &d.GroceryItems[len(d.GroceryItems)-1]
}

// GroceryPatch carries the optional fields of a grocery item update.
type GroceryPatch struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Quantity   *string `json:"quantity"`
	Store      *string `json:"store"`
	Checked    *bool   `json:"checked"`
	Removed    *bool   `json:"removed"`
}

func (d *Draft) UpdateGroceryItemByID(id string, patch GroceryPatch) bool {
	for i := range d.GroceryItems {
		if d.GroceryItems[i].ID != id {
			continue
		}
		item := &d.GroceryItems[i]
		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Department != nil {
			item.Department = *patch.Department
		}
		if patch.Quantity != nil {
			item.Quantity = *patch.Quantity
		}
		if patch.Store != nil {
			item.Store = *patch.Store
		}
		if patch.Checked != nil {
			item.Checked = *patch.Checked
		}
		if patch.Removed != nil {
			item.Removed = *patch.Removed
		}
		return true
	}
	return false
}

func (d *Draft) RemoveGroceryItem(id string) bool {
	for i := range d.GroceryItems {
		if d.GroceryItems[i].ID == id {
			d.GroceryItems = append(d.GroceryItems[:i], d.GroceryItems[i+1:]...)
			return true
		}
	}
	return false
}

// Reset clears the draft after a successful finalize.
func (d *Draft) Reset() {
	*d = *NewDraft()
}

// Step gates. Each wizard page checks its prerequisite before
// rendering and bounces the user backward when it fails; these are
// flat precondition checks, deliberately not a state machine.

// ReadyForReview requires a selected week and at least one proposed
// meal.
func (d *Draft) ReadyForReview() error {
	if d.WeekOf == "" {
		return fmt.Errorf("no week selected")
	}
	if len(d.Meals) == 0 {
		return fmt.Errorf("no meals proposed yet")
	}
	return nil
}

// EventsComplete requires every event in the selected week to have at
// least one assignee. eventIDs are the provider ids of the week's
// events.
func (d *Draft) EventsComplete(eventIDs []string) error {
	for _, id := range eventIDs {
		if len(d.EventAssignments[id]) == 0 {
			return fmt.Errorf("event %s has no assignee", id)
		}
	}
	return nil
}

// ReadyToFinalize gathers every gate except the plan-uniqueness
// check, which needs the database and stays in the handler.
func (d *Draft) ReadyToFinalize(eventIDs []string) error {
	if err := d.ReadyForReview(); err != nil {
		return err
	}
	if err := d.EventsComplete(eventIDs); err != nil {
		return err
	}
	if !d.ListGenerated {
		return fmt.Errorf("grocery list has not been generated")
	}
	return nil
}
