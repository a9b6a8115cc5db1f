package wizard

import (
	"reflect"
	"testing"

	"hearth/models"
)

func draftWithMeals() *Draft {
	d := NewDraft()
	d.SetWeekOf("2026-08-22")
	rid1, rid2 := uint(10), uint(20)
	d.SetProposedMeals([]ProposedMeal{
		{ID: "a", Day: 1, Date: "2026-08-22", RecipeID: &rid1, Name: "Tacos", TimeRating: 1, Rationale: "quick", Origin: models.MealOriginSuggested},
		{ID: "b", Day: 3, Date: "2026-08-24", RecipeID: &rid2, Name: "Lasagna", TimeRating: 3, Rationale: "weekend", Origin: models.MealOriginSuggested},
	})
	return d
}

// Swapping two meals exchanges only their day and date; name, recipe,
// rationale, and cook stay attached to the original meal.
func TestSwapMealsByID(t *testing.T) {
	d := draftWithMeals()

	if !d.SwapMealsByID("a", "b") {
		t.Fatal("swap reported failure")
	}

	a := *d.mealByID("a")
	b := *d.mealByID("b")

	if a.Day != 3 || a.Date != "2026-08-24" {
		t.Errorf("meal a now on day %d (%s), want day 3 (2026-08-24)", a.Day, a.Date)
	}
	if b.Day != 1 || b.Date != "2026-08-22" {
		t.Errorf("meal b now on day %d (%s), want day 1 (2026-08-22)", b.Day, b.Date)
	}
	if a.Name != "Tacos" || *a.RecipeID != 10 || a.Rationale != "quick" {
		t.Errorf("meal a content changed during swap: %+v", a)
	}
	if b.Name != "Lasagna" || *b.RecipeID != 20 || b.Rationale != "weekend" {
		t.Errorf("meal b content changed during swap: %+v", b)
	}
}

func TestSwapMealsByIDUnknown(t *testing.T) {
	d := draftWithMeals()
	if d.SwapMealsByID("a", "missing") {
		t.Error("swap with unknown id should fail")
	}
	if d.SwapMealsByID("a", "a") {
		t.Error("swap of a meal with itself should fail")
	}
}

func TestMoveMealToDay(t *testing.T) {
	d := draftWithMeals()

	if !d.MoveMealToDay("a", 5) {
		t.Fatal("move reported failure")
	}
	a := d.mealByID("a")
	if a.Day != 5 || a.Date != "2026-08-26" {
		t.Errorf("got day %d (%s), want day 5 (2026-08-26)", a.Day, a.Date)
	}
}

// Changing the week anchor re-derives every meal's date from its day
// index.
func TestSetWeekOfRederivesDates(t *testing.T) {
	d := draftWithMeals()

	d.SetWeekOf("2026-08-29")

	if got := d.mealByID("a").Date; got != "2026-08-29" {
		t.Errorf("day 1 date = %s, want 2026-08-29", got)
	}
	if got := d.mealByID("b").Date; got != "2026-08-31" {
		t.Errorf("day 3 date = %s, want 2026-08-31", got)
	}
}

func TestUpdateMealByID(t *testing.T) {
	d := draftWithMeals()

	name := "Fish Tacos"
	cook := uint(7)
	if !d.UpdateMealByID("a", MealPatch{Name: &name, CookID: &cook}) {
		t.Fatal("update reported failure")
	}
	a := d.mealByID("a")
	if a.Name != "Fish Tacos" || a.CookID == nil || *a.CookID != 7 {
		t.Errorf("patch not applied: %+v", a)
	}

	if !d.UpdateMealByID("a", MealPatch{ClearCook: true}) {
		t.Fatal("clear-cook update reported failure")
	}
	if d.mealByID("a").CookID != nil {
		t.Error("ClearCook left a cook assigned")
	}

	if d.UpdateMealByID("missing", MealPatch{Name: &name}) {
		t.Error("update of unknown meal should fail")
	}
}

func TestAddAndRemoveMeal(t *testing.T) {
	d := draftWithMeals()

	added := d.AddMealToDay(6, ProposedMeal{Name: "Leftovers"})
	if added.ID == "" {
		t.Error("added meal has no id")
	}
	if added.Date != "2026-08-27" {
		t.Errorf("added meal date = %s, want 2026-08-27", added.Date)
	}
	if added.Origin != models.MealOriginManual {
		t.Errorf("added meal origin = %s, want manual", added.Origin)
	}

	if !d.RemoveMeal(added.ID) {
		t.Fatal("remove reported failure")
	}
	if len(d.Meals) != 2 {
		t.Errorf("got %d meals after remove, want 2", len(d.Meals))
	}
	if d.RemoveMeal(added.ID) {
		t.Error("second remove of the same meal should fail")
	}
}

// Toggling the same (event, user) pair twice restores the original
// assignment set exactly.
func TestToggleEventUserAssignmentSelfInverse(t *testing.T) {
	d := NewDraft()
	d.ToggleEventUserAssignment("evt-1", 3)
	d.ToggleEventUserAssignment("evt-2", 4)

	before := map[string][]uint{}
	for k, v := range d.EventAssignments {
		before[k] = append([]uint(nil), v...)
	}

	d.ToggleEventUserAssignment("evt-1", 9)
	d.ToggleEventUserAssignment("evt-1", 9)

	if !reflect.DeepEqual(d.EventAssignments, before) {
		t.Errorf("double toggle changed assignments: got %v, want %v", d.EventAssignments, before)
	}
}

func TestToggleEventUserAssignmentRemovesEmptyEvent(t *testing.T) {
	d := NewDraft()
	d.ToggleEventUserAssignment("evt-1", 3)
	d.ToggleEventUserAssignment("evt-1", 3)

	if _, ok := d.EventAssignments["evt-1"]; ok {
		t.Error("event with no assignees should be dropped from the map")
	}
}

func TestToggleRecipeSelection(t *testing.T) {
	d := NewDraft()
	d.ToggleRecipeSelection(5)
	d.ToggleRecipeSelection(8)
	d.ToggleRecipeSelection(5)

	if !reflect.DeepEqual(d.SelectedRecipeIDs, []uint{8}) {
		t.Errorf("got %v, want [8]", d.SelectedRecipeIDs)
	}
}

func TestStapleOps(t *testing.T) {
	d := NewDraft()
	s := d.AddStaple(StapleDraft{IngredientID: 1, Name: "Milk", Department: "Dairy", Quantity: 1, Unit: "gal"})
	if s.ID == "" {
		t.Fatal("staple has no id")
	}

	if !d.UpdateStapleByID(s.ID, 2, "gal") {
		t.Fatal("update reported failure")
	}
	if d.Staples[0].Quantity != 2 {
		t.Errorf("quantity = %v, want 2", d.Staples[0].Quantity)
	}

	if !d.RemoveStaple(s.ID) {
		t.Fatal("remove reported failure")
	}
	if len(d.Staples) != 0 {
		t.Errorf("got %d staples, want 0", len(d.Staples))
	}
}

func TestGroceryItemOps(t *testing.T) {
	d := NewDraft()
	d.SetGroceryItems([]GroceryItemDraft{
		{Name: "Chicken", Department: "Meat"},
	})
	if !d.ListGenerated {
		t.Error("SetGroceryItems should mark the list generated")
	}
	if d.GroceryItems[0].ID == "" {
		t.Error("generated item has no id")
	}

	added := d.AddGroceryItem(GroceryItemDraft{Name: "Batteries", Department: "Other"})
	if !added.Manual {
		t.Error("hand-added item should be flagged manual")
	}

	checked := true
	if !d.UpdateGroceryItemByID(added.ID, GroceryPatch{Checked: &checked}) {
		t.Fatal("update reported failure")
	}
	if !d.GroceryItems[1].Checked {
		t.Error("checked patch not applied")
	}

	if !d.RemoveGroceryItem(added.ID) {
		t.Fatal("remove reported failure")
	}
	if len(d.GroceryItems) != 1 {
		t.Errorf("got %d items, want 1", len(d.GroceryItems))
	}
}

func TestReadyToFinalizeGates(t *testing.T) {
	d := NewDraft()
	if err := d.ReadyToFinalize(nil); err == nil {
		t.Error("empty draft should not finalize")
	}

	d.SetWeekOf("2026-08-22")
	if err := d.ReadyToFinalize(nil); err == nil {
		t.Error("draft with no meals should not finalize")
	}

	d.AddMealToDay(1, ProposedMeal{Name: "Tacos"})
	if err := d.ReadyToFinalize([]string{"evt-1"}); err == nil {
		t.Error("unassigned event should block finalize")
	}

	d.ToggleEventUserAssignment("evt-1", 2)
	if err := d.ReadyToFinalize([]string{"evt-1"}); err == nil {
		t.Error("finalize should require a generated grocery list")
	}

	d.SetGroceryItems(nil)
	if err := d.ReadyToFinalize([]string{"evt-1"}); err != nil {
		t.Errorf("complete draft should finalize, got: %v", err)
	}
}

func TestStoreCopiesAreIsolated(t *testing.T) {
	s := NewStore()
	s.Update(1, func(d *Draft) {
		d.SetWeekOf("2026-08-22")
		d.AddMealToDay(1, ProposedMeal{Name: "Tacos"})
	})

	copy1 := s.Get(1)
	copy1.Meals[0].Name = "mutated"

	copy2 := s.Get(1)
	if copy2.Meals[0].Name != "Tacos" {
		t.Error("mutating a returned draft leaked into the store")
	}
}

func TestStoreRestoreRoundTrip(t *testing.T) {
	s := NewStore()
	draft := s.Update(1, func(d *Draft) {
		d.SetWeekOf("2026-08-22")
		d.AddMealToDay(2, ProposedMeal{Name: "Soup"})
		d.ToggleEventUserAssignment("evt-1", 4)
	})

	payload, err := Serialize(draft)
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}

	s.Reset(1)
	if got := s.Get(1); got.WeekOf != "" {
		t.Fatal("reset did not clear the draft")
	}

	if err := s.Restore(1, payload); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	restored := s.Get(1)
	if restored.WeekOf != "2026-08-22" || len(restored.Meals) != 1 || len(restored.EventAssignments["evt-1"]) != 1 {
		t.Errorf("restored draft does not match original: %+v", restored)
	}

	if err := s.Restore(1, []byte("{broken")); err == nil {
		t.Error("expected error restoring corrupt payload")
	}
}
