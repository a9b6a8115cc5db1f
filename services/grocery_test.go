package services

import (
	"testing"

	"hearth/database"
	"hearth/models"
	"hearth/wizard"
)

func setupGroceryDB(t *testing.T) {
	t.Helper()
	if err := database.ConnectAt(":memory:"); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
}

func seedRecipe(t *testing.T, name string, ingredients ...models.RecipeIngredient) models.Recipe {
	t.Helper()
	recipe := models.Recipe{Name: name, TimeRating: models.TimeRatingQuick, Ingredients: ingredients}
	if result := database.DB.Create(&recipe); result.Error != nil {
		t.Fatalf("failed to seed recipe: %v", result.Error)
	}
	return recipe
}

func seedIngredient(t *testing.T, name, department string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, Department: department}
	if result := database.DB.Create(&ing); result.Error != nil {
		t.Fatalf("failed to seed ingredient: %v", result.Error)
	}
	return ing
}

func TestGenerateGroceryListMergesByIngredient(t *testing.T) {
	setupGroceryDB(t)

	chicken := seedIngredient(t, "Chicken Breast", "Meat")
	onion := seedIngredient(t, "Onion", "Produce")

	tacos := seedRecipe(t, "Chicken Tacos",
		models.RecipeIngredient{IngredientID: chicken.ID, Quantity: 1, Unit: "lb"},
		models.RecipeIngredient{IngredientID: onion.ID, Quantity: 1, Unit: ""},
	)
	soup := seedRecipe(t, "Chicken Soup",
		models.RecipeIngredient{IngredientID: chicken.ID, Quantity: 2, Unit: "lb"},
	)

	meals := []wizard.ProposedMeal{
		{ID: "a", Day: 1, RecipeID: &tacos.ID, Name: tacos.Name},
		{ID: "b", Day: 2, RecipeID: &soup.ID, Name: soup.Name},
	}

	items, err := GenerateGroceryList(meals, nil)
	if err != nil {
		t.Fatalf("GenerateGroceryList returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}

	// Sorted by name: Chicken Breast, Onion
	chickenItem := items[0]
	if chickenItem.Name != "Chicken Breast" || chickenItem.Department != "Meat" {
		t.Errorf("unexpected first item: %+v", chickenItem)
	}
	if chickenItem.Quantity != "3 lb" {
		t.Errorf("merged quantity = %q, want \"3 lb\"", chickenItem.Quantity)
	}
	if len(chickenItem.Attributions) != 2 {
		t.Fatalf("got %d attributions, want 2", len(chickenItem.Attributions))
	}
	if chickenItem.Attributions[0].Recipe != "Chicken Tacos" || chickenItem.Attributions[0].Quantity != "1 lb" {
		t.Errorf("unexpected attribution: %+v", chickenItem.Attributions[0])
	}
	if chickenItem.Attributions[1].Recipe != "Chicken Soup" || chickenItem.Attributions[1].Quantity != "2 lb" {
		t.Errorf("unexpected attribution: %+v", chickenItem.Attributions[1])
	}
}

// A recipe cooked on two nights contributes its ingredients twice.
func TestGenerateGroceryListRepeatedMeal(t *testing.T) {
	setupGroceryDB(t)

	rice := seedIngredient(t, "Rice", "Pantry")
	bowls := seedRecipe(t, "Rice Bowls",
		models.RecipeIngredient{IngredientID: rice.ID, Quantity: 2, Unit: "cup"},
	)

	meals := []wizard.ProposedMeal{
		{ID: "a", Day: 1, RecipeID: &bowls.ID, Name: bowls.Name},
		{ID: "b", Day: 4, RecipeID: &bowls.ID, Name: bowls.Name},
	}

	items, err := GenerateGroceryList(meals, nil)
	if err != nil {
		t.Fatalf("GenerateGroceryList returned error: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != "4 cup" {
		t.Errorf("got %+v, want one item of 4 cup", items)
	}
}

// Different units for the same ingredient stay separate in the display
// quantity instead of being silently converted.
func TestGenerateGroceryListMixedUnits(t *testing.T) {
	setupGroceryDB(t)

	butter := seedIngredient(t, "Butter", "Dairy")
	r1 := seedRecipe(t, "Cookies",
		models.RecipeIngredient{IngredientID: butter.ID, Quantity: 8, Unit: "tbsp"},
	)
	r2 := seedRecipe(t, "Toast",
		models.RecipeIngredient{IngredientID: butter.ID, Quantity: 1, Unit: "stick"},
	)

	meals := []wizard.ProposedMeal{
		{ID: "a", Day: 1, RecipeID: &r1.ID, Name: r1.Name},
		{ID: "b", Day: 2, RecipeID: &r2.ID, Name: r2.Name},
	}

	items, err := GenerateGroceryList(meals, nil)
	if err != nil {
		t.Fatalf("GenerateGroceryList returned error: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != "8 tbsp + 1 stick" {
		t.Errorf("got %+v, want one item of \"8 tbsp + 1 stick\"", items)
	}
}

func TestGenerateGroceryListStaples(t *testing.T) {
	setupGroceryDB(t)

	milk := seedIngredient(t, "Milk", "Dairy")
	cereal := seedRecipe(t, "Cereal",
		models.RecipeIngredient{IngredientID: milk.ID, Quantity: 1, Unit: "cup"},
	)

	meals := []wizard.ProposedMeal{
		{ID: "a", Day: 1, RecipeID: &cereal.ID, Name: cereal.Name},
	}
	staples := []wizard.StapleDraft{
		{IngredientID: milk.ID, Name: "Milk", Department: "Dairy", Quantity: 1, Unit: "gal"},
		{Name: "Bread", Department: "Bakery", Quantity: 1, Unit: "loaf"},
	}

	items, err := GenerateGroceryList(meals, staples)
	if err != nil {
		t.Fatalf("GenerateGroceryList returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}

	bread, milkItem := items[0], items[1]
	if !bread.Staple || bread.Department != "Bakery" {
		t.Errorf("unexpected bread item: %+v", bread)
	}
	// Staple merged into the recipe's milk: both flagged and combined
	if !milkItem.Staple || milkItem.Quantity != "1 cup + 1 gal" {
		t.Errorf("unexpected milk item: %+v", milkItem)
	}
}

// End to end: generate a list and group it the way the shopping view
// does.
func TestGenerateAndGroup(t *testing.T) {
	setupGroceryDB(t)

	chicken := seedIngredient(t, "Chicken Breast", "Meat & Seafood")
	onion := seedIngredient(t, "Onion", "Produce")
	cilantro := seedIngredient(t, "Cilantro", "Produce")
	rice := seedIngredient(t, "Rice", "Dry Goods")

	dinner := seedRecipe(t, "Chicken and Rice",
		models.RecipeIngredient{IngredientID: chicken.ID, Quantity: 2, Unit: "lb"},
		models.RecipeIngredient{IngredientID: onion.ID, Quantity: 1, Unit: ""},
		models.RecipeIngredient{IngredientID: cilantro.ID, Quantity: 1, Unit: "bunch"},
		models.RecipeIngredient{IngredientID: rice.ID, Quantity: 2, Unit: "cup"},
	)

	meals := []wizard.ProposedMeal{{ID: "a", Day: 1, RecipeID: &dinner.ID, Name: dinner.Name}}
	staples := []wizard.StapleDraft{{Name: "Apples", Department: "Produce", Quantity: 6, Unit: ""}}

	items, err := GenerateGroceryList(meals, staples)
	if err != nil {
		t.Fatalf("GenerateGroceryList returned error: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}

	groups := wizard.GroupByDepartment(items, models.DepartmentOrder())
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3: %+v", len(groups), groups)
	}

	// Reference order puts Produce first
	if groups[0].Department != "Produce" {
		t.Errorf("first group = %s, want Produce", groups[0].Department)
	}
	produce := groups[0].Items
	if len(produce) != 3 || produce[0].Name != "Apples" || produce[1].Name != "Cilantro" || produce[2].Name != "Onion" {
		t.Errorf("produce items = %+v", produce)
	}
}

func TestEncodeAttributions(t *testing.T) {
	if got := EncodeAttributions(nil); got != "" {
		t.Errorf("empty attributions should encode to empty string, got %q", got)
	}

	got := EncodeAttributions([]wizard.Attribution{{Recipe: "Tacos", Quantity: "1 lb"}})
	want := `[{"recipe":"Tacos","quantity":"1 lb"}]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
