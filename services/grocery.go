package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hearth/database"
	"hearth/models"
	"hearth/wizard"
)

// GenerateGroceryList aggregates the ingredients of every planned
// meal plus the draft staples into one de-duplicated list of grocery
// item drafts. Quantities merge per ingredient and unit; each recipe
// contributes an attribution entry so the shopper can see where an
// item came from.
func GenerateGroceryList(meals []wizard.ProposedMeal, staples []wizard.StapleDraft) ([]wizard.GroceryItemDraft, error) {
	recipeIDs := make([]uint, 0, len(meals))
	for _, m := range meals {
		if m.RecipeID != nil {
			recipeIDs = append(recipeIDs, *m.RecipeID)
		}
	}

	var recipes []models.Recipe
	if len(recipeIDs) > 0 {
		if result := database.DB.Preload("Ingredients.Ingredient").Where("id IN ?", recipeIDs).Find(&recipes); result.Error != nil {
			return nil, fmt.Errorf("failed to load plan recipes: %w", result.Error)
		}
	}
	byID := make(map[uint]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	type bucket struct {
		name         string
		department   string
		perUnit      map[string]float64
		unitOrder    []string
		attributions []wizard.Attribution
		staple       bool
	}
	buckets := map[string]*bucket{}
	keys := []string{}

	add := func(name, department, unit string, qty float64, attribution *wizard.Attribution, staple bool) {
		key := strings.ToLower(name)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{name: name, department: department, perUnit: map[string]float64{}}
			buckets[key] = b
			keys = append(keys, key)
		}
		if b.department == "" {
			b.department = department
		}
		if _, seen := b.perUnit[unit]; !seen {
			b.unitOrder = append(b.unitOrder, unit)
		}
		b.perUnit[unit] += qty
		if attribution != nil {
			b.attributions = append(b.attributions, *attribution)
		}
		if staple {
			b.staple = true
		}
	}

	// One contribution per meal, so a recipe cooked twice in a week
	// doubles its ingredients.
	for _, m := range meals {
		if m.RecipeID == nil {
			continue
		}
		recipe, ok := byID[*m.RecipeID]
		if !ok {
			continue
		}
		for _, ri := range recipe.Ingredients {
			attribution := wizard.Attribution{
				Recipe:   recipe.Name,
				Quantity: formatQuantity(ri.Quantity, ri.Unit),
			}
			add(ri.Ingredient.Name, ri.Ingredient.Department, ri.Unit, ri.Quantity, &attribution, false)
		}
	}

	for _, s := range staples {
		add(s.Name, s.Department, s.Unit, s.Quantity, nil, true)
	}

	items := make([]wizard.GroceryItemDraft, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		items = append(items, wizard.GroceryItemDraft{
			ID:           uuid.NewString(),
			Name:         b.name,
			Department:   b.department,
			Quantity:     formatQuantities(b.perUnit, b.unitOrder),
			Attributions: b.attributions,
			Staple:       b.staple,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return items, nil
}

// EncodeAttributions serializes attributions for the GroceryItem row.
func EncodeAttributions(attributions []wizard.Attribution) string {
	if len(attributions) == 0 {
		return ""
	}
	data, err := json.Marshal(attributions)
	if err != nil {
		return ""
	}
	return string(data)
}

func formatQuantity(qty float64, unit string) string {
	s := strconv.FormatFloat(qty, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

func formatQuantities(perUnit map[string]float64, unitOrder []string) string {
	parts := make([]string, 0, len(unitOrder))
	for _, unit := range unitOrder {
		parts = append(parts, formatQuantity(perUnit[unit], unit))
	}
	return strings.Join(parts, " + ")
}
