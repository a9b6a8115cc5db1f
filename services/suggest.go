package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hearth/models"
	"hearth/wizard"
)

// Suggester builds proposed meals for a draft week by prompting the
// text generator with the recipe catalog and the user's free-text
// preferences. One round trip, no retry; errors surface verbatim.
type Suggester struct {
	textGen TextGenerator
}

func NewSuggester(textGen TextGenerator) *Suggester {
	return &Suggester{textGen: textGen}
}

type suggestedMeal struct {
	Day       int    `json:"day"`
	RecipeID  uint   `json:"recipe_id"`
	Rationale string `json:"rationale"`
}

type suggestionResponse struct {
	Meals []suggestedMeal `json:"meals"`
}

// SuggestWeek proposes one dinner per day for the week. Recipes in
// pinned were hand-picked by the user and must all appear in the plan.
func (s *Suggester) SuggestWeek(ctx context.Context, weekOf, preferences string, recipes []models.Recipe, pinned []uint) ([]wizard.ProposedMeal, error) {
	if len(recipes) == 0 {
		return nil, fmt.Errorf("no recipes available to plan from")
	}

	dates, err := wizard.WeekDates(weekOf)
	if err != nil {
		return nil, err
	}

	prompt := s.weekPrompt(weekOf, preferences, recipes, pinned)

	raw, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate meal suggestions: %w", err)
	}

	var resp suggestionResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion JSON: %w. Response: %s", err, raw)
	}
	if len(resp.Meals) == 0 {
		return nil, fmt.Errorf("suggestion response contained no meals")
	}

	byID := make(map[uint]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	meals := make([]wizard.ProposedMeal, 0, len(resp.Meals))
	for _, sm := range resp.Meals {
		if sm.Day < 1 || sm.Day > 7 {
			continue
		}
		recipe, ok := byID[sm.RecipeID]
		if !ok {
			continue
		}
		recipeID := recipe.ID
		meals = append(meals, wizard.ProposedMeal{
			ID:         uuid.NewString(),
			Day:        sm.Day,
			Date:       dates[sm.Day-1],
			RecipeID:   &recipeID,
			Name:       recipe.Name,
			TimeRating: recipe.TimeRating,
			Rationale:  sm.Rationale,
			Origin:     models.MealOriginSuggested,
		})
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("suggestion response referenced no known recipes")
	}

	return meals, nil
}

type replacementResponse struct {
	RecipeID  uint   `json:"recipe_id"`
	Rationale string `json:"rationale"`
}

// ReplaceMeal proposes a different recipe for one day, avoiding the
// recipes already on the plan.
func (s *Suggester) ReplaceMeal(ctx context.Context, weekOf string, day int, preferences string, recipes []models.Recipe, avoid []uint) (*wizard.ProposedMeal, error) {
	date, err := wizard.DayDate(weekOf, day)
	if err != nil {
		return nil, err
	}

	avoidSet := make(map[uint]bool, len(avoid))
	for _, id := range avoid {
		avoidSet[id] = true
	}

	var catalog strings.Builder
	for _, r := range recipes {
		if avoidSet[r.ID] {
			continue
		}
		writeRecipeLine(&catalog, r)
	}
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("no alternative recipes available")
	}

	prompt := fmt.Sprintf(`You are a family meal planner. Pick one replacement dinner for %s.

Household preferences: %q

Available recipes:
%s
Respond strictly as JSON: {"recipe_id": <id>, "rationale": "<one sentence>"}
Do not include any other text.`, date, preferences, catalog.String())

	raw, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate replacement: %w", err)
	}

	var resp replacementResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse replacement JSON: %w. Response: %s", err, raw)
	}

	for _, r := range recipes {
		if r.ID != resp.RecipeID || avoidSet[r.ID] {
			continue
		}
		recipeID := r.ID
		return &wizard.ProposedMeal{
			ID:         uuid.NewString(),
			Day:        day,
			Date:       date,
			RecipeID:   &recipeID,
			Name:       r.Name,
			TimeRating: r.TimeRating,
			Rationale:  resp.Rationale,
			Origin:     models.MealOriginSuggested,
		}, nil
	}
	return nil, fmt.Errorf("replacement referenced unknown recipe %d", resp.RecipeID)
}

func (s *Suggester) weekPrompt(weekOf, preferences string, recipes []models.Recipe, pinned []uint) string {
	var catalog strings.Builder
	for _, r := range recipes {
		writeRecipeLine(&catalog, r)
	}

	var pinnedNote string
	if len(pinned) > 0 {
		ids := make([]string, len(pinned))
		for i, id := range pinned {
			ids[i] = fmt.Sprint(id)
		}
		pinnedNote = fmt.Sprintf("\nThe household pre-selected recipe ids %s; every one of them must appear in the plan.", strings.Join(ids, ", "))
	}

	return fmt.Sprintf(`You are a family meal planner. Plan one dinner for each of the 7 days
of the week starting Saturday %s. Only use recipes from the catalog below.%s

Household preferences: %q

Recipe catalog:
%s
Guidelines:
1. Vary categories across the week; avoid back-to-back repeats.
2. Prefer quick recipes (time rating 1) on weekdays.
3. Respond strictly as a JSON object:
{"meals": [{"day": 1, "recipe_id": <id>, "rationale": "<one sentence>"}, ...]}
Day 1 is Saturday %s. Do not include any other text or formatting.`, weekOf, pinnedNote, preferences, catalog.String(), weekOf)
}

func writeRecipeLine(sb *strings.Builder, r models.Recipe) {
	fmt.Fprintf(sb, "- id %d: %s (category %s, time rating %d", r.ID, r.Name, r.Category, r.TimeRating)
	if r.Tags != "" {
		fmt.Fprintf(sb, ", tags %s", r.Tags)
	}
	sb.WriteString(")\n")
}
