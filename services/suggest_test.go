package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hearth/models"
)

// fakeGenerator returns a canned response and records the prompt.
type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func catalogRecipes() []models.Recipe {
	r1 := models.Recipe{Name: "Tacos", TimeRating: 1, Category: "Beef"}
	r1.ID = 1
	r2 := models.Recipe{Name: "Lasagna", TimeRating: 3, Category: "Pasta"}
	r2.ID = 2
	r3 := models.Recipe{Name: "Stir Fry", TimeRating: 1, Category: "Chicken"}
	r3.ID = 3
	return []models.Recipe{r1, r2, r3}
}

func TestSuggestWeek(t *testing.T) {
	gen := &fakeGenerator{response: `{"meals": [
		{"day": 1, "recipe_id": 2, "rationale": "weekend project"},
		{"day": 2, "recipe_id": 1, "rationale": "fast"},
		{"day": 3, "recipe_id": 3, "rationale": "light"}
	]}`}
	s := NewSuggester(gen)

	meals, err := s.SuggestWeek(context.Background(), "2026-08-22", "no fish", catalogRecipes(), []uint{2})
	if err != nil {
		t.Fatalf("SuggestWeek returned error: %v", err)
	}
	if len(meals) != 3 {
		t.Fatalf("got %d meals, want 3", len(meals))
	}

	first := meals[0]
	if first.Day != 1 || first.Date != "2026-08-22" || first.Name != "Lasagna" {
		t.Errorf("unexpected first meal: %+v", first)
	}
	if first.Origin != models.MealOriginSuggested {
		t.Errorf("origin = %s, want suggested", first.Origin)
	}
	if meals[1].Date != "2026-08-23" {
		t.Errorf("day 2 date = %s, want 2026-08-23", meals[1].Date)
	}

	if !strings.Contains(gen.prompt, "no fish") {
		t.Error("prompt does not carry the preferences")
	}
	if !strings.Contains(gen.prompt, "pre-selected recipe ids 2") {
		t.Error("prompt does not carry the pinned recipes")
	}
}

func TestSuggestWeekFencedResponse(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"meals\": [{\"day\": 1, \"recipe_id\": 1, \"rationale\": \"x\"}]}\n```"}
	s := NewSuggester(gen)

	meals, err := s.SuggestWeek(context.Background(), "2026-08-22", "", catalogRecipes(), nil)
	if err != nil {
		t.Fatalf("SuggestWeek returned error: %v", err)
	}
	if len(meals) != 1 {
		t.Errorf("got %d meals, want 1", len(meals))
	}
}

// Responses naming unknown recipes or out-of-range days are dropped
// rather than failing the whole suggestion.
func TestSuggestWeekSkipsInvalidEntries(t *testing.T) {
	gen := &fakeGenerator{response: `{"meals": [
		{"day": 0, "recipe_id": 1, "rationale": "bad day"},
		{"day": 2, "recipe_id": 99, "rationale": "unknown recipe"},
		{"day": 3, "recipe_id": 3, "rationale": "ok"}
	]}`}
	s := NewSuggester(gen)

	meals, err := s.SuggestWeek(context.Background(), "2026-08-22", "", catalogRecipes(), nil)
	if err != nil {
		t.Fatalf("SuggestWeek returned error: %v", err)
	}
	if len(meals) != 1 || meals[0].Name != "Stir Fry" {
		t.Errorf("got %+v, want only Stir Fry", meals)
	}
}

func TestSuggestWeekErrors(t *testing.T) {
	s := NewSuggester(&fakeGenerator{err: errors.New("quota exceeded")})
	if _, err := s.SuggestWeek(context.Background(), "2026-08-22", "", catalogRecipes(), nil); err == nil {
		t.Error("expected generator error to propagate")
	}

	s = NewSuggester(&fakeGenerator{response: "not json"})
	if _, err := s.SuggestWeek(context.Background(), "2026-08-22", "", catalogRecipes(), nil); err == nil {
		t.Error("expected parse error")
	}

	s = NewSuggester(&fakeGenerator{response: `{"meals": []}`})
	if _, err := s.SuggestWeek(context.Background(), "2026-08-22", "", catalogRecipes(), nil); err == nil {
		t.Error("expected error for empty meal list")
	}

	s = NewSuggester(&fakeGenerator{response: "{}"})
	if _, err := s.SuggestWeek(context.Background(), "2026-08-22", "", nil, nil); err == nil {
		t.Error("expected error with no recipes to plan from")
	}
}

func TestReplaceMeal(t *testing.T) {
	gen := &fakeGenerator{response: `{"recipe_id": 3, "rationale": "variety"}`}
	s := NewSuggester(gen)

	meal, err := s.ReplaceMeal(context.Background(), "2026-08-22", 4, "", catalogRecipes(), []uint{1, 2})
	if err != nil {
		t.Fatalf("ReplaceMeal returned error: %v", err)
	}
	if meal.Name != "Stir Fry" || meal.Day != 4 || meal.Date != "2026-08-25" {
		t.Errorf("unexpected replacement: %+v", meal)
	}

	// The avoided recipes must not appear in the offered catalog
	if strings.Contains(gen.prompt, "Tacos") || strings.Contains(gen.prompt, "Lasagna") {
		t.Error("prompt offered recipes that should be avoided")
	}
}

func TestReplaceMealRejectsAvoidedPick(t *testing.T) {
	gen := &fakeGenerator{response: `{"recipe_id": 1, "rationale": "oops"}`}
	s := NewSuggester(gen)

	if _, err := s.ReplaceMeal(context.Background(), "2026-08-22", 2, "", catalogRecipes(), []uint{1}); err == nil {
		t.Error("expected error when the model picks an avoided recipe")
	}
}

func TestReplaceMealNoAlternatives(t *testing.T) {
	s := NewSuggester(&fakeGenerator{response: "{}"})
	if _, err := s.ReplaceMeal(context.Background(), "2026-08-22", 2, "", catalogRecipes(), []uint{1, 2, 3}); err == nil {
		t.Error("expected error when every recipe is avoided")
	}
}
