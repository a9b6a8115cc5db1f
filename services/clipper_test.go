package services

import (
	"context"
	"errors"
	"testing"

	"hearth/models"
)

func TestExtract(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"name": "Chicken Curry",
		"ingredients": [
			{"name": "chicken thighs", "quantity": 2, "unit": "lb"},
			{"name": "coconut milk", "quantity": 1, "unit": "can"}
		],
		"instructions": ["Brown the chicken.", "Simmer in coconut milk."],
		"time_rating": 2,
		"category": "Chicken"
	}`}
	c := NewClipper(gen)

	recipe, err := c.Extract(context.Background(), "page text")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if recipe.Name != "Chicken Curry" {
		t.Errorf("name = %s", recipe.Name)
	}
	if len(recipe.Ingredients) != 2 || recipe.Ingredients[0].Unit != "lb" {
		t.Errorf("ingredients = %+v", recipe.Ingredients)
	}
	if len(recipe.Instructions) != 2 {
		t.Errorf("instructions = %+v", recipe.Instructions)
	}
	if recipe.TimeRating != models.TimeRatingAverage {
		t.Errorf("time rating = %d, want 2", recipe.TimeRating)
	}
}

func TestExtractFencedResponse(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"name\": \"Soup\", \"time_rating\": 1}\n```"}
	c := NewClipper(gen)

	recipe, err := c.Extract(context.Background(), "page text")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if recipe.Name != "Soup" {
		t.Errorf("name = %s", recipe.Name)
	}
}

// An out-of-range time rating is clamped to the middle value instead
// of poisoning the catalog.
func TestExtractClampsTimeRating(t *testing.T) {
	gen := &fakeGenerator{response: `{"name": "Soup", "time_rating": 9}`}
	c := NewClipper(gen)

	recipe, err := c.Extract(context.Background(), "page text")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if recipe.TimeRating != models.TimeRatingAverage {
		t.Errorf("time rating = %d, want %d", recipe.TimeRating, models.TimeRatingAverage)
	}
}

func TestExtractErrors(t *testing.T) {
	c := NewClipper(&fakeGenerator{err: errors.New("offline")})
	if _, err := c.Extract(context.Background(), "page text"); err == nil {
		t.Error("expected generator error to propagate")
	}

	c = NewClipper(&fakeGenerator{response: "no recipe here"})
	if _, err := c.Extract(context.Background(), "page text"); err == nil {
		t.Error("expected parse error")
	}

	c = NewClipper(&fakeGenerator{response: `{"time_rating": 1}`})
	if _, err := c.Extract(context.Background(), "page text"); err == nil {
		t.Error("expected error for a response with no name")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
