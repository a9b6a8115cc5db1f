package models

import (
	"time"

	"gorm.io/gorm"
)

// TimeRating buckets recipes by how long they take to get on the table.
// 1 = quick weeknight meal, 3 = weekend project.
type TimeRating int

const (
	TimeRatingQuick    TimeRating = 1
	TimeRatingAverage  TimeRating = 2
	TimeRatingInvolved TimeRating = 3
)

type Recipe struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	Name         string             `gorm:"not null;index" json:"name"`
	SourceURL    string             `json:"source_url,omitempty"`
	Instructions string             `json:"instructions,omitempty"`
	TimeRating   TimeRating         `gorm:"default:2" json:"time_rating"`
	Category     string             `gorm:"index" json:"category"`
	Tags         string             `json:"tags,omitempty"` // comma-separated
	Ingredients  []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`
}

type RecipeIngredient struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RecipeID     uint    `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint    `gorm:"not null;index" json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Note         string  `json:"note,omitempty"`

	Ingredient Ingredient `json:"ingredient"`
}

// RecipeInput is used for creating/updating recipes
type RecipeInput struct {
	Name         string                 `json:"name"`
	SourceURL    string                 `json:"source_url"`
	Instructions string                 `json:"instructions"`
	TimeRating   TimeRating             `json:"time_rating"`
	Category     string                 `json:"category"`
	Tags         string                 `json:"tags"`
	Ingredients  []RecipeIngredientSpec `json:"ingredients"`
}

// RecipeIngredientSpec names an ingredient by id or free text. Free-text
// names are resolved (or created) against the Ingredient table.
type RecipeIngredientSpec struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Note         string  `json:"note"`
}
