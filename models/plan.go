package models

import (
	"time"

	"gorm.io/gorm"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusArchived PlanStatus = "archived"
)

// WeeklyPlan is a finalized week of meals. WeekOf is the Saturday
// anchor date in YYYY-MM-DD form; at most one plan exists per week.
type WeeklyPlan struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	WeekOf        string         `gorm:"uniqueIndex;not null" json:"week_of"`
	Status        PlanStatus     `gorm:"not null;default:active" json:"status"`
	Preferences   string         `json:"preferences,omitempty"`
	Meals         []Meal         `gorm:"constraint:OnDelete:CASCADE" json:"meals"`
	GroceryListID *uint          `json:"grocery_list_id,omitempty"`
	CreatedByID   uint           `gorm:"index" json:"created_by_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type MealOrigin string

const (
	MealOriginSuggested MealOrigin = "suggested"
	MealOriginManual    MealOrigin = "manual"
)

// Meal is one planned dinner. Day is 1-7 counting from the week
// anchor (1 = Saturday).
type Meal struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PlanID     uint       `gorm:"not null;index" json:"plan_id"`
	Day        int        `gorm:"not null" json:"day"`
	Date       string     `gorm:"not null" json:"date"`
	RecipeID   *uint      `gorm:"index" json:"recipe_id,omitempty"`
	Name       string     `gorm:"not null" json:"name"`
	TimeRating TimeRating `json:"time_rating"`
	Rationale  string     `json:"rationale,omitempty"`
	CookID     *uint      `gorm:"index" json:"cook_id,omitempty"`
	Origin     MealOrigin `gorm:"not null;default:manual" json:"origin"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// WizardDraft persists one user's in-progress plan draft so a reload
// can offer a resume-or-discard prompt. Payload is the serialized
// wizard draft.
type WizardDraft struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Payload   []byte    `gorm:"type:blob" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
