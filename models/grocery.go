package models

import (
	"time"

	"gorm.io/gorm"
)

type GroceryList struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	WeekOf    string         `gorm:"index" json:"week_of,omitempty"`
	Items     []GroceryItem  `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type GroceryItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ListID       uint      `gorm:"not null;index" json:"list_id"`
	Name         string    `gorm:"not null" json:"name"`
	Department   string    `gorm:"index" json:"department"`
	Quantity     string    `json:"quantity"` // display text, e.g. "2 lb"
	StoreID      *uint     `gorm:"index" json:"store_id,omitempty"`
	Attributions string    `json:"attributions,omitempty"` // JSON: [{recipe, quantity}]
	Manual       bool      `gorm:"default:false" json:"manual"`
	Staple       bool      `gorm:"default:false" json:"staple"`
	Checked      bool      `gorm:"default:false" json:"checked"`
	Removed      bool      `gorm:"default:false" json:"removed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type GroceryItemInput struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Quantity   string `json:"quantity"`
	StoreID    *uint  `json:"store_id"`
	Checked    *bool  `json:"checked"`
	Removed    *bool  `json:"removed"`
}

// StapleItem is a household-level recurring grocery entry copied into
// every new plan draft (milk, eggs, bread).
type StapleItem struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	IngredientID uint           `gorm:"not null;index" json:"ingredient_id"`
	Quantity     float64        `json:"quantity"`
	Unit         string         `json:"unit"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Ingredient Ingredient `json:"ingredient"`
}

type StapleInput struct {
	IngredientID uint    `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}
