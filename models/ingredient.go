package models

import (
	"time"

	"gorm.io/gorm"
)

type Ingredient struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"uniqueIndex;not null" json:"name"`
	Department string         `gorm:"index" json:"department"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type IngredientInput struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

// Department is a grocery-store section used to group and order
// shopping-list items. SortOrder follows a typical walk through the
// store; stores may override it with their own ordering.
type Department struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	SortOrder int            `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type DepartmentInput struct {
	Name      string `json:"name"`
	SortOrder *int   `json:"sort_order"`
}

type Store struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"uniqueIndex;not null" json:"name"`
	Orders    []StoreDepartment `gorm:"constraint:OnDelete:CASCADE" json:"orders"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

// StoreDepartment is a per-store override of the department walk order.
type StoreDepartment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	StoreID    uint   `gorm:"not null;index" json:"store_id"`
	Department string `gorm:"not null" json:"department"`
	SortOrder  int    `gorm:"not null" json:"sort_order"`
}

type StoreInput struct {
	Name   string   `json:"name"`
	Orders []string `json:"orders"` // department names in walk order
}
