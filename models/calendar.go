package models

import (
	"time"

	"gorm.io/gorm"
)

// CalendarEvent mirrors one event from the calendar provider so the
// wizard can window and assign events without a provider round trip.
type CalendarEvent struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ProviderID string            `gorm:"uniqueIndex;not null" json:"provider_id"`
	Title      string            `gorm:"not null" json:"title"`
	Start      time.Time         `gorm:"index" json:"start"`
	End        time.Time         `json:"end"`
	AllDay     bool              `gorm:"default:false" json:"all_day"`
	Location   string            `json:"location,omitempty"`
	Assignees  []EventAssignment `gorm:"constraint:OnDelete:CASCADE" json:"assignees"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

// EventAssignment marks one household member responsible for an event.
type EventAssignment struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	CalendarEventID uint `gorm:"not null;index" json:"calendar_event_id"`
	UserID          uint `gorm:"not null;index" json:"user_id"`
}

type CalendarEventInput struct {
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day"`
	Location string    `json:"location"`
}
