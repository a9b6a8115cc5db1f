package models

import (
	"fmt"
	"time"
)

// Settings is a single-row table of household-wide configuration.
// CalendarCredential is AES-GCM encrypted at rest.
type Settings struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CalendarID         string    `json:"calendar_id"`
	CalendarCredential []byte    `gorm:"type:blob" json:"-"`
	Timezone           string    `gorm:"default:America/New_York" json:"timezone"`
	SplitSpendPct      int       `gorm:"default:50" json:"split_spend_pct"`
	SplitSavePct       int       `gorm:"default:40" json:"split_save_pct"`
	SplitGivePct       int       `gorm:"default:10" json:"split_give_pct"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type SettingsInput struct {
	CalendarID         string `json:"calendar_id"`
	CalendarCredential string `json:"calendar_credential,omitempty"`
	Timezone           string `json:"timezone"`
	SplitSpendPct      *int   `json:"split_spend_pct"`
	SplitSavePct       *int   `json:"split_save_pct"`
	SplitGivePct       *int   `json:"split_give_pct"`
}

// ValidateSplit rejects allowance splits that do not cover exactly
// the whole deposit.
func ValidateSplit(spend, save, give int) error {
	if spend < 0 || save < 0 || give < 0 {
		return fmt.Errorf("split percentages cannot be negative")
	}
	if spend+save+give != 100 {
		return fmt.Errorf("split percentages must sum to 100, got %d", spend+save+give)
	}
	return nil
}
