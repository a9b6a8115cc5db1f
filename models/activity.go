package models

import (
	"time"
)

type ActivityAction string

const (
	ActivityLogin             ActivityAction = "login"
	ActivityMemberCreate      ActivityAction = "member_create"
	ActivityMemberUpdate      ActivityAction = "member_update"
	ActivityMemberDelete      ActivityAction = "member_delete"
	ActivityPlanFinalize      ActivityAction = "plan_finalize"
	ActivityPlanDelete        ActivityAction = "plan_delete"
	ActivityRecipeImport      ActivityAction = "recipe_import"
	ActivityAllowanceDeposit  ActivityAction = "allowance_deposit"
	ActivityAllowanceWithdraw ActivityAction = "allowance_withdraw"
	ActivityCalendarSync      ActivityAction = "calendar_sync"
	ActivitySettingsUpdate    ActivityAction = "settings_update"
)

// ActivityLog records who did what around the household, mostly so
// parents can answer "where did the allowance money go".
type ActivityLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	Username  string         `json:"username"`
	Action    ActivityAction `gorm:"index" json:"action"`
	TargetID  *uint          `gorm:"index" json:"target_id,omitempty"`
	Details   string         `json:"details,omitempty"`
	IPAddress string         `json:"ip_address"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
