package models

import (
	"time"

	"gorm.io/gorm"
)

// AllowanceBucket splits a child's money three ways; deposits are
// divided between buckets by the household split percentages.
type AllowanceBucket string

const (
	BucketSpend AllowanceBucket = "spend"
	BucketSave  AllowanceBucket = "save"
	BucketGive  AllowanceBucket = "give"
)

// AllowanceAccount tracks one child's balances in cents.
type AllowanceAccount struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	SpendCents int64          `gorm:"default:0" json:"spend_cents"`
	SaveCents  int64          `gorm:"default:0" json:"save_cents"`
	GiveCents  int64          `gorm:"default:0" json:"give_cents"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *AllowanceAccount) TotalCents() int64 {
	return a.SpendCents + a.SaveCents + a.GiveCents
}

type TransactionKind string

const (
	TransactionDeposit  TransactionKind = "deposit"
	TransactionWithdraw TransactionKind = "withdraw"
)

type AllowanceTransaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	AccountID uint            `gorm:"not null;index" json:"account_id"`
	Kind      TransactionKind `gorm:"not null" json:"kind"`
	Bucket    AllowanceBucket `json:"bucket,omitempty"` // empty for split deposits
	Cents     int64           `gorm:"not null" json:"cents"`
	Memo      string          `json:"memo,omitempty"`
	EnteredBy uint            `gorm:"index" json:"entered_by"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

type AllowanceInput struct {
	Cents  int64           `json:"cents"`
	Bucket AllowanceBucket `json:"bucket"` // required for withdrawals
	Memo   string          `json:"memo"`
}
