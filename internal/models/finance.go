package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinanceAccount is a named money container owned by a user.
// Balance is derived: the signed sum of the account's transactions,
// recomputed whenever a transaction changes — never adjusted in place.
type FinanceAccount struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	AccountName string          `gorm:"size:128" json:"accountName"`
	AccountType string          `gorm:"size:64" json:"accountType"` // "Savings", "Checking", ...
	Balance     decimal.Decimal `gorm:"type:decimal(20,4)" json:"balance"`
	UserID      string          `gorm:"index;size:64" json:"userId"`

	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// Transaction is a dated monetary movement against a finance account.
// Amount is a non-negative magnitude; IsExpense decides the sign.
type Transaction struct {
	ID               string          `gorm:"primaryKey;size:64" json:"id"`
	Description      string          `gorm:"size:256" json:"description"`
	Amount           decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	Date             time.Time       `json:"date"`
	Category         string          `gorm:"size:64" json:"category"`
	IsExpense        bool            `json:"isExpense"`
	FinanceAccountID string          `gorm:"index;size:64" json:"financeAccountId"`
}

// Budget is a spending limit for a category, optionally owned by a user.
type Budget struct {
	ID       string          `gorm:"primaryKey;size:64" json:"id"`
	Category string          `gorm:"size:64" json:"category"`
	Limit    decimal.Decimal `gorm:"type:decimal(20,4)" json:"limit"`
	UserID   *string         `gorm:"index;size:64" json:"userId"`
}

// Goal is a savings target owned by a user.
type Goal struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id"`
	GoalTitle     string          `gorm:"size:128" json:"goalTitle"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,4)" json:"targetAmount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"currentAmount"`
	TargetDate    time.Time       `json:"targetDate"`
	UserID        string          `gorm:"index;size:64" json:"userId"`
}

// Investment is a purchased asset owned by a user.
type Investment struct {
	ID             string          `gorm:"primaryKey;size:64" json:"id"`
	AssetName      string          `gorm:"size:128" json:"assetName"`
	AmountInvested decimal.Decimal `gorm:"type:decimal(20,4)" json:"amountInvested"`
	CurrentValue   decimal.Decimal `gorm:"type:decimal(20,4)" json:"currentValue"`
	PurchaseDate   time.Time       `json:"purchaseDate"`
	UserID         string          `gorm:"index;size:64" json:"userId"`
}
