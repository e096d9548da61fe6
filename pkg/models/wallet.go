package models

import (
	"time"

	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTopUp        TransactionType = "topup"
	TransactionSubscription TransactionType = "subscription"
	TransactionEarning      TransactionType = "earning"
	TransactionTip          TransactionType = "tip"
)

type Wallet struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID       string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	BalanceCents int64     `gorm:"default:0" json:"balance_cents"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	setID(&w.ID)
	return nil
}

// Transaction amounts are signed: debits are negative.
type Transaction struct {
	ID           string          `gorm:"type:uuid;primary_key" json:"id"`
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type         TransactionType `gorm:"type:varchar(20);not null;index" json:"type"`
	AmountCents  int64           `gorm:"not null" json:"amount_cents"`
	BalanceAfter int64           `json:"balance_after"`
	ReferenceID  string          `gorm:"index" json:"reference_id,omitempty"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	setID(&t.ID)
	return nil
}
