package entity

import (
	"errors"
	"time"
)

type TransactionType string

const (
	TransactionTopUp        TransactionType = "topup"
	TransactionSubscription TransactionType = "subscription"
	TransactionEarning      TransactionType = "earning"
	TransactionTip          TransactionType = "tip"
)

const (
	MinTopUpCents int64 = 100
	MaxTopUpCents int64 = 1000000
)

type Wallet struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Transaction struct {
	ID           string          `json:"id"`
	Type         TransactionType `json:"type"`
	AmountCents  int64           `json:"amount_cents"`
	BalanceAfter int64           `json:"balance_after"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ModelRef and PostRef identify who gets paid.
type ModelRef struct {
	ID     string
	UserID string
	Name   string
}

type PostRef struct {
	ID        string
	ModelID   string
	CreatorID string
}

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrModelNotFound     = errors.New("model not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrOwnPost           = errors.New("cannot tip your own post")
)
