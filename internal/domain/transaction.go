package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionCredit  TransactionType = "credit"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionCredit || t == TransactionExpense
}

type Transaction struct {
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Type         TransactionType `db:"type" json:"type"`
	Reason       string          `db:"reason" json:"reason"`
	BalanceAfter decimal.Decimal `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
