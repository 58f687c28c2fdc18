package service

import (
	"context"
	"errors"

	"finance_ledger/internal/domain"
	"finance_ledger/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrInvalidType         = errors.New("type must be either \"expense\" or \"credit\"")
	ErrEmptyReason         = errors.New("reason must not be empty")
	ErrUserNotFound        = errors.New("user not found")
)

var appendsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_appends_total",
		Help: "Ledger append attempts by outcome",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(appendsTotal)
}

// LedgerService owns the append-only transaction history and the derived
// balance of each user.
type LedgerService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
}

func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// CurrentBalance returns balance_after of the user's most recent
// transaction, zero if the user has none.
func (s *LedgerService) CurrentBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.transactionRepo.LastBalance(ctx, userID)
}

// History returns the user's transactions, newest first.
func (s *LedgerService) History(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByUserID(ctx, userID)
}

// ValidateAppend checks an append request without touching the store.
func ValidateAppend(amount decimal.Decimal, txType domain.TransactionType, reason string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !txType.Valid() {
		return ErrInvalidType
	}
	if reason == "" {
		return ErrEmptyReason
	}
	return nil
}

// Append records a new transaction for the user. The read of the current
// balance and the insert run in one database transaction with the user row
// locked, so two appends for the same user cannot interleave. An expense
// that would make the balance negative is rejected without writing.
func (s *LedgerService) Append(ctx context.Context, userID int64, amount decimal.Decimal, txType domain.TransactionType, reason string) (*domain.Transaction, error) {
	if err := ValidateAppend(amount, txType, reason); err != nil {
		appendsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	dbTx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	// Lock the user row to serialize appends for this user
	var lockedID int64
	err = dbTx.QueryRow(ctx, `SELECT id FROM user_details WHERE id = $1 FOR UPDATE`, userID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	balance, err := s.transactionRepo.LastBalanceWithTx(ctx, dbTx, userID)
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal
	if txType == domain.TransactionExpense {
		newBalance = balance.Sub(amount)
		if newBalance.IsNegative() {
			appendsTotal.WithLabelValues("insufficient").Inc()
			return nil, ErrInsufficientBalance
		}
	} else {
		newBalance = balance.Add(amount)
	}

	tx := &domain.Transaction{
		UserID:       userID,
		Amount:       amount,
		Type:         txType,
		Reason:       reason,
		BalanceAfter: newBalance,
	}
	if err = s.transactionRepo.CreateWithTx(ctx, dbTx, tx); err != nil {
		return nil, err
	}

	if err = dbTx.Commit(ctx); err != nil {
		return nil, err
	}

	appendsTotal.WithLabelValues("ok").Inc()
	return tx, nil
}
