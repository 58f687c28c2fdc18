package repository

import (
	"context"
	"errors"

	"finance_ledger/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetByUserID returns the user's full transaction history, newest first.
// Rows with identical timestamps are ordered by id so later inserts win.
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount, type, reason, balance_after, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// LastBalance returns balance_after of the user's most recent transaction,
// or zero when the user has none.
func (r *TransactionRepository) LastBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return lastBalance(ctx, r.db, userID)
}

// LastBalanceWithTx reads the most recent balance inside an existing
// database transaction.
func (r *TransactionRepository) LastBalanceWithTx(ctx context.Context, dbTx pgx.Tx, userID int64) (decimal.Decimal, error) {
	return lastBalance(ctx, dbTx, userID)
}

// CreateWithTx inserts a transaction row using an existing database
// transaction.
func (r *TransactionRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, tx *domain.Transaction) error {
	return dbTx.QueryRow(ctx,
		`INSERT INTO transactions (user_id, amount, type, reason, balance_after)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		tx.UserID, tx.Amount, tx.Type, tx.Reason, tx.BalanceAfter,
	).Scan(&tx.ID, &tx.CreatedAt)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func lastBalance(ctx context.Context, q queryRower, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRow(ctx,
		`SELECT balance_after
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return balance, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction

	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&tx.Type,
			&tx.Reason,
			&tx.BalanceAfter,
			&tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &tx)
	}

	return result, rows.Err()
}
