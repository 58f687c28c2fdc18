package repository

import (
	"context"
	"errors"

	"finance_ledger/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithTx inserts a new user using an existing database transaction.
// The caller owns the transaction so the seed transaction row can be
// committed atomically with the user.
func (r *UserRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, u *domain.User) error {
	err := dbTx.QueryRow(ctx,
		`INSERT INTO user_details (name, email, password_hash, dob, address)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.DOB, u.Address,
	).Scan(&u.ID, &u.CreatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, dob, address, created_at
		 FROM user_details
		 WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, dob, address, created_at
		 FROM user_details
		 WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.DOB,
		&u.Address,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
