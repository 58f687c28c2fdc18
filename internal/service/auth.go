package service

import (
	"context"
	"errors"
	"time"

	"finance_ledger/internal/domain"
	"finance_ledger/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNegativeBalance    = errors.New("initial balance cannot be negative")
	ErrDuplicateEmail     = repository.ErrDuplicateEmail
)

const seedReason = "Initial Balance"

// AuthService handles signup and login.
type AuthService struct {
	db              *pgxpool.Pool
	userRepo        *repository.UserRepository
	transactionRepo *repository.TransactionRepository
	bcryptCost      int
}

func NewAuthService(db *pgxpool.Pool, bcryptCost int) *AuthService {
	return &AuthService{
		db:              db,
		userRepo:        repository.NewUserRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		bcryptCost:      bcryptCost,
	}
}

// Signup creates the user together with the seed transaction holding the
// initial balance. Both rows commit atomically; a failure of either leaves
// no trace of the signup. A zero initial balance is allowed and still
// produces the seed row.
func (s *AuthService) Signup(ctx context.Context, name, email, password string, dob *time.Time, address *string, initialBalance decimal.Decimal) (*domain.User, error) {
	if initialBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}

	passwordHash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		DOB:          dob,
		Address:      address,
	}
	if err := s.userRepo.CreateWithTx(ctx, dbTx, user); err != nil {
		return nil, err
	}

	seed := &domain.Transaction{
		UserID:       user.ID,
		Amount:       initialBalance,
		Type:         domain.TransactionCredit,
		Reason:       seedReason,
		BalanceAfter: initialBalance,
	}
	if err := s.transactionRepo.CreateWithTx(ctx, dbTx, seed); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
