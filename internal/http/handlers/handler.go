package handlers

import (
	"finance_ledger/internal/repository"
	"finance_ledger/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig holds tunables for the handler
type HandlerConfig struct {
	BcryptCost int
}

type Handler struct {
	DB            *pgxpool.Pool
	UserRepo      *repository.UserRepository
	AuthService   *service.AuthService
	LedgerService *service.LedgerService
}

func NewHandler(db *pgxpool.Pool, cfg HandlerConfig) *Handler {
	return &Handler{
		DB:            db,
		UserRepo:      repository.NewUserRepository(db),
		AuthService:   service.NewAuthService(db, cfg.BcryptCost),
		LedgerService: service.NewLedgerService(db),
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
