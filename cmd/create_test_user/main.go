package main

import (
	"context"
	"log"
	"os"

	"finance_ledger/internal/db"
	"finance_ledger/internal/repository"
	"finance_ledger/internal/service"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Creates a test user with a seeded initial balance and prints a bearer
// token for it. Expects DATABASE_URL and JWT_SECRET env vars.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	auth := service.NewAuthService(pool, bcrypt.DefaultCost)
	ctx := context.Background()

	email := "tester@example.com"

	u, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		log.Printf("user already exists id=%d\n", u.ID)
	} else {
		u, err = auth.Signup(ctx, "Tester", email, "password", nil, nil, decimal.NewFromInt(100))
		if err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d\n", u.ID)
	}

	ledger := service.NewLedgerService(pool)
	balance, err := ledger.CurrentBalance(ctx, u.ID)
	if err != nil {
		log.Fatalf("read balance failed: %v", err)
	}
	log.Printf("current balance=%s\n", balance.String())

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID, u.Email)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
