package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance_ledger/internal/config"
	internalhttp "finance_ledger/internal/http"
	"finance_ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func setupAPI(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	db := connectDB(t)

	t.Setenv("JWT_SECRET", "e2e-secret")
	service.InitJWT()

	cfg := &config.Config{
		BcryptCost:     bcrypt.MinCost,
		APIRateLimit:   1000,
		APIRateWindow:  time.Minute,
		AuthRateLimit:  1000,
		AuthRateWindow: time.Minute,
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	internalhttp.RegisterRoutes(r, db, "test", cfg)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %s: %v", w.Body.String(), err)
	}
}

func TestAPI_FullFlow(t *testing.T) {
	r, _ := setupAPI(t)
	email := uniqueEmail(t)

	// signup
	w := doJSON(t, r, http.MethodPost, "/api/signup", "", gin.H{
		"name":           "A",
		"email":          email,
		"password":       "p",
		"initialBalance": 100,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// duplicate signup
	w = doJSON(t, r, http.MethodPost, "/api/signup", "", gin.H{
		"name":           "A",
		"email":          email,
		"password":       "p",
		"initialBalance": 100,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: expected 400, got %d", w.Code)
	}

	// wrong password
	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}

	// login
	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": "p"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
		User  struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, w, &login)
	if login.Token == "" {
		t.Fatalf("expected token in login response")
	}
	if login.User.Email != email {
		t.Fatalf("expected user email %s, got %s", email, login.User.Email)
	}

	// me
	w = doJSON(t, r, http.MethodGet, "/api/me", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var me struct {
		CurrentBalance decimal.Decimal `json:"currentBalance"`
	}
	decodeBody(t, w, &me)
	if !me.CurrentBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected currentBalance 100, got %s", me.CurrentBalance)
	}

	// expense within balance
	w = doJSON(t, r, http.MethodPost, "/api/transactions", login.Token, gin.H{
		"amount": 30, "type": "expense", "reason": "food",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expense: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Transaction struct {
			BalanceAfter decimal.Decimal `json:"balance_after"`
		} `json:"transaction"`
	}
	decodeBody(t, w, &created)
	if !created.Transaction.BalanceAfter.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected balance_after 70, got %s", created.Transaction.BalanceAfter)
	}

	// expense over balance
	w = doJSON(t, r, http.MethodPost, "/api/transactions", login.Token, gin.H{
		"amount": 1000, "type": "expense", "reason": "rent",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("over-balance expense: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// history is newest first and untouched by the failed expense
	w = doJSON(t, r, http.MethodGet, "/api/transactions", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list struct {
		Transactions []struct {
			Reason       string          `json:"reason"`
			BalanceAfter decimal.Decimal `json:"balance_after"`
		} `json:"transactions"`
	}
	decodeBody(t, w, &list)
	if len(list.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(list.Transactions))
	}
	if list.Transactions[0].Reason != "food" {
		t.Fatalf("expected newest transaction first, got %q", list.Transactions[0].Reason)
	}
	if !list.Transactions[0].BalanceAfter.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected balance 70 on newest row, got %s", list.Transactions[0].BalanceAfter)
	}
}

func TestAPI_ValidationErrors(t *testing.T) {
	r, _ := setupAPI(t)
	email := uniqueEmail(t)

	// missing fields
	w := doJSON(t, r, http.MethodPost, "/api/signup", "", gin.H{"name": "A"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: expected 400, got %d", w.Code)
	}

	// negative initial balance
	w = doJSON(t, r, http.MethodPost, "/api/signup", "", gin.H{
		"name": "A", "email": email, "password": "p", "initialBalance": -5,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative balance: expected 400, got %d", w.Code)
	}

	// zero initial balance is valid
	w = doJSON(t, r, http.MethodPost, "/api/signup", "", gin.H{
		"name": "A", "email": email, "password": "p", "initialBalance": 0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("zero balance signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": "p"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &login)

	cases := []gin.H{
		{"amount": 0, "type": "credit", "reason": "x"},
		{"amount": -3, "type": "credit", "reason": "x"},
		{"amount": 10, "type": "transfer", "reason": "x"},
		{"amount": 10, "type": "credit"},
		{"type": "credit", "reason": "x"},
	}
	for i, body := range cases {
		w = doJSON(t, r, http.MethodPost, "/api/transactions", login.Token, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d: %s", i, w.Code, w.Body.String())
		}
	}

	// unauthenticated access
	for _, path := range []string{"/api/me", "/api/transactions"} {
		w = doJSON(t, r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: expected 401, got %d", path, w.Code)
		}
	}
}
