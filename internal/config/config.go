package config

import (
	"os"
	"strconv"
	"time"

	"finance_ledger/internal/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	BcryptCost  int

	// Optional static frontend directory, served when set
	StaticDir string

	// Rate limiting (Redis-backed, fail-open without Redis)
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load reads configuration from the environment, falling back to .env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	bcryptCost := bcrypt.DefaultCost
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			bcryptCost = n
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			redisDB = n
		}
	}

	return &Config{
		AppPort:        port,
		DatabaseURL:    dbURL,
		JWTSecret:      jwtSecret,
		BcryptCost:     bcryptCost,
		StaticDir:      os.Getenv("STATIC_DIR"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		APIRateLimit:   intEnv("API_RATE_LIMIT", 60),
		APIRateWindow:  windowEnv("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:  intEnv("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: windowEnv("AUTH_RATE_WINDOW_SECONDS", time.Minute),
	}
}

func intEnv(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func windowEnv(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
