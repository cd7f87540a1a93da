package configs

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
	BackendBadger = "badger"
)

type Config struct {
	// client side
	APIBaseURL        string
	APITimeout        time.Duration
	APIRateLimit      float64
	StoreBackend      string
	StorePath         string
	RedisAddr         string
	RedisDB           int
	RedisPrefix       string
	SQLDriver         string
	SQLDSN            string
	SeedNotifications bool
	NumberOfWorkers   int
	LogLevel          string

	// reference server
	ServerPort  string
	JWTSecret   string
	DBDriver    string
	DBDSN       string
	ServerCache bool
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	return &Config{
		APIBaseURL:        getString("API_BASE_URL", "http://localhost:8080/api"),
		APITimeout:        time.Duration(getInt("API_TIMEOUT_SECONDS", 10)) * time.Second,
		APIRateLimit:      getFloat("API_RATE_LIMIT", 0),
		StoreBackend:      strings.ToLower(getString("STORE_BACKEND", BackendFile)),
		StorePath:         getString("STORE_PATH", defaultStorePath()),
		RedisAddr:         getString("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getInt("REDIS_DB", 0),
		RedisPrefix:       getString("REDIS_PREFIX", "crowdfix:"),
		SQLDriver:         getString("SQL_DRIVER", "sqlite"),
		SQLDSN:            getString("SQL_DSN", "crowdfix.db"),
		SeedNotifications: getBool("SEED_NOTIFICATIONS", true),
		NumberOfWorkers:   getInt("NUM_OF_WORKERS", 4),
		LogLevel:          getString("LOG_LEVEL", "info"),

		ServerPort:  getString("SERVER_PORT", "8080"),
		JWTSecret:   getString("JWT_SECRET", "crowdfix-dev-secret"),
		DBDriver:    getString("DB_DRIVER", "sqlite"),
		DBDSN:       getString("DB_DSN", "file:crowdfix-api.db"),
		ServerCache: getBool("SERVER_CACHE", false),
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".crowdfix"
	}
	return dir + string(os.PathSeparator) + "crowdfix"
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
