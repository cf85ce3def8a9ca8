package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port       string
	DBPath     string
	RateLimit  int
	RateWindow time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() *Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/floorplans.db"
	}

	rateLimit := 300
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimit = n
		}
	}

	rateWindow := time.Minute
	if v := os.Getenv("RATE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			rateWindow = d
		}
	}

	return &Config{
		Port:       port,
		DBPath:     dbPath,
		RateLimit:  rateLimit,
		RateWindow: rateWindow,
	}
}
