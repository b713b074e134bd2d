package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseURL string

	AdapterTimeout time.Duration
	SearchTimeout  time.Duration
	RetailerRPS    float64
	UserAgent      string
	CORSOrigins    []string
}

// Load reads .env (when present) and then the process environment.
func Load() *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AdapterTimeout: getPositiveDuration("ADAPTER_TIMEOUT", 10*time.Second),
		SearchTimeout:  getDuration("SEARCH_TIMEOUT", 20*time.Second),
		RetailerRPS:    getFloat("RETAILER_RPS", 5),
		UserAgent:      getEnv("USER_AGENT", "Mozilla/5.0 (compatible; ratoneando/1.0)"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getDuration accepts Go durations ("15s") or plain seconds ("15").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}

// getPositiveDuration is getDuration for settings where zero or a negative
// value cannot mean "disabled".
func getPositiveDuration(key string, defaultValue time.Duration) time.Duration {
	if d := getDuration(key, defaultValue); d > 0 {
		return d
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
