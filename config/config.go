package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "https://nobroker-app-backend.onrender.com/api"

type Config struct {
	APIURL         string
	Port           string
	FetchTimeout   time.Duration
	RequestTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TokenTTL      time.Duration

	SessionSecret  string
	SessionCookie  string
	AllowedOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool

	SampleDataFile string
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getRequiredEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s not set in environment", key)
	}
	return value, nil
}

func getIntEnv(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

// Load reads the gateway configuration from the environment. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	secret, err := getRequiredEnv("SESSION_SECRET")
	if err != nil {
		return nil, err
	}

	fetchSecs, err := getIntEnv("FETCH_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	requestSecs, err := getIntEnv("REQUEST_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	redisDB, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	ttlHours, err := getIntEnv("TOKEN_TTL_HOURS", 168)
	if err != nil {
		return nil, err
	}
	burst, err := getIntEnv("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}
	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	trustProxy, err := strconv.ParseBool(getEnv("TRUST_PROXY", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY: %w", err)
	}

	return &Config{
		APIURL:         strings.TrimRight(getEnv("API_URL", DefaultAPIURL), "/"),
		Port:           getEnv("PORT", "8080"),
		FetchTimeout:   time.Duration(fetchSecs) * time.Second,
		RequestTimeout: time.Duration(requestSecs) * time.Second,
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        redisDB,
		TokenTTL:       time.Duration(ttlHours) * time.Hour,
		SessionSecret:  secret,
		SessionCookie:  getEnv("SESSION_COOKIE", "sid"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
		TrustProxy:     trustProxy,
		SampleDataFile: getEnv("SAMPLE_DATA_FILE", ""),
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
