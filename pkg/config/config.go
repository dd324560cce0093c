package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	PerplexityAPIKey string
	PerplexityBase   string
	PerplexityModel  string

	// Matching client knobs
	MatchAttempts         int
	MatchBaseDelayMS      int
	MatchAttemptTimeoutMS int

	UploadDir string

	LogJSON  bool
	LogDebug bool
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	return Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "talentgate"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),

		PerplexityAPIKey: os.Getenv("PERPLEXITY_API_KEY"),
		PerplexityBase:   os.Getenv("PERPLEXITY_BASE_URL"),
		PerplexityModel:  getEnv("PERPLEXITY_MODEL", "sonar-pro"),

		MatchAttempts:         getEnvInt("MATCH_ATTEMPTS", 3),
		MatchBaseDelayMS:      getEnvInt("MATCH_BASE_DELAY_MS", 1000),
		MatchAttemptTimeoutMS: getEnvInt("MATCH_ATTEMPT_TIMEOUT_MS", 20000),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		LogJSON:  getEnvBool("LOG_JSON", false),
		LogDebug: getEnvBool("LOG_DEBUG", false),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
