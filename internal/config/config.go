package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration

	// Completion provider settings. CompletionBaseURL is empty for the hosted
	// OpenAI API and set (LM_BASE_URL) for a self-hosted OpenAI-compatible
	// endpoint. Switching providers is a configuration-only change.
	CompletionAPIKey  string
	CompletionBaseURL string
	CompletionModel   string
}

// DefaultModel is used when neither OPENAI_MODEL nor LM_MODEL is set.
const DefaultModel = "gpt-4o-mini"

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "default-super-secret-key") // CHANGE THIS IN PRODUCTION!
	dbURL := getEnv("DATABASE_URL", "")                           // No default, should fail if not set
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24") // Default 24 hours
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	// Completion provider: LM_BASE_URL selects the self-hosted endpoint.
	lmBaseURL := getEnv("LM_BASE_URL", "")
	apiKey := getEnv("OPENAI_API_KEY", "")
	if lmBaseURL != "" {
		apiKey = getEnv("LM_API_KEY", "")
	}
	if apiKey == "" {
		log.Println("Warning: no completion API key set (OPENAI_API_KEY or LM_API_KEY); completion calls will fail.")
	}

	model := getEnv("OPENAI_MODEL", "")
	if model == "" {
		model = getEnv("LM_MODEL", DefaultModel)
	}

	cfg := &Config{
		HTTPPort:          port,
		JWTSecret:         jwtSecret,
		DatabaseURL:       dbURL,
		TokenExpiration:   time.Hour * time.Duration(tokenExpHours),
		CompletionAPIKey:  apiKey,
		CompletionBaseURL: lmBaseURL,
		CompletionModel:   model,
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, Model=%s, SelfHosted=%t",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.CompletionModel, cfg.CompletionBaseURL != "")

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
