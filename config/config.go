package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// GoogleClientConfig holds the OAuth client settings for one account variant
type GoogleClientConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Config holds all application configuration
type Config struct {
	DatabaseURL          string
	Port                 string
	GoEnv                string
	LogLevel             string
	JWTSecret            string
	JWTIssuer            string
	JWTAudience          string
	AccessTokenTTL       time.Duration
	RegistrationTokenTTL time.Duration
	HashCost             int
	FrontendBaseURL      string
	GoogleUser           GoogleClientConfig
	GoogleProvider       GoogleClientConfig
	RedisURL             string
	OAuthStateTTL        time.Duration
	AWSRegion            string
	AWSS3Bucket          string
	AWSAccessKeyID       string
	AWSSecretAccessKey   string
}

// minSecretLength is the shortest JWT secret accepted outside the test environment
const minSecretLength = 32

var current *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// In production the environment is set directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		Port:                 getEnv("PORT", "3000"),
		GoEnv:                getEnv("GO_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTIssuer:            getEnv("JWT_ISSUER", "serviyapp-api"),
		JWTAudience:          getEnv("JWT_AUDIENCE", "serviyapp"),
		AccessTokenTTL:       getDurationEnv("ACCESS_TOKEN_TTL", 30*time.Minute),
		RegistrationTokenTTL: getDurationEnv("REGISTRATION_TOKEN_TTL", 24*time.Hour),
		HashCost:             getIntEnv("HASH_COST", 10),
		FrontendBaseURL:      getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),
		GoogleUser: GoogleClientConfig{
			ClientID:     getEnv("GOOGLE_USER_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_USER_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("GOOGLE_USER_CALLBACK_URL", ""),
		},
		GoogleProvider: GoogleClientConfig{
			ClientID:     getEnv("GOOGLE_PROVIDER_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_PROVIDER_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("GOOGLE_PROVIDER_CALLBACK_URL", ""),
		},
		RedisURL:           getEnv("REDIS_URL", ""),
		OAuthStateTTL:      getDurationEnv("OAUTH_STATE_TTL", 10*time.Minute),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	current = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if !c.IsTest() && len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.AccessTokenTTL <= 0 || c.RegistrationTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.HashCost < 4 || c.HashCost > 31 {
		return fmt.Errorf("HASH_COST must be between 4 and 31, got %d", c.HashCost)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// Enabled reports whether the Google client credentials are set
func (g GoogleClientConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// GetConfig returns the configuration loaded by the last successful Load
func GetConfig() *Config {
	return current
}

// SetConfig replaces the current configuration (primarily for testing)
func SetConfig(cfg *Config) {
	current = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
