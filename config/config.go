package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Environment selects which Slack app credential set the process uses.
// It is resolved exactly once at startup and injected from there.
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
)

type SlackAppConfig struct {
	ClientID      string
	ClientSecret  string
	SigningSecret string
	BotToken      string
}

// IsConfigured returns true if all required Slack configuration is present.
// BotToken is optional.
func (c SlackAppConfig) IsConfigured() bool {
	return c.ClientID != "" &&
		c.ClientSecret != "" &&
		c.SigningSecret != ""
}

type ClerkConfig struct {
	SecretKey string
}

// IsConfigured returns true if all required Clerk configuration is present
func (c ClerkConfig) IsConfigured() bool {
	return c.SecretKey != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	SiteBaseURL        string
	AlertWebhookURL    string
	UseStrictConfig    bool

	// Environment decides which Slack app set is active
	Environment Environment

	SlackConfig SlackAppConfig
	ClerkConfig ClerkConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	environment := resolveEnvironment()

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		SiteBaseURL:        getEnvWithDefault("SITE_BASE_URL", "http://localhost:3000"),
		AlertWebhookURL:    os.Getenv("ALERT_WEBHOOK_URL"),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",
		Environment:        environment,
		SlackConfig:        slackConfigForEnvironment(environment),
		ClerkConfig: ClerkConfig{
			SecretKey: os.Getenv("CLERK_SECRET_KEY"),
		},
	}

	log.Printf("✅ Using %s Slack app credentials", environment)

	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack integration configured")
	} else {
		log.Printf("⚠️ Slack integration not configured - Slack features will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("slack integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.ClerkConfig.IsConfigured() {
		log.Printf("✅ Clerk authentication configured")
	} else {
		log.Printf("⚠️ Clerk authentication not configured - API authentication will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("clerk authentication is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	return config, nil
}

// resolveEnvironment picks the active Slack app set. Staging wins when the
// dev-mode flag or preview-deployment flag is set, or when the site is served
// from the explicit staging URL.
func resolveEnvironment() Environment {
	if getEnvWithDefault("DEV_MODE", "false") == "true" {
		return EnvironmentStaging
	}
	if getEnvWithDefault("PREVIEW_DEPLOYMENT", "false") == "true" {
		return EnvironmentStaging
	}
	stagingURL := os.Getenv("STAGING_SITE_URL")
	if stagingURL != "" && stagingURL == os.Getenv("SITE_BASE_URL") {
		return EnvironmentStaging
	}
	return EnvironmentProduction
}

func slackConfigForEnvironment(environment Environment) SlackAppConfig {
	if environment == EnvironmentStaging {
		return SlackAppConfig{
			ClientID:      os.Getenv("SLACK_STAGING_CLIENT_ID"),
			ClientSecret:  os.Getenv("SLACK_STAGING_CLIENT_SECRET"),
			SigningSecret: os.Getenv("SLACK_STAGING_SIGNING_SECRET"),
			BotToken:      os.Getenv("SLACK_STAGING_BOT_TOKEN"),
		}
	}
	return SlackAppConfig{
		ClientID:      os.Getenv("SLACK_CLIENT_ID"),
		ClientSecret:  os.Getenv("SLACK_CLIENT_SECRET"),
		SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		BotToken:      os.Getenv("SLACK_BOT_TOKEN"),
	}
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
