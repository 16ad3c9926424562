package service

import (
	"os"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Session struct {
		Secret string
	}

	Stripe struct {
		PublishableKey string
		SecretKey      string
		WebhookSecret  string
	}

	Clerk struct {
		SecretKey string
	}

	AI struct {
		BaseURL string
		APIKey  string
		Model   string
	}

	Upload struct {
		Dir string
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/minutelaunch.db"),
	}

	config.Session.Secret = getEnv("SESSION_SECRET", "development-secret")

	config.Stripe.PublishableKey = getEnv("STRIPE_PUBLISHABLE_KEY", "")
	config.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", "")
	config.Stripe.WebhookSecret = getEnv("STRIPE_WEBHOOK_SECRET", "")

	config.Clerk.SecretKey = getEnv("CLERK_SECRET_KEY", "")

	config.AI.BaseURL = getEnv("AI_GATEWAY_URL", "http://localhost:8787")
	config.AI.APIKey = getEnv("AI_GATEWAY_KEY", "")
	config.AI.Model = getEnv("AI_MODEL", "gpt-4o-mini")

	config.Upload.Dir = getEnv("UPLOAD_DIR", "./public/uploads")

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
