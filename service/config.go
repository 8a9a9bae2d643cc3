package service

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Email struct {
		SMTPHost     string
		SMTPPort     int
		SMTPUsername string
		SMTPPassword string
		From         string
		OwnerTo      string
	}

	Verification struct {
		EmailAPIURL    string
		EmailAPIKey    string
		PhoneAPIURL    string
		PhoneAPIKey    string
		HumanSecretKey string
		HumanMinScore  float64
		Timeout        time.Duration
	}

	Admin struct {
		Token string
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/voxcraft.db"),
	}

	// Email
	config.Email.SMTPHost = getEnv("SMTP_HOST", "")
	if port, err := strconv.Atoi(getEnv("SMTP_PORT", "587")); err == nil {
		config.Email.SMTPPort = port
	}
	config.Email.SMTPUsername = getEnv("SMTP_USERNAME", "")
	config.Email.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	config.Email.From = getEnv("EMAIL_FROM", "quotes@voxcraft3d.example")
	config.Email.OwnerTo = getEnv("EMAIL_OWNER_TO", "")

	// Verification collaborators; empty values disable the check
	config.Verification.EmailAPIURL = getEnv("EMAIL_VERIFY_API_URL", "https://emailvalidation.abstractapi.com/v1/")
	config.Verification.EmailAPIKey = getEnv("EMAIL_VERIFY_API_KEY", "")
	config.Verification.PhoneAPIURL = getEnv("PHONE_VERIFY_API_URL", "https://phonevalidation.abstractapi.com/v1/")
	config.Verification.PhoneAPIKey = getEnv("PHONE_VERIFY_API_KEY", "")
	config.Verification.HumanSecretKey = getEnv("RECAPTCHA_SECRET_KEY", "")
	if score, err := strconv.ParseFloat(getEnv("RECAPTCHA_MIN_SCORE", "0.5"), 64); err == nil {
		config.Verification.HumanMinScore = score
	}
	if timeout, err := time.ParseDuration(getEnv("VERIFICATION_TIMEOUT", "10s")); err == nil {
		config.Verification.Timeout = timeout
	}

	// Admin
	config.Admin.Token = getEnv("ADMIN_TOKEN", "")

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
