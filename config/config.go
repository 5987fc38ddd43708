package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	AccessTokenMinutes   int // lifetime of access tokens
	RefreshTokenHours    int // lifetime of refresh tokens
	ResetTokenMinutes    int // lifetime of password-reset tokens
	OTPExpiryMinutes     int // lifetime of one-time codes
	PresignExpirySeconds int // lifetime of presigned download URLs

	EmailSender    string
	SMTPHost       string
	SMTPPort       string
	SMTPPassword   string
	SendgridAPIKey string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Bucket           string
	S3Location         string // key prefix inside the bucket
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		AccessTokenMinutes:   getEnvInt("ACCESS_TOKEN_MINUTES", 15),
		RefreshTokenHours:    getEnvInt("REFRESH_TOKEN_HOURS", 24),
		ResetTokenMinutes:    getEnvInt("RESET_TOKEN_MINUTES", 15),
		OTPExpiryMinutes:     getEnvInt("OTP_EXPIRY_MINUTES", 15),
		PresignExpirySeconds: getEnvInt("PRESIGN_EXPIRY_SECONDS", 300),

		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@example.com"),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		AWSRegion:          getEnv("AWS_S3_REGION_NAME", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3Bucket:           getEnv("AWS_STORAGE_BUCKET_NAME", ""),
		S3Location:         getEnv("AWS_S3_LOCATION", "secure_files"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.S3Bucket == "" {
		log.Println("Warning: AWS_STORAGE_BUCKET_NAME is not set. File storage will fail.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
