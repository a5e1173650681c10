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
	DBName    string
	JWTKey    string
	SaltRound int

	// Symmetric key used for encrypting sensitive values at rest.
	EncryptionKey string

	// Activation requirements
	RequiredRegistrationFee float64
	RequiredTeamSize        int

	// Security gateway
	SessionTimeoutMinutes int
	MaxRequestBodyBytes   int64
	MinUserAgentLength    int

	// Rate limiting
	LoginRateLimit       int
	LoginRateWindowMin   int
	DefaultRateLimit     int
	DefaultRateWindowMin int

	// Suspicious-activity thresholds
	SuspiciousEventThreshold int
	FailedLoginLockThreshold int

	// Notifications
	EmailSender    string
	SendGridAPIKey string
	ReceiptWebhook string

	// KYC attachment storage
	UploadDir string
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
		DBName:    getEnv("DB_NAME", "propfund"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EncryptionKey: getEnv("ENCRYPTION_KEY", "defaultEncryptionKey"),

		RequiredRegistrationFee: getEnvFloat("REQUIRED_REGISTRATION_FEE", 500),
		RequiredTeamSize:        getEnvInt("REQUIRED_TEAM_SIZE", 20),

		SessionTimeoutMinutes: getEnvInt("SESSION_TIMEOUT_MINUTES", 120),
		MaxRequestBodyBytes:   int64(getEnvInt("MAX_REQUEST_BODY_BYTES", 10*1024*1024)),
		MinUserAgentLength:    getEnvInt("MIN_USER_AGENT_LENGTH", 10),

		LoginRateLimit:       getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindowMin:   getEnvInt("LOGIN_RATE_WINDOW_MINUTES", 15),
		DefaultRateLimit:     getEnvInt("DEFAULT_RATE_LIMIT", 10),
		DefaultRateWindowMin: getEnvInt("DEFAULT_RATE_WINDOW_MINUTES", 1),

		SuspiciousEventThreshold: getEnvInt("SUSPICIOUS_EVENT_THRESHOLD", 15),
		FailedLoginLockThreshold: getEnvInt("FAILED_LOGIN_LOCK_THRESHOLD", 6),

		EmailSender:    getEnv("EMAIL_SENDER", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		ReceiptWebhook: getEnv("RECEIPT_WEBHOOK_URL", ""),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.EncryptionKey == "defaultEncryptionKey" {
		log.Println("Warning: Using default ENCRYPTION_KEY. Update it in your environment.")
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

// getEnvFloat retrieves an environment variable as a float or returns the default float value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}
