// backend/src/config/config.go
package config

import (
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAdminChargePattern matches the movement-type text agent exports use for
// credits applied by an administrator ("te cargaron ...").
const DefaultAdminChargePattern = `(?i)te cargaron`

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port     string
	LogLevel string

	// Upload and session limits
	MaxUploadSizeBytes     int64
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration

	// Ledger interpretation
	Location           *time.Location // timestamps without a zone are read in this location
	AdminChargePattern *regexp.Regexp
	CurrencyCode       string

	// HTTP edge
	AllowedOrigins    []string
	RateLimitInterval time.Duration
	RateLimitBurst    int
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = FromEnv()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, Timezone=%s, SessionTTL=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.Location, Cfg.SessionTTL)
}

// FromEnv builds an AppConfig from the current process environment only.
func FromEnv() *AppConfig {
	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760") // 10MB default
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil || maxUploadSizeBytes <= 0 {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	return &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MaxUploadSizeBytes:     maxUploadSizeBytes,
		SessionTTL:             getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		SessionCleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 30*time.Minute),

		Location:           getEnvAsLocation("LEDGER_TIMEZONE", time.Local),
		AdminChargePattern: getEnvAsRegexp("ADMIN_CHARGE_PATTERN", DefaultAdminChargePattern),
		CurrencyCode:       strings.ToUpper(getEnv("CURRENCY_CODE", "ARS")),

		AllowedOrigins:    getEnvAsList("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 100*time.Millisecond),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 30),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsLocation loads an IANA zone name such as America/Argentina/Buenos_Aires.
func getEnvAsLocation(key string, fallback *time.Location) *time.Location {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	loc, err := time.LoadLocation(valueStr)
	if err != nil {
		log.Printf("Invalid time zone for %s ('%s'), using default: %s. Error: %v", key, valueStr, fallback, err)
		return fallback
	}
	return loc
}

// getEnvAsRegexp compiles the variable, falling back to the default pattern when it does not compile.
func getEnvAsRegexp(key, fallback string) *regexp.Regexp {
	valueStr := getEnv(key, "")
	if strings.TrimSpace(valueStr) == "" {
		return regexp.MustCompile(fallback)
	}
	re, err := regexp.Compile(valueStr)
	if err != nil {
		log.Printf("Invalid regular expression for %s ('%s'), using default: %s. Error: %v", key, valueStr, fallback, err)
		return regexp.MustCompile(fallback)
	}
	return re
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
