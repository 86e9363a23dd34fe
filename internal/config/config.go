package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	APIKey         string   // API key for service-to-service authentication
	TrustedProxies []string // source IPs whose X-Forwarded-For is honored

	DeadLetterPath string

	// Referral program parameters
	ReferralDepositThreshold decimal.Decimal // minimum first deposit that completes a referral
	ReferralBonus            decimal.Decimal // fixed amount credited to the referrer
	ReferralClickTarget      int             // Nth unique click that issues the click-milestone bonus
	ReferralClickBonus       decimal.Decimal // bonus-balance amount for the click milestone
	ReferralClickBonusTTL    time.Duration   // validity window of the click-milestone bonus

	// Settlement retry policy for conflicting conditional writes
	SettleMaxRetries int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		ServiceName:    getEnv("SERVICE_NAME", "accrabet"),
		Version:        getEnv("VERSION", "dev"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "accrabet"),
		APIKey:         getEnv("API_KEY", ""),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "events.deadletter"),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	cfg.ReferralDepositThreshold, err = getEnvDecimal("REFERRAL_DEPOSIT_THRESHOLD", DefaultReferralDepositThreshold)
	if err != nil {
		return nil, err
	}
	cfg.ReferralBonus, err = getEnvDecimal("REFERRAL_BONUS", DefaultReferralBonus)
	if err != nil {
		return nil, err
	}
	cfg.ReferralClickBonus, err = getEnvDecimal("REFERRAL_CLICK_BONUS", DefaultReferralClickBonus)
	if err != nil {
		return nil, err
	}

	cfg.ReferralClickTarget, err = getEnvInt("REFERRAL_CLICK_TARGET", DefaultReferralClickTarget)
	if err != nil {
		return nil, err
	}
	cfg.SettleMaxRetries, err = getEnvInt("SETTLE_MAX_RETRIES", DefaultSettleMaxRetries)
	if err != nil {
		return nil, err
	}

	ttlHours, err := getEnvInt("REFERRAL_CLICK_BONUS_TTL_HOURS", DefaultReferralClickBonusTTLHours)
	if err != nil {
		return nil, err
	}
	cfg.ReferralClickBonusTTL = time.Duration(ttlHours) * time.Hour

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDecimal(key, defaultValue string) (decimal.Decimal, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = defaultValue
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
