package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration.
// Populated from environment variables only — gateway credentials are
// never literals in code.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	NestPay  NestPayConfig
	Payment  PaymentConfig
	Job      JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

// =====================================================
// NESTPAY GATEWAY CONFIGURATION
// =====================================================

// NestPayConfig carries the hosted-payment-page credentials and URLs.
// StoreKey is the shared signing secret for the ver3 hash.
type NestPayConfig struct {
	ClientID    string // Merchant id assigned by the bank
	StoreKey    string // Shared secret for SHA-512 hashing
	GatewayURL  string // Hosted payment page endpoint (3D pay hosting)
	OkURL       string // Browser return URL on approval
	FailURL     string // Browser return URL on decline
	CallbackURL string // Server-to-server webhook URL
	StoreType   string // e.g. 3d_pay_hosting
	Currency    string // ISO 4217 numeric, e.g. "949"
	Lang        string // Hosted page locale
	RefreshTime string // Result page auto-refresh hint, seconds
}

type PaymentConfig struct {
	TimeoutMinutes int    // Pending payments older than this get expired
	SuccessPageURL string // Front-end page for settled bookings
	FailurePageURL string // Front-end page for failed attempts
	ErrorPageURL   string // Front-end page for system errors
}

type JobConfig struct {
	ExpireStaleCron  string // cron spec for payment:expire_stale
	RetryWebhookCron string // cron spec for payment:retry_webhooks
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "TourBooking API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "tourbooking"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60), // minutes
		},
		NestPay: NestPayConfig{
			ClientID:    getEnv("NESTPAY_CLIENT_ID", ""),
			StoreKey:    getEnv("NESTPAY_STORE_KEY", ""),
			GatewayURL:  getEnv("NESTPAY_GATEWAY_URL", "https://sanalpos.sandbox.example.com/fim/est3Dgate"),
			OkURL:       getEnv("NESTPAY_OK_URL", "http://localhost:8080/api/v1/payments/response"),
			FailURL:     getEnv("NESTPAY_FAIL_URL", "http://localhost:8080/api/v1/payments/response"),
			CallbackURL: getEnv("NESTPAY_CALLBACK_URL", "http://localhost:8080/api/v1/webhooks/nestpay"),
			StoreType:   getEnv("NESTPAY_STORE_TYPE", "3d_pay_hosting"),
			Currency:    getEnv("NESTPAY_CURRENCY", "949"),
			Lang:        getEnv("NESTPAY_LANG", "en"),
			RefreshTime: getEnv("NESTPAY_REFRESH_TIME", "5"),
		},
		Payment: PaymentConfig{
			TimeoutMinutes: getEnvInt("PAYMENT_TIMEOUT_MINUTES", 30),
			SuccessPageURL: getEnv("PAYMENT_SUCCESS_PAGE_URL", "http://localhost:3000/payment/success"),
			FailurePageURL: getEnv("PAYMENT_FAILURE_PAGE_URL", "http://localhost:3000/payment/failure"),
			ErrorPageURL:   getEnv("PAYMENT_ERROR_PAGE_URL", "http://localhost:3000/payment/error"),
		},
		Job: JobConfig{
			ExpireStaleCron:  getEnv("JOB_EXPIRE_STALE_CRON", "*/10 * * * *"),
			RetryWebhookCron: getEnv("JOB_RETRY_WEBHOOK_CRON", "*/5 * * * *"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for production readiness
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.NestPay.ClientID == "" {
			return fmt.Errorf("NESTPAY_CLIENT_ID must be set in production")
		}
		if c.NestPay.StoreKey == "" {
			return fmt.Errorf("NESTPAY_STORE_KEY must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
