package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the application.
// 所有环境变量只在这个包读取。
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional; empty URL disables persistence)
	Database DatabaseConfig

	// Redis (optional fetch cache)
	Redis RedisConfig

	// External services
	EastMoney EastMoneyConfig
	DeepSeek  DeepSeekConfig
	WeCom     WeComConfig

	// Review run
	ReviewConfigPath string
	ResultsDir       string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis cache configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// EastMoneyConfig holds 东方财富 market data endpoints.
type EastMoneyConfig struct {
	PoolBaseURL  string
	QuoteBaseURL string
	KlineBaseURL string
	RatePerSec   float64
}

// DeepSeekConfig holds DeepSeek commentary API configuration.
type DeepSeekConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Enabled     bool
	MaxTokens   int
	Timeout     time.Duration
	Concurrency int
}

// WeComConfig holds 企业微信 webhook configuration.
type WeComConfig struct {
	WebhookURL string
	Enabled    bool
}

// Load reads configuration from environment variables.
// 只有这个函数调用 os.Getenv()。
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		EastMoney: EastMoneyConfig{
			PoolBaseURL:  getEnv("EASTMONEY_POOL_URL", "https://push2ex.eastmoney.com"),
			QuoteBaseURL: getEnv("EASTMONEY_QUOTE_URL", "https://82.push2.eastmoney.com"),
			KlineBaseURL: getEnv("EASTMONEY_KLINE_URL", "https://push2his.eastmoney.com"),
			RatePerSec:   getEnvAsFloat("EASTMONEY_RATE_PER_SEC", 5.0),
		},

		DeepSeek: DeepSeekConfig{
			APIKey:      getEnv("DEEPSEEK_API_KEY", ""),
			BaseURL:     getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1/chat/completions"),
			Model:       getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			Enabled:     getEnvAsBool("DEEPSEEK_ENABLED", false),
			MaxTokens:   getEnvAsInt("DEEPSEEK_MAX_TOKENS", 1000),
			Timeout:     getEnvAsDuration("DEEPSEEK_TIMEOUT", "60s"),
			Concurrency: getEnvAsInt("DEEPSEEK_CONCURRENCY", 4),
		},

		WeCom: WeComConfig{
			WebhookURL: getEnv("WECOM_WEBHOOK_URL", ""),
			Enabled:    getEnvAsBool("WECOM_ENABLED", false),
		},

		ReviewConfigPath: getEnv("REVIEW_CONFIG_PATH", "config/review.yaml"),
		ResultsDir:       getEnv("RESULTS_DIR", "results"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks structurally required configuration up front.
// Optional integrations (database, redis, notifier) degrade at runtime
// instead of failing here.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.DeepSeek.Enabled && c.DeepSeek.APIKey == "" {
		return fmt.Errorf("DEEPSEEK_ENABLED is set but DEEPSEEK_API_KEY is empty")
	}

	if c.WeCom.Enabled && c.WeCom.WebhookURL == "" {
		return fmt.Errorf("WECOM_ENABLED is set but WECOM_WEBHOOK_URL is empty")
	}

	return nil
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
