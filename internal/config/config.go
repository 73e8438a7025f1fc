package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Local API
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	CORSOrigin         string `mapstructure:"CORS_ORIGIN"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	// Backend
	BackendURL            string `mapstructure:"BACKEND_URL"`
	BackendTimeoutSeconds int    `mapstructure:"BACKEND_TIMEOUT_SECONDS"`
	ProductsPath          string `mapstructure:"PRODUCTS_PATH"`
	LookupPath            string `mapstructure:"LOOKUP_PATH"`
	PurchasePath          string `mapstructure:"PURCHASE_PATH"`
	TransactionsPath      string `mapstructure:"TRANSACTIONS_PATH"`
	UpdateTransactionPath string `mapstructure:"UPDATE_TRANSACTION_PATH"`

	// Circuit breaker around the backend
	CBFailureThreshold   int `mapstructure:"CB_FAILURE_THRESHOLD"`
	CBOpenTimeoutSeconds int `mapstructure:"CB_OPEN_TIMEOUT_SECONDS"`

	// Session identity. UserID wins over the claim inside AccessToken.
	UserID      string `mapstructure:"USER_ID"`
	AccessToken string `mapstructure:"ACCESS_TOKEN"`

	// Scanning
	ScanCooldownMS int `mapstructure:"SCAN_COOLDOWN_MS"`

	// Redis lookup cache and receipt e-mail queue; empty URL disables both.
	RedisURL              string `mapstructure:"REDIS_URL"`
	LookupCacheTTLSeconds int    `mapstructure:"LOOKUP_CACHE_TTL_SECONDS"`
	WorkerPoolSize        int    `mapstructure:"WORKER_POOL_SIZE"`

	// Receipts
	ReceiptStoragePath string `mapstructure:"RECEIPT_STORAGE_PATH"`
	StoreName          string `mapstructure:"STORE_NAME"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
}

// BackendTimeout is BackendTimeoutSeconds as a duration.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

// ScanCooldown is ScanCooldownMS as a duration.
func (c *Config) ScanCooldown() time.Duration {
	return time.Duration(c.ScanCooldownMS) * time.Millisecond
}

// LookupCacheTTL is LookupCacheTTLSeconds as a duration.
func (c *Config) LookupCacheTTL() time.Duration {
	return time.Duration(c.LookupCacheTTLSeconds) * time.Second
}

// CBOpenTimeout is CBOpenTimeoutSeconds as a duration.
func (c *Config) CBOpenTimeout() time.Duration {
	return time.Duration(c.CBOpenTimeoutSeconds) * time.Second
}

// MailEnabled reports whether receipts can be e-mailed.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	// Optional .env file for local development, ignored if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGIN", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 600)
	v.SetDefault("BACKEND_URL", "http://localhost/pos/api")
	v.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	v.SetDefault("PRODUCTS_PATH", "/products.php")
	v.SetDefault("LOOKUP_PATH", "/get_product_by_qr.php")
	v.SetDefault("PURCHASE_PATH", "/purchase.php")
	v.SetDefault("TRANSACTIONS_PATH", "/transactions.php")
	v.SetDefault("UPDATE_TRANSACTION_PATH", "/update_transaction.php")
	v.SetDefault("CB_FAILURE_THRESHOLD", 5)
	v.SetDefault("CB_OPEN_TIMEOUT_SECONDS", 30)
	v.SetDefault("USER_ID", "")
	v.SetDefault("ACCESS_TOKEN", "")
	v.SetDefault("SCAN_COOLDOWN_MS", 1000)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOOKUP_CACHE_TTL_SECONDS", 30)
	v.SetDefault("WORKER_POOL_SIZE", 2)
	v.SetDefault("RECEIPT_STORAGE_PATH", "")
	v.SetDefault("STORE_NAME", "POS")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
}
