// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers supported by the storefront
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Security SecurityConfig
	External ExternalConfig
	Upload   UploadConfig
	Invoice  InvoiceConfig
	Checkout CheckoutConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	BaseURL     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver        string
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	MaxLifetime   time.Duration
	MongoURI      string
	MongoDatabase string
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SessionConfig contains session cookie and record configuration
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	RateLimitPerMinute int
	TrustedProxies     []string
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Stripe  StripeConfig
	Email   EmailConfig
	Storage StorageConfig
}

// StripeConfig contains Stripe payment configuration
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	Currency       string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Provider     string
	APIKey       string
	FromEmail    string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// StorageConfig contains file storage configuration
type StorageConfig struct {
	PublicDir string
	ImagePath string
}

// UploadConfig contains file upload configuration
type UploadConfig struct {
	MaxSize          int64
	AllowedMimeTypes []string
}

// InvoiceConfig contains invoice output configuration
type InvoiceConfig struct {
	Dir string
}

// CheckoutConfig contains checkout behaviour toggles
type CheckoutConfig struct {
	DirectOrders bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "3000"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Driver:        getEnv("DB_DRIVER", DriverPostgres),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			Name:          getEnv("DB_NAME", "storefront"),
			User:          getEnv("DB_USER", "storefront"),
			Password:      getEnv("DB_PASSWORD", "storefront"),
			SSLMode:       getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:  getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:   getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
			MongoURI:      getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "storefront"),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "change-this-session-secret-in-production"),
			CookieName: getEnv("SESSION_COOKIE_NAME", "storefront_session"),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		External: ExternalConfig{
			Stripe: StripeConfig{
				SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
				PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
				Currency:       getEnv("STRIPE_CURRENCY", "usd"),
			},
			Email: EmailConfig{
				Provider:     getEnv("EMAIL_PROVIDER", "log"),
				APIKey:       getEnv("SENDGRID_API_KEY", ""),
				FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
				FromName:     getEnv("FROM_NAME", "Storefront"),
				SMTPHost:     getEnv("SMTP_HOST", ""),
				SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
				SMTPUsername: getEnv("SMTP_USER", ""),
				SMTPPassword: getEnv("SMTP_PASS", ""),
			},
			Storage: StorageConfig{
				PublicDir: getEnv("STORAGE_PUBLIC_DIR", "./public"),
				ImagePath: getEnv("STORAGE_IMAGE_PATH", "/uploads/images"),
			},
		},
		Upload: UploadConfig{
			MaxSize:          getEnvAsInt64("UPLOAD_MAX_SIZE", 5242880), // 5MB
			AllowedMimeTypes: getEnvAsSlice("UPLOAD_ALLOWED_MIME_TYPES", []string{"image/png", "image/jpg", "image/jpeg"}),
		},
		Invoice: InvoiceConfig{
			Dir: getEnv("INVOICE_DIR", "data/invoices"),
		},
		Checkout: CheckoutConfig{
			DirectOrders: getEnvAsBool("CHECKOUT_DIRECT_ORDERS", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
		if c.Database.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE is required")
		}
	case DriverMemory:
		if c.IsProduction() {
			return fmt.Errorf("DB_DRIVER=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.Database.Driver)
	}

	// without Redis, sessions live in process and die with it
	if !c.UsesRedis() && c.IsProduction() {
		return fmt.Errorf("REDIS_HOST is required in production")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.IsProduction() && c.External.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required in production")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// UsesRedis reports whether sessions and rate limits live in Redis
func (c *Config) UsesRedis() bool {
	return c.Redis.Enabled && c.Redis.Host != ""
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
