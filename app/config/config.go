package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lumiere-jewels/storefront/models"
)

type Config struct {
	Port             string        `yaml:"port"`
	LogLevel         string        `yaml:"log_level"`
	CatalogCacheSize int           `yaml:"catalog_cache_size"`
	CatalogCacheTTL  time.Duration `yaml:"catalog_cache_ttl"`
	Database         Database      `yaml:"database"`
	Auth             Auth          `yaml:"auth"`
	Mail             Mail          `yaml:"mail"`
	Shipping         Shipping      `yaml:"shipping"`
}

type Database struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
	Path   string `yaml:"path"`
}

type Auth struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	EnforceAdmin bool          `yaml:"enforce_admin"`
}

type Mail struct {
	Driver   string        `yaml:"driver"`
	Addr     string        `yaml:"smtp_addr"`
	User     string        `yaml:"smtp_user"`
	Password string        `yaml:"smtp_password"`
	From     string        `yaml:"from"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Shipping amounts are decimal strings ("4.95"). An empty FreeOver disables
// the free-shipping threshold.
type Shipping struct {
	FlatRate string `yaml:"flat_rate"`
	FreeOver string `yaml:"free_over"`
}

func defaults() *Config {
	return &Config{
		Port:             "8080",
		LogLevel:         "info",
		CatalogCacheSize: 256,
		CatalogCacheTTL:  30 * time.Second,
		Database: Database{
			Driver: "memory",
			Path:   "./storefront.db",
		},
		Auth: Auth{
			TokenTTL: 72 * time.Hour,
		},
		Mail: Mail{
			Driver:  "log",
			From:    "orders@lumiere.example",
			Timeout: 10 * time.Second,
		},
		Shipping: Shipping{
			FlatRate: "0.00",
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE, and environment variables, in increasing priority.
// A .env file in the working directory is loaded first if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET environment variable not set. Generating a random key; tokens will be invalid after restart. PLEASE SET JWT_SECRET IN PRODUCTION!")
		cfg.Auth.JWTSecret = generateSecret(32)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Database.Driver = getEnv("STORE_DRIVER", c.Database.Driver)
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Mail.Driver = getEnv("MAIL_DRIVER", c.Mail.Driver)
	c.Mail.Addr = getEnv("SMTP_ADDR", c.Mail.Addr)
	c.Mail.User = getEnv("SMTP_USER", c.Mail.User)
	c.Mail.Password = getEnv("SMTP_PASSWORD", c.Mail.Password)
	c.Mail.From = getEnv("MAIL_FROM", c.Mail.From)
	c.Shipping.FlatRate = getEnv("SHIPPING_FLAT_RATE", c.Shipping.FlatRate)
	c.Shipping.FreeOver = getEnv("FREE_SHIPPING_OVER", c.Shipping.FreeOver)

	var err error
	if c.Auth.TokenTTL, err = getDuration("TOKEN_TTL", c.Auth.TokenTTL); err != nil {
		return err
	}
	if c.Mail.Timeout, err = getDuration("NOTIFY_TIMEOUT", c.Mail.Timeout); err != nil {
		return err
	}
	if c.Auth.EnforceAdmin, err = getBool("ENFORCE_ADMIN", c.Auth.EnforceAdmin); err != nil {
		return err
	}
	if c.CatalogCacheSize, err = getInt("CATALOG_CACHE_SIZE", c.CatalogCacheSize); err != nil {
		return err
	}
	if c.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", c.CatalogCacheTTL); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	switch c.Database.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want memory, sqlite or postgres", c.Database.Driver)
	}
	switch c.Mail.Driver {
	case "log":
	case "smtp":
		if c.Mail.Addr == "" {
			return fmt.Errorf("SMTP_ADDR is required when MAIL_DRIVER=smtp")
		}
	default:
		return fmt.Errorf("invalid MAIL_DRIVER %q: want log or smtp", c.Mail.Driver)
	}
	if _, err := models.ParseMoney(c.Shipping.FlatRate); err != nil {
		return fmt.Errorf("SHIPPING_FLAT_RATE: %w", err)
	}
	if c.Shipping.FreeOver != "" {
		if _, err := models.ParseMoney(c.Shipping.FreeOver); err != nil {
			return fmt.Errorf("FREE_SHIPPING_OVER: %w", err)
		}
	}
	if c.CatalogCacheSize < 0 {
		return fmt.Errorf("CATALOG_CACHE_SIZE must not be negative")
	}
	if c.CatalogCacheSize > 0 && c.CatalogCacheTTL <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be positive when the catalog cache is on")
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func generateSecret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
