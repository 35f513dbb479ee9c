package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Log        LogConfig
	Redis      RedisConfig
	Lock       LockConfig
	Credential CredentialConfig
	Accounting AccountingConfig
	Bootstrap  BootstrapConfig
	HTTP       HTTPConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig selects the GORM dialect. DSN wins over the discrete fields.
type DatabaseConfig struct {
	Driver       string // postgres, sqlite
	DSN          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RedisConfig enables the cross-process collection locker
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type LockConfig struct {
	Timeout time.Duration
	TTL     time.Duration
}

type CredentialConfig struct {
	Iterations  int
	AllowLegacy bool // accept unsalted SHA-256 digests from old stores
}

type AccountingConfig struct {
	PurchaseDedupKey string // supplier_product, purchase_order
}

type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

type HTTPConfig struct {
	CORSAllowOrigins []string
}

// Load reads configs/.env, then config.toml, then BIZ_ prefixed environment
// variables (highest priority), falling back to built-in defaults.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("BIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bizledger")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "bizledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", "24h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("lock.timeout", "5s")
	v.SetDefault("lock.ttl", "30s")

	v.SetDefault("credential.iterations", 260000)
	v.SetDefault("credential.allow_legacy", false)

	v.SetDefault("accounting.purchase_dedup_key", "supplier_product")

	v.SetDefault("bootstrap.admin_username", "admin")
	v.SetDefault("bootstrap.admin_password", "admin123")

	v.SetDefault("http.cors_allow_origins", []string{"http://localhost:5173"})
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("database.driver")),
			DSN:          v.GetString("database.dsn"),
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			Name:         v.GetString("database.name"),
			SSLMode:      v.GetString("database.sslmode"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Lock: LockConfig{
			Timeout: v.GetDuration("lock.timeout"),
			TTL:     v.GetDuration("lock.ttl"),
		},
		Credential: CredentialConfig{
			Iterations:  v.GetInt("credential.iterations"),
			AllowLegacy: v.GetBool("credential.allow_legacy"),
		},
		Accounting: AccountingConfig{
			PurchaseDedupKey: v.GetString("accounting.purchase_dedup_key"),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: v.GetString("bootstrap.admin_username"),
			AdminPassword: v.GetString("bootstrap.admin_password"),
		},
		HTTP: HTTPConfig{
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
	}

	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		cfg.JWT.Secret = "default_super_secret_key" // development fallback only
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the application can not run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in %s", c.App.Env)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	switch c.Accounting.PurchaseDedupKey {
	case "supplier_product", "purchase_order":
	default:
		return fmt.Errorf("unsupported accounting.purchase_dedup_key %q", c.Accounting.PurchaseDedupKey)
	}
	if c.Credential.Iterations < 100000 {
		return fmt.Errorf("credential.iterations must be at least 100000, got %d", c.Credential.Iterations)
	}
	if c.Bootstrap.AdminUsername == "" {
		return fmt.Errorf("bootstrap.admin_username is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// ConnectionString returns the DSN for the configured driver
func (d DatabaseConfig) ConnectionString() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == "sqlite" {
		return d.Name + ".db"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}
