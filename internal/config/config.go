package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/pelletier/go-toml/v2"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `toml:"host"`
	Port               string `toml:"port"`
	User               string `toml:"user"`
	Password           string `toml:"password"`
	Name               string `toml:"name"`
	SSLMode            string `toml:"sslmode"`
	MaxOpenConns       int    `toml:"max_open_conns"`
	MaxIdleConns       int    `toml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `toml:"conn_max_lifetime_sec"`
	AutoMigrate        bool   `toml:"auto_migrate"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
	// MaxUploadSize is a human readable size such as "5MB".
	MaxUploadSize string `toml:"max_upload_size"`

	maxUploadSizeVal int64
}

// MaxUploadSizeBytes returns the parsed upload limit. Valid after Load.
func (c MinIOConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// RedisConfig holds the Redis connection used for the refresh token denylist.
// An empty Addr selects the in-process denylist.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// JWTConfig controls token issuance.
type JWTConfig struct {
	SigningKey             string        `toml:"signing_key"`
	Issuer                 string        `toml:"issuer"`
	AccessTokenLifetime    time.Duration `toml:"-"`
	RefreshTokenLifetime   time.Duration `toml:"-"`
	RotateRefreshTokens    bool          `toml:"rotate_refresh_tokens"`
	BlacklistAfterRotation bool          `toml:"blacklist_after_rotation"`

	AccessTokenLifetimeRaw  string `toml:"access_token_lifetime"`
	RefreshTokenLifetimeRaw string `toml:"refresh_token_lifetime"`
}

// LogConfig selects log level and an optional rotating log file.
type LogConfig struct {
	Level      string `toml:"level"`
	FilePath   string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// AppConfig is the centralized configuration struct for the application.
// Values come from an optional TOML file and are overridden by environment variables.
type AppConfig struct {
	AppHost          string         `toml:"app_host"`
	Port             string         `toml:"port"`
	ShutdownTimeout  time.Duration  `toml:"-"`
	CORSAllowOrigins string         `toml:"cors_allow_origins"`
	Database         DatabaseConfig `toml:"database"`
	MinIO            MinIOConfig    `toml:"minio"`
	Redis            RedisConfig    `toml:"redis"`
	JWT              JWTConfig      `toml:"jwt"`
	Log              LogConfig      `toml:"log"`

	ShutdownTimeoutRaw string `toml:"shutdown_timeout"`
}

// EnvConfigFile names the TOML file to read before applying the environment.
const EnvConfigFile = "CONFIG_FILE"

// Load reads configuration from the optional TOML file named by CONFIG_FILE
// and then from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over both.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := os.Getenv(EnvConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.loadEnv()

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		AppHost:            "localhost:8080",
		Port:               "8080",
		ShutdownTimeoutRaw: "10s",
		CORSAllowOrigins:   "http://localhost:3000",
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
		},
		MinIO: MinIOConfig{
			Bucket:        "shoe-images",
			MaxUploadSize: "5MB",
		},
		JWT: JWTConfig{
			AccessTokenLifetimeRaw:  "5m",
			RefreshTokenLifetimeRaw: "24h",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func (c *AppConfig) loadEnv() {
	c.AppHost = getEnv("APP_HOST", c.AppHost)
	c.Port = getEnv("PORT", c.Port)
	c.ShutdownTimeoutRaw = getEnv("SHUTDOWN_TIMEOUT", c.ShutdownTimeoutRaw)
	c.CORSAllowOrigins = getEnv("CORS_ALLOW_ORIGINS", c.CORSAllowOrigins)

	c.Database = DatabaseConfig{
		Host:               getEnv("DB_HOST", c.Database.Host),
		Port:               getEnv("DB_PORT", c.Database.Port),
		User:               getEnv("DB_USER", c.Database.User),
		Password:           getEnv("DB_PASSWORD", c.Database.Password),
		Name:               getEnv("DB_NAME", c.Database.Name),
		SSLMode:            getEnv("DB_SSLMODE", c.Database.SSLMode),
		MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns),
		MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns),
		ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", c.Database.ConnMaxLifetimeSec),
		AutoMigrate:        getEnvBool("DB_AUTO_MIGRATE", c.Database.AutoMigrate),
	}

	c.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.MinIO.Endpoint)
	c.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.MinIO.AccessKey)
	c.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.MinIO.SecretKey)
	c.MinIO.Bucket = getEnv("MINIO_BUCKET", c.MinIO.Bucket)
	c.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.MinIO.UseSSL)
	c.MinIO.MaxUploadSize = getEnv("STORAGE_MAX_UPLOAD_SIZE", c.MinIO.MaxUploadSize)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.JWT.SigningKey = getEnv("JWT_SIGNING_KEY", c.JWT.SigningKey)
	c.JWT.Issuer = getEnv("JWT_ISSUER", c.JWT.Issuer)
	c.JWT.AccessTokenLifetimeRaw = getEnv("JWT_ACCESS_TOKEN_LIFETIME", c.JWT.AccessTokenLifetimeRaw)
	c.JWT.RefreshTokenLifetimeRaw = getEnv("JWT_REFRESH_TOKEN_LIFETIME", c.JWT.RefreshTokenLifetimeRaw)
	c.JWT.RotateRefreshTokens = getEnvBool("JWT_ROTATE_REFRESH_TOKENS", c.JWT.RotateRefreshTokens)
	c.JWT.BlacklistAfterRotation = getEnvBool("JWT_BLACKLIST_AFTER_ROTATION", c.JWT.BlacklistAfterRotation)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.FilePath = getEnv("LOG_FILE", c.Log.FilePath)
	c.Log.MaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.Log.MaxSizeMB)
	c.Log.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.Log.MaxBackups)
	c.Log.MaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", c.Log.MaxAgeDays)
}

// finalize parses derived values and validates settings that have no safe default.
func (c *AppConfig) finalize() error {
	var err error

	if c.ShutdownTimeout, err = time.ParseDuration(c.ShutdownTimeoutRaw); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if c.JWT.AccessTokenLifetime, err = time.ParseDuration(c.JWT.AccessTokenLifetimeRaw); err != nil {
		return fmt.Errorf("invalid jwt access_token_lifetime: %w", err)
	}
	if c.JWT.RefreshTokenLifetime, err = time.ParseDuration(c.JWT.RefreshTokenLifetimeRaw); err != nil {
		return fmt.Errorf("invalid jwt refresh_token_lifetime: %w", err)
	}
	if c.JWT.AccessTokenLifetime <= 0 || c.JWT.RefreshTokenLifetime <= 0 {
		return errors.New("jwt token lifetimes must be positive")
	}
	if strings.TrimSpace(c.JWT.SigningKey) == "" {
		return errors.New("jwt signing_key is required")
	}

	size, err := units.FromHumanSize(c.MinIO.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return errors.New("max_upload_size must be positive")
	}
	c.MinIO.maxUploadSizeVal = size

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
